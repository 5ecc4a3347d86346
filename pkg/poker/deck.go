package poker

import (
	"math/rand"
	"time"
)

// Deck is a shuffled draw pile plus a discard pile. Invariant: at any time,
// the multiset (deck ∪ discards ∪ cards-in-hands) equals the full 52-card
// deck, with no duplicates. Fresh decks are shuffled at construction.
type Deck struct {
	cards    []Card
	discards []Card
	rng      *rand.Rand
}

// NewDeck builds a fresh, shuffled 52-card deck using the given source. A
// nil rng seeds a new one from the current time, for callers (lobby
// start-up) that don't care about reproducibility.
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	d := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}
	suits := []Suit{Spades, Hearts, Diamonds, Clubs}
	ranks := []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}
	for _, s := range suits {
		for _, r := range ranks {
			d.cards = append(d.cards, Card{Rank: r, Suit: s})
		}
	}
	d.shuffle()
	return d
}

func (d *Deck) shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the top card of the draw pile. The second return
// value is false if the draw pile is empty; exhaustion is unreachable in
// normal play given the 6-player maximum and 5 cards per player, but callers
// must still check it rather than index blindly.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// Discard moves cards out of play into the discard pile. Discarded cards do
// not re-enter the draw pile until HandleDiscardEnd runs.
func (d *Deck) Discard(cards []Card) {
	d.discards = append(d.discards, cards...)
}

// HandleDiscardEnd folds the discard pile back into the draw pile and
// reshuffles; with an empty discard pile it does nothing. DrawingDealing
// calls it at the start of each of its steps, so only the first call after
// DrawingDiscarding folds cards back; draws during normal play never
// trigger a reshuffle.
func (d *Deck) HandleDiscardEnd() {
	if len(d.discards) == 0 {
		return
	}
	d.cards = append(d.cards, d.discards...)
	d.discards = d.discards[:0]
	d.shuffle()
}

// Size returns the number of cards remaining in the draw pile.
func (d *Deck) Size() int {
	return len(d.cards)
}

// DiscardPileSize returns the number of cards currently in the discard pile.
func (d *Deck) DiscardPileSize() int {
	return len(d.discards)
}
