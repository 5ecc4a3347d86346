package poker

import (
	"time"

	"github.com/kon14/pokerd/pkg/apperrors"
)

// DiscardDecision records a player's drawing-phase declaration. A present
// map entry means the player has decided; an empty Cards slice means
// "keep all".
type DiscardDecision struct {
	Cards []Card
}

// DrawingDiscardingPhase lets any living player declare which cards to
// discard, in any order. Declared cards enter the deck's discard pile
// immediately; the fold-back-and-reshuffle happens once, at the start of
// DrawingDealing.
type DrawingDiscardingPhase struct {
	table     *GameTable
	deck      *Deck
	queue     []PlayerID
	hands     map[PlayerID]*Hand
	bets      map[PlayerID]uint64
	discarded map[PlayerID]*DiscardDecision
}

// NewDrawingDiscardingPhase transitions from the first betting round.
func NewDrawingDiscardingPhase(table *GameTable, deck *Deck, hands map[PlayerID]*Hand, bets map[PlayerID]uint64) *DrawingDiscardingPhase {
	return &DrawingDiscardingPhase{
		table:     table,
		deck:      deck,
		queue:     table.CloneQueue(),
		hands:     hands,
		bets:      bets,
		discarded: make(map[PlayerID]*DiscardDecision, len(hands)),
	}
}

// Act only advances whose turn is "front" for timeout-targeting purposes;
// discarding itself is order-free and happens via Declare.
func (p *DrawingDiscardingPhase) Act() {
	p.queue = filterLive(p.queue, p.hands)
	p.queue = rotateQueue(p.queue)
}

func (p *DrawingDiscardingPhase) IsCompleted() bool {
	return len(p.discarded) == len(p.hands)
}

func (p *DrawingDiscardingPhase) NextPhase() (Phase, bool) {
	return NewDrawingDealingPhase(p.table, p.deck, p.hands, p.bets, p.discarded), true
}

func (p *DrawingDiscardingPhase) ActivePlayer() (PlayerID, bool) { return PlayerID{}, false }

func (p *DrawingDiscardingPhase) Progression() ActionProgression {
	return Event(15*time.Second, p.handleTimeout)
}

func (p *DrawingDiscardingPhase) handleTimeout(gp *GamePhase) error {
	if len(p.queue) == 0 {
		return nil
	}
	active := p.queue[0]
	if _, decided := p.discarded[active]; decided {
		return nil
	}
	return p.Declare(active, nil)
}

func (p *DrawingDiscardingPhase) View() PhaseView {
	counts := make(map[PlayerID]int, len(p.discarded))
	for id, decision := range p.discarded {
		counts[id] = len(decision.Cards)
	}
	return DrawingDiscardingView{PlayerDiscardCount: counts}
}

func (p *DrawingDiscardingPhase) CanPlayerAct() map[PlayerID]bool {
	out := make(map[PlayerID]bool, len(p.hands))
	for id := range p.hands {
		_, decided := p.discarded[id]
		out[id] = !decided
	}
	return out
}

func (p *DrawingDiscardingPhase) LiveHands() map[PlayerID]*Hand { return p.hands }

// Declare records playerID's discard decision. cards == nil means "keep
// all". Declaring twice, or declaring cards not present in the player's
// hand, is rejected.
func (p *DrawingDiscardingPhase) Declare(playerID PlayerID, cards []Card) error {
	if _, decided := p.discarded[playerID]; decided {
		return apperrors.InvalidRequestError("player has already discarded cards")
	}
	hand, ok := p.hands[playerID]
	if !ok {
		return apperrors.NotFoundError("player %s has no hand in this phase", playerID)
	}
	if len(cards) > 0 {
		handCards := hand.Cards()
		for _, c := range cards {
			found := false
			for _, hc := range handCards {
				if hc == c {
					found = true
					break
				}
			}
			if !found {
				return apperrors.InvalidRequestError("discarded cards selection includes cards not present in the player's hand")
			}
		}
		p.deck.Discard(cards)
	}
	p.discarded[playerID] = &DiscardDecision{Cards: cards}
	return nil
}
