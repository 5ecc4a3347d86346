package poker

import (
	"math/rand"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHand(t *testing.T, codes ...string) *Hand {
	t.Helper()
	cards := make([]Card, len(codes))
	for i, code := range codes {
		c, err := ParseCard(code)
		require.NoError(t, err)
		cards[i] = c
	}
	h, err := NewHand(cards)
	require.NoErrorf(t, err, "hand %v: %s", codes, spew.Sdump(cards))
	return h
}

func TestRoyalVsStraightFlush(t *testing.T) {
	royal := mustHand(t, "AS", "KS", "QS", "JS", "10S")
	straightFlush := mustHand(t, "9S", "8S", "7S", "6S", "5S")
	assert.Equal(t, RoyalFlush, royal.Rank())
	assert.Equal(t, StraightFlush, straightFlush.Rank())
	winners := DetermineWinners([]*Hand{royal, straightFlush})
	require.Len(t, winners, 1)
	assert.Equal(t, royal.Cards(), winners[0].Cards())
}

func TestFourOfAKindKicker(t *testing.T) {
	low := mustHand(t, "2H", "2S", "2D", "2C", "9S")
	high := mustHand(t, "2H", "2S", "2D", "2C", "KS")
	assert.Equal(t, FourOfAKind, low.Rank())
	assert.Equal(t, FourOfAKind, high.Rank())
	assert.Equal(t, King, high.TieBreak()[1])
	winners := DetermineWinners([]*Hand{low, high})
	require.Len(t, winners, 1)
	assert.Equal(t, high.Cards(), winners[0].Cards())
}

func TestWheelStraight(t *testing.T) {
	wheel := mustHand(t, "AS", "2C", "3D", "4D", "5C")
	sixHigh := mustHand(t, "6C", "7D", "8H", "9S", "10C")
	assert.Equal(t, Straight, wheel.Rank())
	assert.Equal(t, Five, wheel.TieBreak()[0])
	assert.Equal(t, Straight, sixHigh.Rank())
	winners := DetermineWinners([]*Hand{wheel, sixHigh})
	require.Len(t, winners, 1)
	assert.Equal(t, sixHigh.Cards(), winners[0].Cards())
}

func TestNotAStraight(t *testing.T) {
	h := mustHand(t, "AS", "KC", "2D", "3D", "4C")
	assert.NotEqual(t, Straight, h.Rank())
	assert.Equal(t, HighCard, h.Rank())
}

func TestTwoPairTieKicker(t *testing.T) {
	low := mustHand(t, "AH", "AD", "3S", "3H", "6C")
	high := mustHand(t, "AH", "AD", "3S", "3H", "9C")
	assert.Equal(t, TwoPair, low.Rank())
	assert.Equal(t, TwoPair, high.Rank())
	winners := DetermineWinners([]*Hand{low, high})
	require.Len(t, winners, 1)
	assert.Equal(t, high.Cards(), winners[0].Cards())
}

func TestEqualRoyalFlushesTie(t *testing.T) {
	spadesRoyal := mustHand(t, "AS", "KS", "QS", "JS", "10S")
	heartsRoyal := mustHand(t, "AH", "KH", "QH", "JH", "10H")
	winners := DetermineWinners([]*Hand{spadesRoyal, heartsRoyal})
	assert.Len(t, winners, 2)
}

func TestNewHandRejectsWrongCountOrDuplicates(t *testing.T) {
	ace, _ := ParseCard("AS")
	king, _ := ParseCard("KS")
	_, err := NewHand([]Card{ace, king})
	assert.Error(t, err)

	_, err = NewHand([]Card{ace, ace, king, king, king})
	assert.Error(t, err)
}

// Hand comparison is a strict total order: exactly one of <, ==, > holds
// for any two valid hands.
func TestCompareIsTotalOrder(t *testing.T) {
	a := mustHand(t, "AS", "KS", "QS", "JS", "10S")
	b := mustHand(t, "9S", "8S", "7S", "6S", "5S")
	c := mustHand(t, "AH", "KH", "QH", "JH", "10H")

	lt := a.Compare(b) < 0
	eq := a.Compare(b) == 0
	gt := a.Compare(b) > 0
	assert.Equal(t, 1, boolCount(lt, eq, gt))

	assert.Equal(t, 0, a.Compare(c))
	assert.Equal(t, -a.Compare(b), b.Compare(a))
}

func boolCount(bs ...bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}

// determine_winners is invariant under permutation of its input.
func TestDetermineWinnersPermutationInvariant(t *testing.T) {
	hands := []*Hand{
		mustHand(t, "AH", "AD", "3S", "3H", "9C"),
		mustHand(t, "AH", "AD", "3S", "3H", "6C"),
		mustHand(t, "2H", "2S", "2D", "2C", "KS"),
	}
	base := DetermineWinners(hands)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := append([]*Hand{}, hands...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got := DetermineWinners(shuffled)
		require.Len(t, got, len(base))
		assert.Equal(t, base[0].Cards(), got[0].Cards())
	}
}

func TestCardStringRoundTrip(t *testing.T) {
	for _, code := range []string{"2S", "10H", "JD", "QC", "KS", "AH", "9c", "10s"} {
		c, err := ParseCard(code)
		require.NoError(t, err)
		reparsed, err := ParseCard(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, reparsed)
	}
}
