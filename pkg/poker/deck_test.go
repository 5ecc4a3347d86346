package poker

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckHas52DistinctCards(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(1)))
	assert.Equal(t, 52, d.Size())
	assert.Equal(t, 0, d.DiscardPileSize())

	seen := make(map[Card]struct{})
	for {
		c, ok := d.Draw()
		if !ok {
			break
		}
		_, dup := seen[c]
		assert.False(t, dup)
		seen[c] = struct{}{}
	}
	assert.Len(t, seen, 52)
}

// Deck ∪ discards ∪ cards-in-play holds exactly 52 distinct cards at every
// instant; this test tracks that invariant across a discard/reshuffle
// cycle.
func TestDeckClosureAcrossDiscardCycle(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(2)))

	var inPlay []Card
	for i := 0; i < 10; i++ {
		c, ok := d.Draw()
		require.True(t, ok)
		inPlay = append(inPlay, c)
	}
	assert.Equal(t, 42, d.Size())

	discarded := inPlay[:4]
	inPlay = inPlay[4:]
	d.Discard(discarded)
	assert.Equal(t, 4, d.DiscardPileSize())
	assert.Equal(t, 42, d.Size())

	d.HandleDiscardEnd()
	assert.Equal(t, 0, d.DiscardPileSize())
	assert.Equal(t, 46, d.Size())

	all := make(map[Card]struct{})
	for _, c := range inPlay {
		all[c] = struct{}{}
	}
	for {
		c, ok := d.Draw()
		if !ok {
			break
		}
		_, dup := all[c]
		assert.False(t, dup)
		all[c] = struct{}{}
	}
	assert.Len(t, all, 52)
}

func TestHandleDiscardEndIsIdempotentWithoutDiscards(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(3)))
	sizeBefore := d.Size()
	d.HandleDiscardEnd()
	assert.Equal(t, sizeBefore, d.Size())
}
