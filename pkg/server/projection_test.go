package server

import (
	"testing"

	"github.com/kon14/pokerd/pkg/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dealHand(t *testing.T, codes ...string) *poker.Hand {
	t.Helper()
	cards := make([]poker.Card, len(codes))
	for i, code := range codes {
		c, err := poker.ParseCard(code)
		require.NoError(t, err)
		cards[i] = c
	}
	hand, err := poker.NewHand(cards)
	require.NoError(t, err)
	return hand
}

// fakePhase is a minimal poker.Phase stand-in for projection tests that
// don't need a real phase driver.
type fakePhase struct {
	hands    map[poker.PlayerID]*poker.Hand
	view     poker.PhaseView
	canAct   map[poker.PlayerID]bool
	complete bool
}

func (f *fakePhase) Act()                                  {}
func (f *fakePhase) IsCompleted() bool                      { return f.complete }
func (f *fakePhase) NextPhase() (poker.Phase, bool)          { return nil, false }
func (f *fakePhase) ActivePlayer() (poker.PlayerID, bool)    { return poker.PlayerID{}, false }
func (f *fakePhase) Progression() poker.ActionProgression    { return nil }
func (f *fakePhase) View() poker.PhaseView                   { return f.view }
func (f *fakePhase) CanPlayerAct() map[poker.PlayerID]bool   { return f.canAct }
func (f *fakePhase) LiveHands() map[poker.PlayerID]*poker.Hand { return f.hands }

// Projection masking: for any snapshot in a non-Showdown phase, a
// recipient's view contains no Visible card belonging to another player.
func TestViewForMasksOthersOutsideShowdown(t *testing.T) {
	p1, p2 := poker.NewPlayerID(), poker.NewPlayerID()
	table := poker.NewGameTable([]poker.PlayerID{p1, p2}, 1000)
	phase := &fakePhase{
		hands: map[poker.PlayerID]*poker.Hand{
			p1: dealHand(t, "AS", "KS", "QS", "JS", "10S"),
			p2: dealHand(t, "2H", "3H", "4H", "5H", "7H"),
		},
		view:   poker.DealingView{},
		canAct: map[poker.PlayerID]bool{p1: false, p2: false},
	}
	snap := BuildMatchSnapshot(table, phase, false)

	view := snap.ViewFor(p1)
	for _, pv := range view.Players {
		if pv.PlayerID == p1 {
			for _, slot := range pv.Cards {
				assert.Equal(t, Visible, slot.State)
			}
		} else {
			for _, slot := range pv.Cards {
				assert.NotEqual(t, Visible, slot.State)
			}
		}
	}
}

func TestViewForRevealsAllLiveHandsAtShowdown(t *testing.T) {
	p1, p2 := poker.NewPlayerID(), poker.NewPlayerID()
	table := poker.NewGameTable([]poker.PlayerID{p1, p2}, 1000)
	hands := map[poker.PlayerID]*poker.Hand{
		p1: dealHand(t, "AS", "KS", "QS", "JS", "10S"),
		p2: dealHand(t, "2H", "3H", "4H", "5H", "7H"),
	}
	showdown := poker.NewShowdownPhase(table, hands, map[poker.PlayerID]uint64{})
	showdown.Act()

	snap := BuildMatchSnapshot(table, showdown, true)
	view := snap.ViewFor(p2)
	for _, pv := range view.Players {
		for _, slot := range pv.Cards {
			assert.Equal(t, Visible, slot.State)
		}
	}
}

func TestFoldedPlayerHasNoCardSlots(t *testing.T) {
	p1, p2 := poker.NewPlayerID(), poker.NewPlayerID()
	table := poker.NewGameTable([]poker.PlayerID{p1, p2}, 1000)
	phase := &fakePhase{
		hands:  map[poker.PlayerID]*poker.Hand{p1: dealHand(t, "AS", "KS", "QS", "JS", "10S")},
		view:   poker.DealingView{},
		canAct: map[poker.PlayerID]bool{p1: true},
	}
	snap := BuildMatchSnapshot(table, phase, false)
	view := snap.ViewFor(p1)
	for _, pv := range view.Players {
		if pv.PlayerID == p2 {
			assert.True(t, pv.HasFolded)
			assert.Empty(t, pv.Cards)
		}
	}
}

func TestPotViewReflectsMainPotTotal(t *testing.T) {
	p1 := poker.NewPlayerID()
	table := poker.NewGameTable([]poker.PlayerID{p1}, 1000)
	require.NoError(t, table.PlayerCredits[p1].UseCredits(40, table.MainPot()))
	phase := &fakePhase{hands: map[poker.PlayerID]*poker.Hand{}, view: poker.AnteView{}}
	snap := BuildMatchSnapshot(table, phase, false)
	require.Len(t, snap.pots, 1)
	assert.Equal(t, uint64(40), snap.pots[0].Total)
}
