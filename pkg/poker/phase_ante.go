package poker

import (
	"time"
)

// AntePhase deducts a uniform forced bet from every player before dealing.
// No player action is accepted; it advances purely on a fixed pacing
// delay.
type AntePhase struct {
	table       *GameTable
	deck        *Deck
	queue       []PlayerID
	anteAmount  uint64
	contributed map[PlayerID]bool
}

// NewAntePhase starts a fresh match at the Ante phase.
func NewAntePhase(table *GameTable, deck *Deck, anteAmount uint64) *AntePhase {
	return &AntePhase{
		table:       table,
		deck:        deck,
		queue:       table.CloneQueue(),
		anteAmount:  anteAmount,
		contributed: make(map[PlayerID]bool, len(table.Seating)),
	}
}

func (p *AntePhase) Act() {
	if len(p.queue) == 0 {
		return
	}
	front := p.queue[0]
	if !p.contributed[front] {
		credits := p.table.PlayerCredits[front]
		pot := p.table.MainPot()
		if credits != nil && pot != nil {
			// Ante deduction is internal bookkeeping and can never fail
			// an affordability check; it is owed by invariant.
			_ = credits.UseCredits(p.anteAmount, pot)
		}
		p.contributed[front] = true
	}
	p.queue = rotateQueue(p.queue)
}

func (p *AntePhase) IsCompleted() bool {
	return len(p.contributed) == len(p.table.PlayerIDs)
}

func (p *AntePhase) NextPhase() (Phase, bool) {
	return NewDealingPhase(p.table, p.deck), true
}

func (p *AntePhase) ActivePlayer() (PlayerID, bool) { return PlayerID{}, false }

func (p *AntePhase) Progression() ActionProgression { return Delay(500 * time.Millisecond) }

func (p *AntePhase) View() PhaseView { return AnteView{AnteAmount: p.anteAmount} }

func (p *AntePhase) CanPlayerAct() map[PlayerID]bool {
	return allFalse(p.table.PlayerIDs)
}

func (p *AntePhase) LiveHands() map[PlayerID]*Hand { return nil }

func allFalse(ids map[PlayerID]struct{}) map[PlayerID]bool {
	out := make(map[PlayerID]bool, len(ids))
	for id := range ids {
		out[id] = false
	}
	return out
}
