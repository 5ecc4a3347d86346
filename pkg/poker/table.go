package poker

// GameTable holds the per-match state shared across phase transitions:
// seating, pot registry, and player credits. The seating queue is a
// rotation where index 0 is the next-to-act; it is cloned into each phase
// and mutated locally by that phase.
type GameTable struct {
	MatchID       MatchID
	Seating       []PlayerID
	PlayerIDs     map[PlayerID]struct{}
	DealerID      PlayerID
	Pots          map[PotID]*CreditPot
	PlayerCredits map[PlayerID]*PlayerCredits
}

// NewGameTable seeds a table for the given seated players, each starting
// with startingCredits, and a single main pot.
func NewGameTable(seating []PlayerID, startingCredits uint64) *GameTable {
	ids := make(map[PlayerID]struct{}, len(seating))
	credits := make(map[PlayerID]*PlayerCredits, len(seating))
	for _, id := range seating {
		ids[id] = struct{}{}
		credits[id] = NewPlayerCredits(id, startingCredits)
	}
	mainPot := NewCreditPot(true)
	dealer := PlayerID{}
	if len(seating) > 0 {
		dealer = seating[0]
	}
	return &GameTable{
		MatchID:       NewMatchID(),
		Seating:       seating,
		PlayerIDs:     ids,
		DealerID:      dealer,
		Pots:          map[PotID]*CreditPot{mainPot.ID: mainPot},
		PlayerCredits: credits,
	}
}

// MainPot returns the table's single main pot. This module does not
// implement side-pot economics.
func (t *GameTable) MainPot() *CreditPot {
	for _, pot := range t.Pots {
		if pot.IsMain {
			return pot
		}
	}
	return nil
}

// CloneQueue returns a fresh copy of the seating order for a new phase to
// rotate locally without mutating the table's canonical seating.
func (t *GameTable) CloneQueue() []PlayerID {
	queue := make([]PlayerID, len(t.Seating))
	copy(queue, t.Seating)
	return queue
}

// PotsInSeatOrder returns the table's pots with the main pot first; any
// other pots follow in map iteration order, which is not stable.
func (t *GameTable) PotsInSeatOrder() []*CreditPot {
	pots := make([]*CreditPot, 0, len(t.Pots))
	main := t.MainPot()
	if main != nil {
		pots = append(pots, main)
	}
	for _, pot := range t.Pots {
		if !pot.IsMain {
			pots = append(pots, pot)
		}
	}
	return pots
}

// rotateQueue moves the front of the queue to the back, preserving
// multiset membership.
func rotateQueue(queue []PlayerID) []PlayerID {
	if len(queue) == 0 {
		return queue
	}
	front := queue[0]
	return append(queue[1:], front)
}
