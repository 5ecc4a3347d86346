package poker

import (
	"github.com/kon14/pokerd/pkg/apperrors"
)

// CreditPot tracks the credits contributed by each player to a single pot.
// Invariant: Total == sum(PerPlayer.values()). This module implements a
// single main pot only; side-pot economics are out of scope.
type CreditPot struct {
	ID        PotID
	IsMain    bool
	Total     uint64
	PerPlayer map[PlayerID]uint64
}

// NewCreditPot constructs an empty pot.
func NewCreditPot(isMain bool) *CreditPot {
	return &CreditPot{
		ID:        NewPotID(),
		IsMain:    isMain,
		PerPlayer: make(map[PlayerID]uint64),
	}
}

func (p *CreditPot) addCredits(playerID PlayerID, amount uint64) {
	p.PerPlayer[playerID] += amount
	p.Total += amount
}

// PlayerCredits tracks a single player's stake for the match. Until the
// pots are distributed, Remaining + sum(Contributions.values()) == Starting
// and Remaining only decreases; DistributePots adds winnings to Remaining
// without changing Contributions.
type PlayerCredits struct {
	PlayerID      PlayerID
	Starting      uint64
	Remaining     uint64
	Contributions map[PotID]uint64
}

// NewPlayerCredits seeds a player's starting stake.
func NewPlayerCredits(playerID PlayerID, starting uint64) *PlayerCredits {
	return &PlayerCredits{
		PlayerID:      playerID,
		Starting:      starting,
		Remaining:     starting,
		Contributions: make(map[PotID]uint64),
	}
}

// UseCredits withdraws amount from Remaining and deposits it into pot,
// failing with an Internal error if the player lacks sufficient credits
// (an invariant violation — callers must validate affordability first).
func (pc *PlayerCredits) UseCredits(amount uint64, pot *CreditPot) error {
	if amount > pc.Remaining {
		return apperrors.InternalError("player %s has insufficient remaining credits", pc.PlayerID)
	}
	pc.Remaining -= amount
	pc.Contributions[pot.ID] += amount
	pot.addCredits(pc.PlayerID, amount)
	return nil
}

// DistributePots splits each pot's credits equally among the winners for
// that pot, crediting PlayerCredits.Remaining and emptying the pot (so the
// sum(pots.total)+sum(player_credits.remaining)==sum(player_credits.starting)
// invariant keeps holding after a showdown, not just before one). Integer
// division; any remainder is given to winnerIDs[0], the first winner in
// the caller's seat-order iteration (see SPEC_FULL.md §10 for the resolved
// open question). Callers must pass winnerIDs already ordered by seat
// index.
func DistributePots(pots []*CreditPot, winnerIDs []PlayerID, credits map[PlayerID]*PlayerCredits) {
	if len(winnerIDs) == 0 {
		return
	}
	for _, pot := range pots {
		share := pot.Total / uint64(len(winnerIDs))
		remainder := pot.Total % uint64(len(winnerIDs))
		for i, winnerID := range winnerIDs {
			winnings := share
			if i == 0 {
				winnings += remainder
			}
			if pc, ok := credits[winnerID]; ok {
				pc.Remaining += winnings
			}
		}
		pot.Total = 0
		pot.PerPlayer = make(map[PlayerID]uint64)
	}
}
