package server

import "github.com/kon14/pokerd/pkg/poker"

// CardState is a per-recipient visibility tag for a single card slot.
type CardState int

const (
	Visible CardState = iota
	Hidden
	Discarded
)

// CardSlot is one card position in a player's hand as seen by a given
// recipient.
type CardSlot struct {
	Card  poker.Card
	State CardState
}

// PlayerView is the public, per-recipient projection of one seated
// player.
type PlayerView struct {
	PlayerID  poker.PlayerID
	Credits   uint64
	Cards     []CardSlot
	BetTotal  uint64
	CanAct    bool
	HasFolded bool
}

// MatchView is the full per-recipient projection of a match in progress.
type MatchView struct {
	MatchID poker.MatchID
	Players []PlayerView
	Pots    []PotView
	Phase   poker.PhaseView
	IsDone  bool
}

// PotView is the public projection of a single pot's current total.
type PotView struct {
	PotID poker.PotID
	Total uint64
}

// StateSnapshot is the authoritative, unmasked snapshot built once per
// publish. Per-recipient views are derived from it by filtering; masking
// never mutates this authoritative state. A nil StateSnapshot signals
// stream end on the broadcast channel.
type StateSnapshot struct {
	Lobby *LobbyView
	Match *MatchSnapshot
}

// MatchSnapshot is the unmasked capture of a match's current phase.
type MatchSnapshot struct {
	matchID    poker.MatchID
	seating    []poker.PlayerID
	hands      map[poker.PlayerID]*poker.Hand
	credits    map[poker.PlayerID]uint64
	betTotals  map[poker.PlayerID]uint64
	pots       []PotView
	phaseView  poker.PhaseView
	canAct     map[poker.PlayerID]bool
	isShowdown bool
	isDone     bool
}

// BuildMatchSnapshot captures an unmasked snapshot of a match's current
// phase. It is built once per publish and then projected per recipient;
// it never mutates table or current.
func BuildMatchSnapshot(table *poker.GameTable, current poker.Phase, isDone bool) *MatchSnapshot {
	betTotals := make(map[poker.PlayerID]uint64)
	if view, ok := current.View().(poker.BettingView); ok {
		for id, amt := range view.PlayerBet {
			betTotals[id] = amt
		}
	}

	credits := make(map[poker.PlayerID]uint64, len(table.PlayerCredits))
	for id, pc := range table.PlayerCredits {
		credits[id] = pc.Remaining
	}

	pots := make([]PotView, 0, len(table.Pots))
	for _, pot := range table.PotsInSeatOrder() {
		pots = append(pots, PotView{PotID: pot.ID, Total: pot.Total})
	}

	_, isShowdown := current.(*poker.ShowdownPhase)

	return &MatchSnapshot{
		matchID:    table.MatchID,
		seating:    table.Seating,
		hands:      current.LiveHands(),
		credits:    credits,
		betTotals:  betTotals,
		pots:       pots,
		phaseView:  current.View(),
		canAct:     current.CanPlayerAct(),
		isShowdown: isShowdown,
		isDone:     isDone,
	}
}

// ViewFor derives recipientID's masked view of the match. The recipient's
// own cards are Visible; other players' cards are Hidden unless the
// current phase is Showdown, in which case all remaining (non-folded)
// cards are Visible. Folded players contribute no card slots.
func (s *MatchSnapshot) ViewFor(recipientID poker.PlayerID) MatchView {
	players := make([]PlayerView, 0, len(s.seating))
	for _, id := range s.seating {
		hand, isLive := s.hands[id]
		pv := PlayerView{
			PlayerID:  id,
			Credits:   s.credits[id],
			BetTotal:  s.betTotals[id],
			CanAct:    s.canAct[id],
			HasFolded: !isLive,
		}
		if isLive {
			reveal := id == recipientID || s.isShowdown
			for _, c := range hand.Cards() {
				state := Hidden
				if reveal {
					state = Visible
				}
				pv.Cards = append(pv.Cards, CardSlot{Card: c, State: state})
			}
		}
		players = append(players, pv)
	}
	return MatchView{
		MatchID: s.matchID,
		Players: players,
		Pots:    s.pots,
		Phase:   s.phaseView,
		IsDone:  s.isDone,
	}
}
