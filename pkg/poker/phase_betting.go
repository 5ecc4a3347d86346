package poker

import (
	"time"

	"github.com/kon14/pokerd/pkg/apperrors"
)

// BettingRound distinguishes the two betting phases, which otherwise share
// identical behavior.
type BettingRound int

const (
	FirstBettingRound BettingRound = iota
	SecondBettingRound
)

// BettingActionKind enumerates the external actions a betting phase
// accepts from its active player.
type BettingActionKind int

const (
	ActionBet BettingActionKind = iota
	ActionCall
	ActionRaise
	ActionFold
)

// BettingAction is a player's requested action. Amount is the target
// total bet for Bet/Raise and is ignored otherwise.
type BettingAction struct {
	Kind   BettingActionKind
	Amount uint64
}

// BettingPhase accepts Bet(n) | Call | Raise(n) | Fold from the active
// player only. Bet/Raise's amount is the target total bet for the match,
// not a delta; Call matches the current high bet; Fold withdraws the
// player's hand and short-circuits to Showdown if only one hand remains.
type BettingPhase struct {
	table            *GameTable
	deck             *Deck
	queue            []PlayerID
	round            BettingRound
	hands            map[PlayerID]*Hand
	bets             map[PlayerID]uint64
	hasBet           bool
	firstRoundAction bool
}

// NewFirstBettingPhase transitions from Dealing into the first betting
// round.
func NewFirstBettingPhase(table *GameTable, deck *Deck, hands map[PlayerID]*Hand) *BettingPhase {
	return newBettingPhase(table, deck, hands, nil, FirstBettingRound)
}

// NewSecondBettingPhase transitions from DrawingDealing into the second
// betting round, carrying forward match-cumulative bet totals.
func NewSecondBettingPhase(table *GameTable, deck *Deck, hands map[PlayerID]*Hand, bets map[PlayerID]uint64) *BettingPhase {
	return newBettingPhase(table, deck, hands, bets, SecondBettingRound)
}

func newBettingPhase(table *GameTable, deck *Deck, hands map[PlayerID]*Hand, bets map[PlayerID]uint64, round BettingRound) *BettingPhase {
	if bets == nil {
		bets = make(map[PlayerID]uint64, len(hands))
		for id := range hands {
			bets[id] = 0
		}
	}
	// hasBet carries forward whether a real bet already exists: false for a
	// fresh first round, true for a second round inheriting nonzero bets
	// from the first.
	hasBet := false
	for _, amt := range bets {
		if amt > 0 {
			hasBet = true
			break
		}
	}
	return &BettingPhase{
		table:            table,
		deck:             deck,
		queue:            table.CloneQueue(),
		round:            round,
		hands:            hands,
		bets:             bets,
		hasBet:           hasBet,
		firstRoundAction: true,
	}
}

// Act advances the turn; the actual betting logic runs in HandleAction,
// called by the facade in response to player input, or by handleTimeout
// when the driver's Event progression reaches its deadline.
func (p *BettingPhase) Act() {
	p.queue = filterLive(p.queue, p.hands)
	p.queue = rotateQueue(p.queue)
}

func filterLive(queue []PlayerID, hands map[PlayerID]*Hand) []PlayerID {
	out := queue[:0:0]
	for _, id := range queue {
		if _, live := hands[id]; live {
			out = append(out, id)
		}
	}
	return out
}

func (p *BettingPhase) IsCompleted() bool {
	if len(p.hands) == 1 {
		return true
	}
	highBet, matched, any := p.highestBetWithBettors()
	if !any {
		return false
	}
	_ = highBet
	return len(matched) == len(p.hands) && !p.firstRoundAction
}

func (p *BettingPhase) NextPhase() (Phase, bool) {
	if len(p.hands) == 1 {
		return NewShowdownPhase(p.table, p.hands, p.bets), true
	}
	if p.round == FirstBettingRound {
		return NewDrawingDiscardingPhase(p.table, p.deck, p.hands, p.bets), true
	}
	return NewShowdownPhase(p.table, p.hands, p.bets), true
}

func (p *BettingPhase) ActivePlayer() (PlayerID, bool) {
	if len(p.queue) == 0 {
		return PlayerID{}, false
	}
	return p.queue[0], true
}

func (p *BettingPhase) Progression() ActionProgression {
	return Event(15*time.Second, p.handleTimeout)
}

func (p *BettingPhase) handleTimeout(gp *GamePhase) error {
	active, ok := p.ActivePlayer()
	if !ok {
		return nil
	}
	if highBet, ok := p.highestBet(); ok && p.bets[active] == highBet {
		return p.HandleAction(active, BettingAction{Kind: ActionCall})
	}
	return p.HandleAction(active, BettingAction{Kind: ActionFold})
}

func (p *BettingPhase) View() PhaseView {
	highBet, _ := p.highestBet()
	betsCopy := make(map[PlayerID]uint64, len(p.bets))
	for id, amt := range p.bets {
		betsCopy[id] = amt
	}
	return BettingView{Round: p.round, HighBet: highBet, PlayerBet: betsCopy}
}

func (p *BettingPhase) CanPlayerAct() map[PlayerID]bool {
	out := allFalse(p.table.PlayerIDs)
	if active, ok := p.ActivePlayer(); ok {
		out[active] = true
	}
	return out
}

func (p *BettingPhase) LiveHands() map[PlayerID]*Hand { return p.hands }

// HandleAction applies an external betting action for playerID, rejecting
// out-of-turn or invalid actions.
func (p *BettingPhase) HandleAction(playerID PlayerID, action BettingAction) error {
	if !p.canPlayerAct(playerID) {
		return apperrors.UnauthorizedError("player %s can't act out of turn", playerID)
	}
	switch action.Kind {
	case ActionBet, ActionRaise:
		if err := p.setPlayerBet(playerID, action.Amount); err != nil {
			return err
		}
		p.hasBet = true
	case ActionCall:
		highBet, ok := p.highestBet()
		if !ok {
			return apperrors.InvalidRequestError("no bet to call against")
		}
		if err := p.setPlayerBet(playerID, highBet); err != nil {
			return err
		}
	case ActionFold:
		p.fold(playerID)
	default:
		return apperrors.InvalidRequestError("unrecognized betting action")
	}
	p.firstRoundAction = false
	return nil
}

func (p *BettingPhase) canPlayerAct(playerID PlayerID) bool {
	active, ok := p.ActivePlayer()
	if !ok {
		return true
	}
	return playerID == active
}

func (p *BettingPhase) fold(playerID PlayerID) {
	if hand, ok := p.hands[playerID]; ok {
		p.deck.Discard(hand.Cards()[:])
		delete(p.hands, playerID)
	}
	delete(p.bets, playerID)
}

func (p *BettingPhase) setPlayerBet(playerID PlayerID, targetTotal uint64) error {
	if highBet, ok := p.highestBet(); ok && targetTotal < highBet {
		return apperrors.InvalidRequestError("bet amount can't be less than the current high bet (%d)", highBet)
	}
	credits := p.table.PlayerCredits[playerID]
	if credits == nil {
		return apperrors.InternalError("player %s has no credits entry", playerID)
	}
	if targetTotal > credits.Starting {
		return apperrors.InvalidRequestError("player can't afford bet")
	}
	added := targetTotal - p.bets[playerID]
	if added > 0 {
		pot := p.table.MainPot()
		if err := credits.UseCredits(added, pot); err != nil {
			return err
		}
	}
	p.bets[playerID] = targetTotal
	return nil
}

// highestBet returns the current high bet and whether a real bet exists
// yet. A non-empty p.bets map alone doesn't mean a bet has been placed:
// every player starts a fresh round at 0, so callers must check hasBet
// rather than map emptiness to tell "nothing bet yet" from "everyone bet
// 0" and reject a Call against a nonexistent bet accordingly.
func (p *BettingPhase) highestBet() (uint64, bool) {
	if !p.hasBet {
		return 0, false
	}
	var max uint64
	for _, amt := range p.bets {
		if amt > max {
			max = amt
		}
	}
	return max, true
}

func (p *BettingPhase) highestBetWithBettors() (uint64, map[PlayerID]bool, bool) {
	high, ok := p.highestBet()
	if !ok {
		return 0, nil, false
	}
	matched := make(map[PlayerID]bool)
	for id, amt := range p.bets {
		if amt == high {
			matched[id] = true
		}
	}
	return high, matched, true
}
