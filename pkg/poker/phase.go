package poker

// Phase is the per-phase behavior surface every PhaseState variant
// implements. The driver dispatches on the variant through this interface
// rather than subclassing; shared transitions (Betting is used twice) are
// parameterized by a "which round" marker instead of duplicated types.
type Phase interface {
	// Act performs the next atomic phase step, mutating in place. Never
	// blocks.
	Act()
	// IsCompleted reports whether the phase has no further steps.
	IsCompleted() bool
	// NextPhase consumes a completed phase and returns its successor, or
	// (nil, false) when the match is over (Showdown is terminal).
	NextPhase() (Phase, bool)
	// ActivePlayer returns the player expected to act next, if any; false
	// for unordered or fully automatic phases.
	ActivePlayer() (PlayerID, bool)
	// Progression returns the ActionProgression the driver should await
	// before the next Act; nil signals the match is over.
	Progression() ActionProgression
	// View produces the phase-specific public projection for the state
	// broadcast.
	View() PhaseView
	// CanPlayerAct returns a per-player boolean map for UI gating.
	CanPlayerAct() map[PlayerID]bool
	// LiveHands returns the hands still in play (folded hands omitted),
	// for state-projection masking. Callers must not mutate the result.
	LiveHands() map[PlayerID]*Hand
}

// PhaseView is the phase-specific payload embedded in a state snapshot.
// Each phase variant returns one of the concrete *View types below.
type PhaseView interface {
	isPhaseView()
}

// AnteView marks the Ante phase in a snapshot and carries the ante amount.
type AnteView struct{ AnteAmount uint64 }

func (AnteView) isPhaseView() {}

// DealingView marks the Dealing phase in a snapshot.
type DealingView struct{}

func (DealingView) isPhaseView() {}

// BettingView carries the live betting state for First/SecondBetting.
type BettingView struct {
	Round     BettingRound
	HighBet   uint64
	PlayerBet map[PlayerID]uint64
}

func (BettingView) isPhaseView() {}

// DrawingDiscardingView exposes discard counts without revealing contents.
type DrawingDiscardingView struct {
	PlayerDiscardCount map[PlayerID]int
}

func (DrawingDiscardingView) isPhaseView() {}

// DrawingDealingView marks the replenishment stage in a snapshot.
type DrawingDealingView struct{}

func (DrawingDealingView) isPhaseView() {}

// ShowdownView carries the final result of the match.
type ShowdownView struct {
	WinningRank  HandRank
	WinnerIDs    []PlayerID
	Distribution map[PlayerID]uint64
}

func (ShowdownView) isPhaseView() {}
