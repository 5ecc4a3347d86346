package poker

// ShowdownPhase reveals remaining hands, determines the winner(s), and
// distributes each pot's credits among them. Terminal: Progression
// returns nil once complete, ending the driver.
type ShowdownPhase struct {
	table        *GameTable
	hands        map[PlayerID]*Hand
	bets         map[PlayerID]uint64
	done         bool
	winnerIDs    []PlayerID
	winningRank  HandRank
	distribution map[PlayerID]uint64
}

// NewShowdownPhase transitions from either betting round (directly, on a
// last-man-standing fold, or after the second round completes).
func NewShowdownPhase(table *GameTable, hands map[PlayerID]*Hand, bets map[PlayerID]uint64) *ShowdownPhase {
	return &ShowdownPhase{table: table, hands: hands, bets: bets}
}

func (p *ShowdownPhase) Act() {
	if p.done {
		return
	}
	seatOrder := p.table.Seating
	var orderedIDs []PlayerID
	var orderedHands []*Hand
	for _, id := range seatOrder {
		if hand, live := p.hands[id]; live {
			orderedIDs = append(orderedIDs, id)
			orderedHands = append(orderedHands, hand)
		}
	}
	winners := DetermineWinners(orderedHands)
	winnerSet := make(map[[5]Card]struct{}, len(winners))
	for _, w := range winners {
		winnerSet[w.Cards()] = struct{}{}
	}
	var winnerIDs []PlayerID
	for i, id := range orderedIDs {
		if _, won := winnerSet[orderedHands[i].Cards()]; won {
			winnerIDs = append(winnerIDs, id)
		}
	}
	if len(winners) > 0 {
		p.winningRank = winners[0].Rank()
	}
	p.winnerIDs = winnerIDs

	before := make(map[PlayerID]uint64, len(winnerIDs))
	for _, id := range winnerIDs {
		if pc, ok := p.table.PlayerCredits[id]; ok {
			before[id] = pc.Remaining
		}
	}
	DistributePots(p.table.PotsInSeatOrder(), winnerIDs, p.table.PlayerCredits)
	distribution := make(map[PlayerID]uint64, len(winnerIDs))
	for _, id := range winnerIDs {
		if pc, ok := p.table.PlayerCredits[id]; ok {
			distribution[id] = pc.Remaining - before[id]
		}
	}
	p.distribution = distribution
	p.done = true
}

func (p *ShowdownPhase) IsCompleted() bool { return p.done }

func (p *ShowdownPhase) NextPhase() (Phase, bool) { return nil, false }

func (p *ShowdownPhase) ActivePlayer() (PlayerID, bool) { return PlayerID{}, false }

func (p *ShowdownPhase) Progression() ActionProgression {
	if p.done {
		return nil
	}
	return Delay(0)
}

func (p *ShowdownPhase) View() PhaseView {
	return ShowdownView{
		WinningRank:  p.winningRank,
		WinnerIDs:    p.winnerIDs,
		Distribution: p.distribution,
	}
}

func (p *ShowdownPhase) CanPlayerAct() map[PlayerID]bool {
	return allFalse(p.table.PlayerIDs)
}

func (p *ShowdownPhase) LiveHands() map[PlayerID]*Hand { return p.hands }
