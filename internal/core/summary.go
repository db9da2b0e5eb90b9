package core

import "sort"

// PlayerDue is one roster member's aggregated share for a set of sessions.
type PlayerDue struct {
	Player    Player
	TotalOwed float64
}

// MonthlyDues splits each session's total cost evenly among its checked-in
// players and aggregates per player.
//
// Shares stay in float64 so the distribution is exact: when every session
// has at least one check-in, the dues sum equals the session cost sum.
// Sessions with no check-ins contribute nothing. The holiday flag is not
// consulted here; it steers generation, not aggregation, so a holiday
// session with prices and players still counts.
//
// The result lists only players owing more than zero, sorted by amount
// descending (name ascending on ties for stable output).
func MonthlyDues(sessions []Session, players []Player) []PlayerDue {
	owed := make(map[string]float64, len(players))
	for _, p := range players {
		owed[p.ID] = 0
	}

	for _, s := range sessions {
		share := s.PerPlayerShare()
		if share == 0 {
			continue
		}
		for _, id := range s.PlayerIDs {
			if _, ok := owed[id]; ok {
				owed[id] += share
			}
		}
	}

	var dues []PlayerDue
	for _, p := range players {
		if owed[p.ID] > 0 {
			dues = append(dues, PlayerDue{Player: p, TotalOwed: owed[p.ID]})
		}
	}
	sort.Slice(dues, func(i, j int) bool {
		if dues[i].TotalOwed != dues[j].TotalOwed {
			return dues[i].TotalOwed > dues[j].TotalOwed
		}
		return dues[i].Player.Name < dues[j].Player.Name
	})
	return dues
}
