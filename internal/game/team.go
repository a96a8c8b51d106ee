package game

import "github.com/keeper-realm/api/internal/models"

// StatLine is one aggregated team stat: the total across filled slots plus
// a per-slot breakdown. Empty slots contribute nothing and are omitted from
// the breakdown.
type StatLine struct {
	Total   int  `json:"total"`
	Leader  *int `json:"leader,omitempty"`
	Member1 *int `json:"member1,omitempty"`
	Member2 *int `json:"member2,omitempty"`
}

// TeamStats holds the five display stats of a guild roster. Potential is a
// growth stat and is never aggregated.
type TeamStats struct {
	Str  StatLine `json:"str"`
	Int  StatLine `json:"int"`
	Dex  StatLine `json:"dex"`
	Will StatLine `json:"will"`
	Luck StatLine `json:"luck"`
}

// AggregateTeam sums roster stats across the up-to-3 filled slots. Slot 0 is
// the leader, slots 1 and 2 the members. Pure function: an all-empty roster
// yields all-zero totals.
func AggregateTeam(roster [3]*models.Keeper) TeamStats {
	var stats TeamStats
	lines := [5]*StatLine{&stats.Str, &stats.Int, &stats.Dex, &stats.Will, &stats.Luck}

	for slot, keeper := range roster {
		if keeper == nil {
			continue
		}
		values := [5]int{keeper.Str, keeper.Int, keeper.Dex, keeper.Will, keeper.Luck}
		for i, line := range lines {
			v := values[i]
			line.Total += v
			switch slot {
			case 0:
				line.Leader = &v
			case 1:
				line.Member1 = &v
			case 2:
				line.Member2 = &v
			}
		}
	}

	return stats
}
