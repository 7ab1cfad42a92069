package standing

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Rank derives and totally orders the given tallies into a league table:
// points desc, then goal difference desc, then goals for desc, then team name
// asc under Japanese collation. Teams tied on every key are NOT given equal
// rank; rank is simply position+1 after the sort. The function is pure and
// its output does not depend on input ordering.
func Rank(tallies []Tally) []Standing {
	out := make([]Standing, 0, len(tallies))
	for _, t := range tallies {
		out = append(out, Derive(t))
	}

	collator := collate.New(language.Japanese)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		if cmp := collator.CompareString(a.TeamName, b.TeamName); cmp != 0 {
			return cmp < 0
		}
		// Identical records: fall through to id so permuted inputs still
		// produce one ordering.
		return a.TeamID < b.TeamID
	})

	for i := range out {
		out[i].Rank = i + 1
	}

	return out
}
