package balances

import (
	"math"
	"sort"
)

// Simplify nets each unordered member pair's mutual matrix entries into at
// most one directed debt. Pairs whose net is within the settled threshold
// emit nothing. Iterating i < j over the member list visits each unordered
// pair exactly once, so no seen-set is needed; the result is sorted by
// (from, to) for a stable output.
func Simplify(matrix DebtMatrix, members []Member) []DirectedDebt {
	debts := make([]DirectedDebt, 0, len(members))

	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			a, b := members[i].ID, members[j].ID
			net := matrix[a][b] - matrix[b][a]
			if math.Abs(net) <= epsilon {
				continue
			}
			if net > 0 {
				debts = append(debts, DirectedDebt{From: a, To: b, Amount: round2(net)})
			} else {
				debts = append(debts, DirectedDebt{From: b, To: a, Amount: round2(-net)})
			}
		}
	}

	sort.Slice(debts, func(i, j int) bool {
		if debts[i].From == debts[j].From {
			return debts[i].To.String() < debts[j].To.String()
		}
		return debts[i].From.String() < debts[j].From.String()
	})

	return debts
}
