package balances

import (
	"fmt"
	"math"
	"sort"
)

// Optimize turns net balances into a short list of suggested payments that
// would zero everyone out. Greedy two-pointer matching: the largest creditor
// absorbs the largest debtor first, so each step fully clears at least one
// side. Members already within the settled threshold are left out. For a
// consistent ledger both sides run dry together; a residual on either side
// means the input was inconsistent upstream, and the loop simply ends.
func Optimize(netBalances []MemberBalance) ([]SettlementSuggestion, error) {
	var creditors, debtors []MemberBalance
	for _, b := range netBalances {
		if !isFinite(b.Balance) {
			return nil, fmt.Errorf("member %s: %w", b.MemberID, ErrNonFiniteAmount)
		}
		switch {
		case b.Balance > epsilon:
			creditors = append(creditors, b)
		case b.Balance < -epsilon:
			debtors = append(debtors, b)
		}
	}

	// Largest balance first on both sides; member ID breaks ties so equal
	// amounts always match in the same order.
	sort.SliceStable(creditors, func(i, j int) bool {
		if creditors[i].Balance == creditors[j].Balance {
			return creditors[i].MemberID.String() < creditors[j].MemberID.String()
		}
		return creditors[i].Balance > creditors[j].Balance
	})
	sort.SliceStable(debtors, func(i, j int) bool {
		if debtors[i].Balance == debtors[j].Balance {
			return debtors[i].MemberID.String() < debtors[j].MemberID.String()
		}
		return debtors[i].Balance < debtors[j].Balance
	})

	suggestions := make([]SettlementSuggestion, 0, len(debtors))
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := math.Min(-debtors[i].Balance, creditors[j].Balance)
		if amount > epsilon {
			suggestions = append(suggestions, SettlementSuggestion{
				From:   debtors[i].MemberID,
				To:     creditors[j].MemberID,
				Amount: round2(amount),
			})
		}

		debtors[i].Balance += amount
		creditors[j].Balance -= amount

		if math.Abs(debtors[i].Balance) < epsilon {
			i++
		}
		if math.Abs(creditors[j].Balance) < epsilon {
			j++
		}
	}

	return suggestions, nil
}
