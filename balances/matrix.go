package balances

import (
	"fmt"

	"github.com/google/uuid"
)

// DebtMatrix maps debtor → creditor → amount owed. Both directions of a pair
// may be nonzero at the same time; Simplify nets them.
type DebtMatrix map[uuid.UUID]map[uuid.UUID]float64

// BuildDebtMatrix builds the full directional owed-amount matrix for a group.
// Every ordered member pair is present (self-pairs stay 0). Each expense adds
// every non-payer participant's share to matrix[participant][payer]; each
// settlement subtracts its amount from matrix[from][to]. Identities outside
// the member list still contribute: their rows are created on demand, since
// an unresolved reference only loses its display name, not its money.
//
// The matrix is O(members²); fine for the tens of members a group holds,
// a scaling limit beyond that.
func BuildDebtMatrix(members []Member, expenses []Expense, settlements []Settlement) (DebtMatrix, error) {
	matrix := make(DebtMatrix, len(members))
	for _, a := range members {
		row := make(map[uuid.UUID]float64, len(members))
		for _, b := range members {
			row[b.ID] = 0
		}
		matrix[a.ID] = row
	}

	add := func(from, to uuid.UUID, amount float64) {
		row, ok := matrix[from]
		if !ok {
			row = make(map[uuid.UUID]float64)
			matrix[from] = row
		}
		row[to] += amount
	}

	for _, e := range expenses {
		for _, s := range e.SplitAmong {
			if s.MemberID == e.PaidBy {
				continue
			}
			share, err := ShareOwed(e, s.MemberID)
			if err != nil {
				return nil, err
			}
			add(s.MemberID, e.PaidBy, share)
		}
	}

	for _, s := range settlements {
		if !isFinite(s.Amount) {
			return nil, fmt.Errorf("settlement %s: %w", s.ID, ErrNonFiniteAmount)
		}
		add(s.From, s.To, -s.Amount)
	}

	return matrix, nil
}
