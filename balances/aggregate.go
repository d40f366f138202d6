package balances

import (
	"fmt"
)

// MemberBalances folds all expenses and settlements of a group into one net
// balance per member, in the same order as the input member list.
//
// A member's TotalPaid is everything they fronted: expense amounts they paid
// plus reimbursements they sent. TotalOwed is everything charged against
// them: their share of every expense plus reimbursements they received. A
// reimbursement therefore moves credit from receiver to sender through the
// same signed ledger as an expense. No rounding is applied here; later
// netting needs the full precision.
func MemberBalances(members []Member, expenses []Expense, settlements []Settlement) ([]MemberBalance, error) {
	result := make([]MemberBalance, len(members))
	for i, m := range members {
		result[i] = MemberBalance{MemberID: m.ID, Name: m.Name}
	}

	for i := range result {
		b := &result[i]
		for _, e := range expenses {
			if e.PaidBy == b.MemberID {
				if !isFinite(e.Amount) {
					return nil, fmt.Errorf("expense %s: %w", e.ID, ErrNonFiniteAmount)
				}
				b.TotalPaid += e.Amount
			}
			share, err := ShareOwed(e, b.MemberID)
			if err != nil {
				return nil, err
			}
			b.TotalOwed += share
		}
		for _, s := range settlements {
			if !isFinite(s.Amount) {
				return nil, fmt.Errorf("settlement %s: %w", s.ID, ErrNonFiniteAmount)
			}
			if s.From == b.MemberID {
				b.TotalPaid += s.Amount
			}
			if s.To == b.MemberID {
				b.TotalOwed += s.Amount
			}
		}
		b.Balance = b.TotalPaid - b.TotalOwed
	}

	return result, nil
}
