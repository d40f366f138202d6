package balances

import (
	"fmt"

	"github.com/google/uuid"
)

// ShareOwed computes the share of an expense owed by one member.
// Members outside the expense's split owe 0, as do exact/percentage
// participants whose share entry carries no value. An equal split with no
// participants and an unrecognized split type are reported as errors rather
// than silently producing 0 or Inf.
func ShareOwed(e Expense, memberID uuid.UUID) (float64, error) {
	if !isFinite(e.Amount) {
		return 0, fmt.Errorf("expense %s: %w", e.ID, ErrNonFiniteAmount)
	}

	switch e.Split {
	case SplitEqual:
		if len(e.SplitAmong) == 0 {
			return 0, fmt.Errorf("expense %s: %w", e.ID, ErrEmptySplit)
		}
		if !splitContains(e.SplitAmong, memberID) {
			return 0, nil
		}
		return e.Amount / float64(len(e.SplitAmong)), nil

	case SplitExact:
		for _, s := range e.SplitAmong {
			if s.MemberID == memberID {
				return s.Value, nil
			}
		}
		return 0, nil

	case SplitPercentage:
		for _, s := range e.SplitAmong {
			if s.MemberID == memberID {
				return e.Amount * s.Value / 100, nil
			}
		}
		return 0, nil
	}

	return 0, fmt.Errorf("expense %s: split type %d: %w", e.ID, e.Split, ErrUnknownSplitType)
}

func splitContains(shares []SplitShare, memberID uuid.UUID) bool {
	for _, s := range shares {
		if s.MemberID == memberID {
			return true
		}
	}
	return false
}
