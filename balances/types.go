package balances

import (
	"errors"
	"math"

	"github.com/google/uuid"
)

// Threshold under which a monetary amount is considered settled.
const epsilon = 0.01

// SplitType tags how an expense's amount is divided among its participants.
type SplitType int

const (
	SplitEqual SplitType = iota
	SplitExact
	SplitPercentage
	SplitTypeCnt
)

func (s SplitType) String() string {
	switch s {
	case SplitEqual:
		return "equal"
	case SplitExact:
		return "exact"
	case SplitPercentage:
		return "percentage"
	}
	return "unknown"
}

var (
	ErrUnknownSplitType = errors.New("unknown split type")
	ErrEmptySplit       = errors.New("equal split has no participants")
	ErrNonFiniteAmount  = errors.New("amount is not a finite number")
)

// Member identifies one group member. The ID is opaque and only ever used
// as a map key; the name is carried along for display.
type Member struct {
	ID   uuid.UUID
	Name string
}

// SplitShare is one participant's entry in an expense split. Value carries
// the exact amount for SplitExact and the percentage for SplitPercentage;
// it is ignored for SplitEqual.
type SplitShare struct {
	MemberID uuid.UUID
	Value    float64
}

// Expense is one recorded group expense: who paid, how much, and how the
// amount is divided among SplitAmong.
type Expense struct {
	ID         uuid.UUID
	Name       string
	Amount     float64
	PaidBy     uuid.UUID
	Split      SplitType
	SplitAmong []SplitShare
	Category   int
}

// Settlement is a direct reimbursement between two members: From paid To.
type Settlement struct {
	ID     uuid.UUID
	From   uuid.UUID
	To     uuid.UUID
	Amount float64
}

// MemberBalance is one member's net position. Balance = TotalPaid - TotalOwed;
// positive means the group owes the member, negative means the member owes.
type MemberBalance struct {
	MemberID  uuid.UUID
	Name      string
	TotalPaid float64
	TotalOwed float64
	Balance   float64
}

// DirectedDebt says From owes To the given amount after pairwise netting.
type DirectedDebt struct {
	From   uuid.UUID
	To     uuid.UUID
	Amount float64
}

// SettlementSuggestion is one payment of a settlement plan: From should
// transfer Amount to To.
type SettlementSuggestion struct {
	From   uuid.UUID
	To     uuid.UUID
	Amount float64
}

// round2 rounds to two decimals, halves away from zero. Applied only to
// emitted values; intermediate sums keep full precision.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
