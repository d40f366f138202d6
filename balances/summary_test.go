package balances

import (
	"testing"

	"github.com/google/uuid"
)

func TestSummarize(t *testing.T) {
	m1, m2 := uuid.New(), uuid.New()
	expenses := []Expense{
		{ID: uuid.New(), Amount: 60, Category: 0, PaidBy: m1, Split: SplitEqual, SplitAmong: equalShares(m1, m2)},
		{ID: uuid.New(), Amount: 30, Category: 1, PaidBy: m2, Split: SplitEqual, SplitAmong: equalShares(m1, m2)},
		{ID: uuid.New(), Amount: 10, Category: 1, PaidBy: m1, Split: SplitEqual, SplitAmong: equalShares(m2)},
	}
	settlements := []Settlement{
		{ID: uuid.New(), From: m2, To: m1, Amount: 12.5},
	}

	s := Summarize(expenses, settlements, 2)

	if s.ExpenseCount != 3 || s.SettlementCount != 1 {
		t.Errorf("counts = %d/%d, want 3/1", s.ExpenseCount, s.SettlementCount)
	}
	if !floatEquals(s.TotalExpenses, 100) {
		t.Errorf("TotalExpenses = %f, want 100", s.TotalExpenses)
	}
	if !floatEquals(s.TotalSettled, 12.5) {
		t.Errorf("TotalSettled = %f, want 12.5", s.TotalSettled)
	}
	if !floatEquals(s.AveragePerExpense, 33.33) {
		t.Errorf("AveragePerExpense = %f, want 33.33", s.AveragePerExpense)
	}
	if !floatEquals(s.AveragePerMember, 50) {
		t.Errorf("AveragePerMember = %f, want 50", s.AveragePerMember)
	}

	cat0 := s.ByCategory[0]
	if cat0.Count != 1 || !floatEquals(cat0.Total, 60) || !floatEquals(cat0.Percent, 60) {
		t.Errorf("category 0 = %+v, want count 1, total 60, 60%%", cat0)
	}
	cat1 := s.ByCategory[1]
	if cat1.Count != 2 || !floatEquals(cat1.Total, 40) || !floatEquals(cat1.Percent, 40) {
		t.Errorf("category 1 = %+v, want count 2, total 40, 40%%", cat1)
	}
}

func TestSummarizeEmptyGroup(t *testing.T) {
	s := Summarize(nil, nil, 0)

	if s.ExpenseCount != 0 || s.SettlementCount != 0 {
		t.Errorf("counts = %d/%d, want 0/0", s.ExpenseCount, s.SettlementCount)
	}
	if s.TotalExpenses != 0 || s.TotalSettled != 0 {
		t.Errorf("totals = %f/%f, want 0/0", s.TotalExpenses, s.TotalSettled)
	}
	if s.AveragePerExpense != 0 || s.AveragePerMember != 0 {
		t.Errorf("averages = %f/%f, want 0/0 (no divide by zero)", s.AveragePerExpense, s.AveragePerMember)
	}
	if len(s.ByCategory) != 0 {
		t.Errorf("ByCategory has %d entries, want 0", len(s.ByCategory))
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{33.333333, 33.33},
		{33.336, 33.34},
		{-33.333333, -33.33},
		{-33.336, -33.34},
		{0, 0},
	}
	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}
