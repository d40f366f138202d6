package balances

// CategoryTotal aggregates the expenses of one category.
type CategoryTotal struct {
	Count   int
	Total   float64
	Percent float64
}

// Summary aggregates a group's recorded activity.
type Summary struct {
	ExpenseCount      int
	SettlementCount   int
	TotalExpenses     float64
	TotalSettled      float64
	AveragePerExpense float64
	AveragePerMember  float64
	ByCategory        map[int]CategoryTotal
}

// Summarize reduces expenses and settlements to counts, totals, averages and
// a per-category breakdown. Averages over an empty group are 0, never a
// division by zero.
func Summarize(expenses []Expense, settlements []Settlement, memberCount int) Summary {
	s := Summary{
		ExpenseCount:    len(expenses),
		SettlementCount: len(settlements),
		ByCategory:      make(map[int]CategoryTotal),
	}

	for _, e := range expenses {
		s.TotalExpenses += e.Amount
		ct := s.ByCategory[e.Category]
		ct.Count++
		ct.Total += e.Amount
		s.ByCategory[e.Category] = ct
	}
	for _, st := range settlements {
		s.TotalSettled += st.Amount
	}

	if s.ExpenseCount > 0 {
		s.AveragePerExpense = round2(s.TotalExpenses / float64(s.ExpenseCount))
	}
	if memberCount > 0 {
		s.AveragePerMember = round2(s.TotalExpenses / float64(memberCount))
	}
	for cat, ct := range s.ByCategory {
		ct.Total = round2(ct.Total)
		if s.TotalExpenses > 0 {
			ct.Percent = round2(ct.Total / s.TotalExpenses * 100)
		}
		s.ByCategory[cat] = ct
	}
	s.TotalExpenses = round2(s.TotalExpenses)
	s.TotalSettled = round2(s.TotalSettled)

	return s
}
