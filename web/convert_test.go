package web

import (
	"testing"

	"github.com/google/uuid"

	"fairshare/balances"
	"fairshare/db/db"
)

func TestResolveMembersKeepsUnknownRefs(t *testing.T) {
	alice := db.Member{ID: uuid.New(), Name: "Alice", Active: true}
	ghost := uuid.New() // removed member still referenced by an expense

	expenses := []db.Expense{
		{
			ExpenseInfo: db.ExpenseInfo{
				ID:     uuid.New(),
				Name:   "Dinner",
				Amount: 60,
				PaidBy: ghost,
			},
			ExpenseData: db.ExpenseData{
				SplitAmong: []db.SplitShare{
					{MemberID: alice.ID},
					{MemberID: ghost},
				},
			},
		},
	}

	members := ResolveMembers([]db.Member{alice}, expenses, nil)
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if members[0].ID != alice.ID || members[0].Name != "Alice" {
		t.Fatalf("known member should come first, got %+v", members[0])
	}
	if members[1].ID != ghost || members[1].Name != "unknown" {
		t.Fatalf("dangling ref should be kept as unknown, got %+v", members[1])
	}

	// Resolving twice must not duplicate the unknown member.
	settlements := []db.Settlement{{ID: uuid.New(), From: ghost, To: alice.ID, Amount: 10}}
	members = ResolveMembers([]db.Member{alice}, expenses, settlements)
	if len(members) != 2 {
		t.Fatalf("expected 2 members with settlement refs, got %d", len(members))
	}
}

func TestToCoreExpense(t *testing.T) {
	payer := uuid.New()
	other := uuid.New()
	e := db.Expense{
		ExpenseInfo: db.ExpenseInfo{
			ID:        uuid.New(),
			Name:      "Hotel",
			Amount:    200,
			PaidBy:    payer,
			SplitType: db.SplitPercentage,
			Category:  3,
		},
		ExpenseData: db.ExpenseData{
			SplitAmong: []db.SplitShare{
				{MemberID: payer, Value: 60},
				{MemberID: other, Value: 40},
			},
		},
	}

	core := ToCoreExpense(e)
	if core.Split != balances.SplitPercentage {
		t.Fatalf("expected percentage split, got %v", core.Split)
	}
	if len(core.SplitAmong) != 2 || core.SplitAmong[1].Value != 40 {
		t.Fatalf("split shares not carried over: %+v", core.SplitAmong)
	}
	if core.Category != 3 {
		t.Fatalf("category not carried over: %d", core.Category)
	}
}

func TestVerifyRequests(t *testing.T) {
	if VerifyStringRequest("") {
		t.Fatal("empty string should be rejected")
	}
	if VerifyStringRequest("drop table; --") {
		t.Fatal("string with unsafe characters should be rejected")
	}
	if !VerifyStringRequest("Trip to Osaka_2026") {
		t.Fatal("plain name should be accepted")
	}

	req := NewExpenseRequest{Name: "Dinner", Amount: 0, PaidBy: uuid.NewString()}
	if VerifyExpenseRequest(req) {
		t.Fatal("zero amount expense should be rejected")
	}
	req.Amount = 90
	if !VerifyExpenseRequest(req) {
		t.Fatal("valid expense should be accepted")
	}

	exact := NewExpenseRequest{
		Name: "Hotel", Amount: 100, PaidBy: uuid.NewString(),
		SplitType: db.SplitExact,
		SplitAmong: []SplitShareRequest{
			{MemberID: uuid.NewString(), Value: 60},
			{MemberID: uuid.NewString(), Value: 40.011},
		},
	}
	if VerifyExpenseRequest(exact) {
		t.Fatal("exact split off by more than a cent should be rejected")
	}
	exact.SplitAmong[1].Value = 40.009
	if !VerifyExpenseRequest(exact) {
		t.Fatal("exact split within a cent should be accepted")
	}
	exact.SplitAmong[1].Value = -40
	if VerifyExpenseRequest(exact) {
		t.Fatal("negative split value should be rejected")
	}

	percentage := NewExpenseRequest{
		Name: "Taxi", Amount: 30, PaidBy: uuid.NewString(),
		SplitType: db.SplitPercentage,
		SplitAmong: []SplitShareRequest{
			{MemberID: uuid.NewString(), Value: 50},
			{MemberID: uuid.NewString(), Value: 50.011},
		},
	}
	if VerifyExpenseRequest(percentage) {
		t.Fatal("percentages summing past 100 should be rejected")
	}
	percentage.SplitAmong[1].Value = 49.991
	if !VerifyExpenseRequest(percentage) {
		t.Fatal("percentages within tolerance of 100 should be accepted")
	}

	from := uuid.NewString()
	sreq := NewSettlementRequest{From: from, To: from, Amount: 10}
	if VerifySettlementRequest(sreq) {
		t.Fatal("self settlement should be rejected")
	}
	sreq.To = uuid.NewString()
	if !VerifySettlementRequest(sreq) {
		t.Fatal("valid settlement should be accepted")
	}
}
