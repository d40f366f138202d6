package balances

import (
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
)

func TestOptimizeTwoDebtorsOneCreditor(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	net := []MemberBalance{
		{MemberID: a, Name: "A", Balance: 50},
		{MemberID: b, Name: "B", Balance: -30},
		{MemberID: c, Name: "C", Balance: -20},
	}

	got, err := Optimize(net)
	if err != nil {
		t.Fatalf("Optimize returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d suggestions, want 2", len(got))
	}

	// B carries the larger debt, so B pays first.
	if got[0].From != b || got[0].To != a || !floatEquals(got[0].Amount, 30) {
		t.Errorf("first suggestion = %+v, want B -> A 30", got[0])
	}
	if got[1].From != c || got[1].To != a || !floatEquals(got[1].Amount, 20) {
		t.Errorf("second suggestion = %+v, want C -> A 20", got[1])
	}

	// Applying the plan zeroes everyone.
	applied := map[uuid.UUID]float64{a: 50, b: -30, c: -20}
	for _, s := range got {
		applied[s.From] += s.Amount
		applied[s.To] -= s.Amount
	}
	for id, residual := range applied {
		if math.Abs(residual) > epsilon {
			t.Errorf("member %s residual %f after plan, want ~0", id, residual)
		}
	}
}

func TestOptimizeChainedMatch(t *testing.T) {
	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	net := []MemberBalance{
		{MemberID: a, Balance: 70},
		{MemberID: b, Balance: 10},
		{MemberID: c, Balance: -45},
		{MemberID: d, Balance: -35},
	}

	got, err := Optimize(net)
	if err != nil {
		t.Fatalf("Optimize returned error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d suggestions, want 3", len(got))
	}
	if got[0].From != c || got[0].To != a || !floatEquals(got[0].Amount, 45) {
		t.Errorf("first suggestion = %+v, want C -> A 45", got[0])
	}
	if got[1].From != d || got[1].To != a || !floatEquals(got[1].Amount, 25) {
		t.Errorf("second suggestion = %+v, want D -> A 25", got[1])
	}
	if got[2].From != d || got[2].To != b || !floatEquals(got[2].Amount, 10) {
		t.Errorf("third suggestion = %+v, want D -> B 10", got[2])
	}
}

func TestOptimizeSkipsSettledMembers(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	net := []MemberBalance{
		{MemberID: a, Balance: 0.005},
		{MemberID: b, Balance: 20},
		{MemberID: c, Balance: -20.005},
	}

	got, err := Optimize(net)
	if err != nil {
		t.Fatalf("Optimize returned error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d suggestions, want 1", len(got))
	}
	if got[0].From != c || got[0].To != b {
		t.Errorf("suggestion = %+v, want C -> B", got[0])
	}
}

func TestOptimizeEmpty(t *testing.T) {
	got, err := Optimize(nil)
	if err != nil {
		t.Fatalf("Optimize returned error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d suggestions for no balances, want 0", len(got))
	}
}

func TestOptimizeRejectsNonFinite(t *testing.T) {
	net := []MemberBalance{
		{MemberID: uuid.New(), Balance: math.NaN()},
	}
	if _, err := Optimize(net); !errors.Is(err, ErrNonFiniteAmount) {
		t.Errorf("Optimize error = %v, want %v", err, ErrNonFiniteAmount)
	}

	net[0].Balance = math.Inf(-1)
	if _, err := Optimize(net); !errors.Is(err, ErrNonFiniteAmount) {
		t.Errorf("Optimize error = %v, want %v", err, ErrNonFiniteAmount)
	}
}
