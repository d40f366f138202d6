package db

import (
	"time"

	"github.com/google/uuid"
)

// Split type tags as persisted on expenses. They mirror the core enum in
// fairshare/balances one to one.
const (
	SplitEqual = iota
	SplitExact
	SplitPercentage
)

type GroupInfo struct {
	ID   uuid.UUID
	Name string
}

type Member struct {
	ID     uuid.UUID
	Name   string
	Active bool
}

type GroupData struct {
	Members     []Member
	Expenses    []Expense
	Settlements []Settlement
}

type Group struct {
	GroupInfo
	GroupData
}

type ExpenseInfo struct {
	ID        uuid.UUID
	Name      string
	Amount    float64
	Time      time.Time
	PaidBy    uuid.UUID
	SplitType int
	Category  int
}

// SplitShare is one participant's slot in an expense split. Value holds the
// exact amount or the percentage depending on the expense's split type and
// is 0 for equal splits.
type SplitShare struct {
	MemberID uuid.UUID
	Value    float64
}

type ExpenseData struct {
	SplitAmong []SplitShare
}

type Expense struct {
	ExpenseInfo
	ExpenseData
}

type Settlement struct {
	ID     uuid.UUID
	From   uuid.UUID
	To     uuid.UUID
	Amount float64
	Time   time.Time
	Note   string
}
