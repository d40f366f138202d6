package mq

import (
	"github.com/google/uuid"
)

type Action int

const (
	ActionCreate Action = iota
	ActionUpdate
	ActionDelete
	ActionCnt
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

type ExpenseMessage struct {
	ID      uuid.UUID
	GroupID uuid.UUID
	Name    string
	Amount  float64
	PaidBy  uuid.UUID
}

// GetTopic returns the group the message belongs to.
func (m ExpenseMessage) GetTopic() uuid.UUID {
	return m.GroupID
}

type SettlementMessage struct {
	ID      uuid.UUID
	GroupID uuid.UUID
	From    uuid.UUID
	To      uuid.UUID
	Amount  float64
}

// GetTopic returns the group the message belongs to.
func (m SettlementMessage) GetTopic() uuid.UUID {
	return m.GroupID
}
