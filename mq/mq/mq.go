package mq

import "github.com/google/uuid"

// TopicProvider is implemented by messages that carry their own topic ID.
type TopicProvider interface {
	GetTopic() uuid.UUID
}

type GroupMessageQueueWrapper interface {
	GetExpenseMessageQueue(action Action) ExpenseMessageQueue
	GetSettlementMessageQueue(action Action) SettlementMessageQueue
}

type GroupMessageQueue interface {
	GetAction() Action
	Publish(msg interface{}) error
	Subscribe(groupId uuid.UUID) (uuid.UUID, <-chan interface{}, error)
	DeSubscribe(id uuid.UUID) error
}

type ExpenseMessageQueue interface {
	GetAction() Action
	Publish(msg ExpenseMessage) error
	Subscribe(groupId uuid.UUID) (uuid.UUID, <-chan ExpenseMessage, error)
	DeSubscribe(id uuid.UUID) error
}

type SettlementMessageQueue interface {
	GetAction() Action
	Publish(msg SettlementMessage) error
	Subscribe(groupId uuid.UUID) (uuid.UUID, <-chan SettlementMessage, error)
	DeSubscribe(id uuid.UUID) error
}
