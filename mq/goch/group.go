package goch

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"fairshare/mq/mq"
)

const subscriberBufferSize = 16

type expenseSubscriber struct {
	groupID uuid.UUID
	channel chan mq.ExpenseMessage
}

type settlementSubscriber struct {
	groupID uuid.UUID
	channel chan mq.SettlementMessage
}

// ChannelExpenseMessageQueue implements ExpenseMessageQueue using Go channels.
// Each subscriber gets its own buffered channel filtered by group ID.
type ChannelExpenseMessageQueue struct {
	action      mq.Action
	mu          sync.RWMutex
	subscribers map[uuid.UUID]expenseSubscriber
}

// NewChannelExpenseMessageQueue creates a new instance of ChannelExpenseMessageQueue.
func NewChannelExpenseMessageQueue(action mq.Action) *ChannelExpenseMessageQueue {
	return &ChannelExpenseMessageQueue{
		action:      action,
		subscribers: make(map[uuid.UUID]expenseSubscriber),
	}
}

// GetAction returns the action associated with this queue.
func (q *ChannelExpenseMessageQueue) GetAction() mq.Action {
	return q.action
}

// Publish fans an ExpenseMessage out to every subscriber of its group.
// Delivery is non-blocking so a stalled subscriber never stalls the
// publisher. A full subscriber buffer drops the message for that
// subscriber and surfaces ErrQueueFull.
func (q *ChannelExpenseMessageQueue) Publish(msg mq.ExpenseMessage) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	var err error
	for _, sub := range q.subscribers {
		if sub.groupID != uuid.Nil && sub.groupID != msg.GetTopic() {
			continue
		}
		select {
		case sub.channel <- msg:
		default:
			err = ErrQueueFull
		}
	}
	return err
}

// Subscribe registers a subscriber for the given group and returns its ID
// together with the message channel. uuid.Nil subscribes to every group.
func (q *ChannelExpenseMessageQueue) Subscribe(groupId uuid.UUID) (uuid.UUID, <-chan mq.ExpenseMessage, error) {
	subscriberID := uuid.New()
	channel := make(chan mq.ExpenseMessage, subscriberBufferSize)

	q.mu.Lock()
	q.subscribers[subscriberID] = expenseSubscriber{
		groupID: groupId,
		channel: channel,
	}
	q.mu.Unlock()

	return subscriberID, channel, nil
}

// DeSubscribe removes a subscriber by its ID and closes its channel.
func (q *ChannelExpenseMessageQueue) DeSubscribe(id uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	sub, ok := q.subscribers[id]
	if !ok {
		return fmt.Errorf("subscriber with ID %s not found", id)
	}
	delete(q.subscribers, id)
	close(sub.channel)
	return nil
}

// ChannelSettlementMessageQueue implements SettlementMessageQueue using Go channels.
type ChannelSettlementMessageQueue struct {
	action      mq.Action
	mu          sync.RWMutex
	subscribers map[uuid.UUID]settlementSubscriber
}

// NewChannelSettlementMessageQueue creates a new instance of ChannelSettlementMessageQueue.
func NewChannelSettlementMessageQueue(action mq.Action) *ChannelSettlementMessageQueue {
	return &ChannelSettlementMessageQueue{
		action:      action,
		subscribers: make(map[uuid.UUID]settlementSubscriber),
	}
}

// GetAction returns the action associated with this queue.
func (q *ChannelSettlementMessageQueue) GetAction() mq.Action {
	return q.action
}

// Publish fans a SettlementMessage out to every subscriber of its group.
func (q *ChannelSettlementMessageQueue) Publish(msg mq.SettlementMessage) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	var err error
	for _, sub := range q.subscribers {
		if sub.groupID != uuid.Nil && sub.groupID != msg.GetTopic() {
			continue
		}
		select {
		case sub.channel <- msg:
		default:
			err = ErrQueueFull
		}
	}
	return err
}

// Subscribe registers a subscriber for the given group and returns its ID
// together with the message channel. uuid.Nil subscribes to every group.
func (q *ChannelSettlementMessageQueue) Subscribe(groupId uuid.UUID) (uuid.UUID, <-chan mq.SettlementMessage, error) {
	subscriberID := uuid.New()
	channel := make(chan mq.SettlementMessage, subscriberBufferSize)

	q.mu.Lock()
	q.subscribers[subscriberID] = settlementSubscriber{
		groupID: groupId,
		channel: channel,
	}
	q.mu.Unlock()

	return subscriberID, channel, nil
}

// DeSubscribe removes a subscriber by its ID and closes its channel.
func (q *ChannelSettlementMessageQueue) DeSubscribe(id uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	sub, ok := q.subscribers[id]
	if !ok {
		return fmt.Errorf("subscriber with ID %s not found", id)
	}
	delete(q.subscribers, id)
	close(sub.channel)
	return nil
}

// GoChanGroupMessageQueueWrapper implements the GroupMessageQueueWrapper
// interface on top of in-process channels.
type GoChanGroupMessageQueueWrapper struct {
	ExpenseMQArray    [mq.ActionCnt]mq.ExpenseMessageQueue
	SettlementMQArray [mq.ActionCnt]mq.SettlementMessageQueue
}

func (wrapper *GoChanGroupMessageQueueWrapper) GetExpenseMessageQueue(action mq.Action) mq.ExpenseMessageQueue {
	if action < 0 || action >= mq.ActionCnt {
		return nil
	}
	return wrapper.ExpenseMQArray[action]
}

func (wrapper *GoChanGroupMessageQueueWrapper) GetSettlementMessageQueue(action mq.Action) mq.SettlementMessageQueue {
	if action < 0 || action >= mq.ActionCnt {
		return nil
	}
	return wrapper.SettlementMQArray[action]
}

// NewGoChanGroupMessageQueueWrapper creates a new instance of GoChanGroupMessageQueueWrapper.
func NewGoChanGroupMessageQueueWrapper() mq.GroupMessageQueueWrapper {
	wrapper := GoChanGroupMessageQueueWrapper{}
	// expenses need add, update and delete
	wrapper.ExpenseMQArray[mq.ActionCreate] = NewChannelExpenseMessageQueue(mq.ActionCreate)
	wrapper.ExpenseMQArray[mq.ActionUpdate] = NewChannelExpenseMessageQueue(mq.ActionUpdate)
	wrapper.ExpenseMQArray[mq.ActionDelete] = NewChannelExpenseMessageQueue(mq.ActionDelete)
	// settlements are immutable, only add and remove
	wrapper.SettlementMQArray[mq.ActionCreate] = NewChannelSettlementMessageQueue(mq.ActionCreate)
	wrapper.SettlementMQArray[mq.ActionDelete] = NewChannelSettlementMessageQueue(mq.ActionDelete)

	return &wrapper
}

// --- Error Definitions ---
type QueueError string

func (e QueueError) Error() string {
	return string(e)
}

const (
	ErrQueueFull QueueError = "message queue is full"
)
