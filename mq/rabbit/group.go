package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"fairshare/mq/mq"
)

const (
	exchangeName = "group_events_exchange" // All group-related events go through this exchange
)

// Define routing keys for different actions and message types
const (
	expenseCreateRoutingKey    = "expense.create"
	expenseUpdateRoutingKey    = "expense.update"
	expenseDeleteRoutingKey    = "expense.delete"
	settlementCreateRoutingKey = "settlement.create"
	settlementDeleteRoutingKey = "settlement.delete"
)

// Helper to get routing key based on action and message type
func getRoutingKey(action mq.Action, msgType string) string {
	switch msgType {
	case "expense":
		switch action {
		case mq.ActionCreate:
			return expenseCreateRoutingKey
		case mq.ActionUpdate:
			return expenseUpdateRoutingKey
		case mq.ActionDelete:
			return expenseDeleteRoutingKey
		}
	case "settlement":
		switch action {
		case mq.ActionCreate:
			return settlementCreateRoutingKey
		case mq.ActionDelete:
			return settlementDeleteRoutingKey
		}
	}
	return ""
}

type rabbitExpenseConsumer struct {
	groupID uuid.UUID
	channel chan mq.ExpenseMessage
}

type rabbitSettlementConsumer struct {
	groupID uuid.UUID
	channel chan mq.SettlementMessage
}

// rabbitExpenseMessageQueue implements mq.ExpenseMessageQueue for RabbitMQ
type rabbitExpenseMessageQueue struct {
	action     mq.Action
	conn       *amqp091.Connection
	channel    *amqp091.Channel
	queueName  string
	routingKey string
	mu         sync.RWMutex // Protects the consumers map
	consumers  map[uuid.UUID]rabbitExpenseConsumer
}

// NewRabbitExpenseMessageQueue creates a new RabbitMQ message queue for ExpenseMessages.
func NewRabbitExpenseMessageQueue(action mq.Action, conn *amqp091.Connection) (mq.ExpenseMessageQueue, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	queueName := fmt.Sprintf("group_expense_%d_queue", action)
	routingKey := getRoutingKey(action, "expense")

	err = DeclareQueueAndExchange(ch, queueName, exchangeName, routingKey)
	if err != nil {
		ch.Close()
		return nil, err
	}

	return &rabbitExpenseMessageQueue{
		action:     action,
		conn:       conn,
		channel:    ch,
		queueName:  queueName,
		routingKey: routingKey,
		consumers:  make(map[uuid.UUID]rabbitExpenseConsumer),
	}, nil
}

// GetAction returns the action associated with this queue.
func (q *rabbitExpenseMessageQueue) GetAction() mq.Action {
	return q.action
}

// Publish sends an ExpenseMessage to the RabbitMQ exchange.
func (q *rabbitExpenseMessageQueue) Publish(msg mq.ExpenseMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = q.channel.PublishWithContext(ctx,
		exchangeName, // exchange
		q.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// Subscribe registers a consumer for the given group ID and returns its
// subscriber ID together with the message channel. uuid.Nil subscribes to
// every group.
func (q *rabbitExpenseMessageQueue) Subscribe(groupId uuid.UUID) (uuid.UUID, <-chan mq.ExpenseMessage, error) {
	msgs, err := q.channel.Consume(
		q.queueName, // queue
		"",          // consumer
		true,        // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to register a consumer: %w", err)
	}

	subscriberID := uuid.New()
	outputChan := make(chan mq.ExpenseMessage)

	q.mu.Lock()
	q.consumers[subscriberID] = rabbitExpenseConsumer{
		groupID: groupId,
		channel: outputChan,
	}
	q.mu.Unlock()

	go func() {
		defer func() {
			q.mu.Lock()
			if c, ok := q.consumers[subscriberID]; ok {
				close(c.channel)
				delete(q.consumers, subscriberID)
			}
			q.mu.Unlock()
		}()

		for d := range msgs {
			var msg mq.ExpenseMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				log.Printf("Failed to unmarshal ExpenseMessage: %v", err)
				continue
			}
			if groupId != uuid.Nil && msg.GetTopic() != groupId {
				continue
			}

			q.mu.RLock()
			c, ok := q.consumers[subscriberID]
			q.mu.RUnlock()
			if !ok {
				// Consumer was unsubscribed while message was in flight
				log.Printf("ExpenseMessage consumer %s no longer active. Skipping message.", subscriberID)
				return
			}

			select {
			case c.channel <- msg:
				// Message sent to consumer
			case <-time.After(1 * time.Second): // Prevent blocking indefinitely
				log.Printf("Timeout sending message to ExpenseMessage consumer %s. Skipping.", subscriberID)
			}
		}
	}()

	return subscriberID, outputChan, nil
}

// DeSubscribe removes a subscriber by its ID.
func (q *rabbitExpenseMessageQueue) DeSubscribe(subscriberID uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if c, ok := q.consumers[subscriberID]; ok {
		delete(q.consumers, subscriberID)
		close(c.channel)
		return nil
	}
	return fmt.Errorf("consumer with ID %s not found for queue %s", subscriberID, q.queueName)
}

// rabbitSettlementMessageQueue implements mq.SettlementMessageQueue for RabbitMQ
type rabbitSettlementMessageQueue struct {
	action     mq.Action
	conn       *amqp091.Connection
	channel    *amqp091.Channel
	queueName  string
	routingKey string
	mu         sync.RWMutex // Protects the consumers map
	consumers  map[uuid.UUID]rabbitSettlementConsumer
}

// NewRabbitSettlementMessageQueue creates a new RabbitMQ message queue for SettlementMessages.
func NewRabbitSettlementMessageQueue(action mq.Action, conn *amqp091.Connection) (mq.SettlementMessageQueue, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	queueName := fmt.Sprintf("group_settlement_%d_queue", action)
	routingKey := getRoutingKey(action, "settlement")

	err = DeclareQueueAndExchange(ch, queueName, exchangeName, routingKey)
	if err != nil {
		ch.Close()
		return nil, err
	}

	return &rabbitSettlementMessageQueue{
		action:     action,
		conn:       conn,
		channel:    ch,
		queueName:  queueName,
		routingKey: routingKey,
		consumers:  make(map[uuid.UUID]rabbitSettlementConsumer),
	}, nil
}

// GetAction returns the action associated with this queue.
func (q *rabbitSettlementMessageQueue) GetAction() mq.Action {
	return q.action
}

// Publish sends a SettlementMessage to the RabbitMQ exchange.
func (q *rabbitSettlementMessageQueue) Publish(msg mq.SettlementMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = q.channel.PublishWithContext(ctx,
		exchangeName, // exchange
		q.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// Subscribe registers a consumer for the given group ID and returns its
// subscriber ID together with the message channel. uuid.Nil subscribes to
// every group.
func (q *rabbitSettlementMessageQueue) Subscribe(groupId uuid.UUID) (uuid.UUID, <-chan mq.SettlementMessage, error) {
	msgs, err := q.channel.Consume(
		q.queueName, // queue
		"",          // consumer
		true,        // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to register a consumer: %w", err)
	}

	subscriberID := uuid.New()
	outputChan := make(chan mq.SettlementMessage)

	q.mu.Lock()
	q.consumers[subscriberID] = rabbitSettlementConsumer{
		groupID: groupId,
		channel: outputChan,
	}
	q.mu.Unlock()

	go func() {
		defer func() {
			q.mu.Lock()
			if c, ok := q.consumers[subscriberID]; ok {
				close(c.channel)
				delete(q.consumers, subscriberID)
			}
			q.mu.Unlock()
		}()

		for d := range msgs {
			var msg mq.SettlementMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				log.Printf("Failed to unmarshal SettlementMessage: %v", err)
				continue
			}
			if groupId != uuid.Nil && msg.GetTopic() != groupId {
				continue
			}

			q.mu.RLock()
			c, ok := q.consumers[subscriberID]
			q.mu.RUnlock()
			if !ok {
				log.Printf("SettlementMessage consumer %s no longer active. Skipping message.", subscriberID)
				return
			}

			select {
			case c.channel <- msg:
				// Message sent to consumer
			case <-time.After(1 * time.Second): // Prevent blocking indefinitely
				log.Printf("Timeout sending message to SettlementMessage consumer %s. Skipping.", subscriberID)
			}
		}
	}()

	return subscriberID, outputChan, nil
}

// DeSubscribe removes a subscriber by its ID.
func (q *rabbitSettlementMessageQueue) DeSubscribe(subscriberID uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if c, ok := q.consumers[subscriberID]; ok {
		delete(q.consumers, subscriberID)
		close(c.channel)
		return nil
	}
	return fmt.Errorf("consumer with ID %s not found for queue %s", subscriberID, q.queueName)
}

// rabbitGroupMessageQueueWrapper implements mq.GroupMessageQueueWrapper for RabbitMQ
type rabbitGroupMessageQueueWrapper struct {
	ExpenseMQArray    [mq.ActionCnt]mq.ExpenseMessageQueue
	SettlementMQArray [mq.ActionCnt]mq.SettlementMessageQueue
	conn              *amqp091.Connection // Keep a reference to the connection to close it later
}

// NewRabbitGroupMessageQueueWrapper creates a new instance of rabbitGroupMessageQueueWrapper.
func NewRabbitGroupMessageQueueWrapper(conn *amqp091.Connection) (mq.GroupMessageQueueWrapper, error) {
	wrapper := &rabbitGroupMessageQueueWrapper{
		conn: conn,
	}

	var err error

	// Initialize Expense MQs
	wrapper.ExpenseMQArray[mq.ActionCreate], err = NewRabbitExpenseMessageQueue(mq.ActionCreate, conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense create mq: %w", err)
	}
	wrapper.ExpenseMQArray[mq.ActionUpdate], err = NewRabbitExpenseMessageQueue(mq.ActionUpdate, conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense update mq: %w", err)
	}
	wrapper.ExpenseMQArray[mq.ActionDelete], err = NewRabbitExpenseMessageQueue(mq.ActionDelete, conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense delete mq: %w", err)
	}

	// Initialize Settlement MQs
	wrapper.SettlementMQArray[mq.ActionCreate], err = NewRabbitSettlementMessageQueue(mq.ActionCreate, conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create settlement create mq: %w", err)
	}
	wrapper.SettlementMQArray[mq.ActionDelete], err = NewRabbitSettlementMessageQueue(mq.ActionDelete, conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create settlement delete mq: %w", err)
	}

	return wrapper, nil
}

// GetExpenseMessageQueue returns the appropriate ExpenseMessageQueue based on the action.
func (wrapper *rabbitGroupMessageQueueWrapper) GetExpenseMessageQueue(action mq.Action) mq.ExpenseMessageQueue {
	if action < 0 || action >= mq.ActionCnt {
		return nil
	}
	return wrapper.ExpenseMQArray[action]
}

// GetSettlementMessageQueue returns the appropriate SettlementMessageQueue based on the action.
func (wrapper *rabbitGroupMessageQueueWrapper) GetSettlementMessageQueue(action mq.Action) mq.SettlementMessageQueue {
	if action < 0 || action >= mq.ActionCnt {
		return nil
	}
	return wrapper.SettlementMQArray[action]
}

// Close closes all channels and the RabbitMQ connection.
func (wrapper *rabbitGroupMessageQueueWrapper) Close() {
	for _, q := range wrapper.ExpenseMQArray {
		if rmq, ok := q.(*rabbitExpenseMessageQueue); ok && rmq.channel != nil {
			rmq.channel.Close()
		}
	}
	for _, q := range wrapper.SettlementMQArray {
		if rmq, ok := q.(*rabbitSettlementMessageQueue); ok && rmq.channel != nil {
			rmq.channel.Close()
		}
	}
	if wrapper.conn != nil {
		wrapper.conn.Close()
	}
}
