package rabbit_test // Testing the 'rabbit' package as a black box providing 'mq' interfaces

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"fairshare/mq/mq"
	rabbitMQ "fairshare/mq/rabbit"
)

// getTestConnection establishes a real AMQP connection for tests.
// It skips the test suite if no broker is configured.
func getTestConnection(t *testing.T) *amqp.Connection {
	t.Helper()
	if os.Getenv("RABBITMQ_URL") == "" {
		t.Skip("Skipping test: RABBITMQ_URL environment variable not set.")
	}
	url := rabbitMQ.CreateAmqpURL()
	conn, err := amqp.Dial(url)
	if err != nil {
		t.Fatalf("PRE-REQUISITE FAILED: Could not connect to RabbitMQ at %s for testing. Error: %v", url, err)
	}
	return conn
}

// receiveMsgWithTimeout attempts to receive a message from a channel with a specified timeout.
func receiveMsgWithTimeout[T any](tb testing.TB, ch <-chan T, timeout time.Duration) (T, bool) {
	tb.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			var zero T
			return zero, false
		}
		return msg, true
	case <-time.After(timeout):
		var zero T
		return zero, false
	}
}

func TestExpenseMessageRoundTrip(t *testing.T) {
	conn := getTestConnection(t)
	defer conn.Close()

	wrapper, err := rabbitMQ.NewRabbitGroupMessageQueueWrapper(conn)
	if err != nil {
		t.Fatalf("Failed to create wrapper: %v", err)
	}

	q := wrapper.GetExpenseMessageQueue(mq.ActionCreate)
	if q == nil {
		t.Fatal("expected expense create queue")
	}

	groupID := uuid.New()
	subID, ch, err := q.Subscribe(groupID)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer q.DeSubscribe(subID)

	msg := mq.ExpenseMessage{
		ID:      uuid.New(),
		GroupID: groupID,
		Name:    "Dinner",
		Amount:  90,
		PaidBy:  uuid.New(),
	}
	if err := q.Publish(msg); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	got, ok := receiveMsgWithTimeout(t, ch, 5*time.Second)
	if !ok {
		t.Fatal("expected to receive the published message")
	}
	if got.ID != msg.ID || got.Amount != msg.Amount {
		t.Fatalf("message mismatch: got %+v", got)
	}
}

func TestSettlementMessageRoundTrip(t *testing.T) {
	conn := getTestConnection(t)
	defer conn.Close()

	wrapper, err := rabbitMQ.NewRabbitGroupMessageQueueWrapper(conn)
	if err != nil {
		t.Fatalf("Failed to create wrapper: %v", err)
	}

	q := wrapper.GetSettlementMessageQueue(mq.ActionCreate)
	if q == nil {
		t.Fatal("expected settlement create queue")
	}

	groupID := uuid.New()
	subID, ch, err := q.Subscribe(groupID)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer q.DeSubscribe(subID)

	msg := mq.SettlementMessage{
		ID:      uuid.New(),
		GroupID: groupID,
		From:    uuid.New(),
		To:      uuid.New(),
		Amount:  33.33,
	}
	if err := q.Publish(msg); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	got, ok := receiveMsgWithTimeout(t, ch, 5*time.Second)
	if !ok {
		t.Fatal("expected to receive the published message")
	}
	if got.From != msg.From || got.To != msg.To {
		t.Fatalf("message mismatch: got %+v", got)
	}
}
