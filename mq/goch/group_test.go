package goch

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"fairshare/mq/mq"
)

// Helper to receive a message from a channel with a timeout.
// Returns the message and true if successful, or zero value and false on timeout/closed.
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

// Helper to check if a channel is closed (non-blocking).
func isChanClosed[T any](ch <-chan T) bool {
	select {
	case _, ok := <-ch:
		return !ok
	default:
		return false
	}
}

func TestExpenseQueuePublishSubscribe(t *testing.T) {
	t.Parallel()

	q := NewChannelExpenseMessageQueue(mq.ActionCreate)
	if q.GetAction() != mq.ActionCreate {
		t.Fatalf("expected action %v, got %v", mq.ActionCreate, q.GetAction())
	}

	groupID := uuid.New()
	subID, ch, err := q.Subscribe(groupID)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

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

	got, ok := receiveMsgWithTimeout(t, ch, time.Second)
	if !ok {
		t.Fatal("expected to receive a message")
	}
	if got.ID != msg.ID || got.Amount != msg.Amount {
		t.Fatalf("received message mismatch: got %+v", got)
	}

	if err := q.DeSubscribe(subID); err != nil {
		t.Fatalf("DeSubscribe failed: %v", err)
	}
	if !isChanClosed(ch) {
		t.Fatal("expected channel to be closed after DeSubscribe")
	}
	if err := q.DeSubscribe(subID); err == nil {
		t.Fatal("expected error for double DeSubscribe")
	}
}

func TestExpenseQueueTopicFilter(t *testing.T) {
	t.Parallel()

	q := NewChannelExpenseMessageQueue(mq.ActionUpdate)

	groupA := uuid.New()
	groupB := uuid.New()
	_, chA, _ := q.Subscribe(groupA)
	_, chB, _ := q.Subscribe(groupB)
	_, chAll, _ := q.Subscribe(uuid.Nil)

	msg := mq.ExpenseMessage{ID: uuid.New(), GroupID: groupA, Name: "Taxi", Amount: 20}
	if err := q.Publish(msg); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if _, ok := receiveMsgWithTimeout(t, chA, time.Second); !ok {
		t.Fatal("subscriber of group A should receive the message")
	}
	if _, ok := receiveMsgWithTimeout(t, chAll, time.Second); !ok {
		t.Fatal("wildcard subscriber should receive the message")
	}
	if _, ok := receiveMsgWithTimeout(t, chB, 50*time.Millisecond); ok {
		t.Fatal("subscriber of group B should not receive the message")
	}
}

func TestSettlementQueuePublishSubscribe(t *testing.T) {
	t.Parallel()

	q := NewChannelSettlementMessageQueue(mq.ActionCreate)

	groupID := uuid.New()
	_, ch, err := q.Subscribe(groupID)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

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

	got, ok := receiveMsgWithTimeout(t, ch, time.Second)
	if !ok {
		t.Fatal("expected to receive a message")
	}
	if got.From != msg.From || got.To != msg.To {
		t.Fatalf("received message mismatch: got %+v", got)
	}
}

func TestExpenseQueueFullBuffer(t *testing.T) {
	t.Parallel()

	q := NewChannelExpenseMessageQueue(mq.ActionCreate)
	groupID := uuid.New()
	q.Subscribe(groupID)

	// Nobody drains the subscriber, so the buffer eventually fills.
	var err error
	for i := 0; i < subscriberBufferSize+1; i++ {
		err = q.Publish(mq.ExpenseMessage{ID: uuid.New(), GroupID: groupID})
	}
	if err != ErrQueueFull {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func TestWrapperQueueLayout(t *testing.T) {
	t.Parallel()

	wrapper := NewGoChanGroupMessageQueueWrapper()

	for _, action := range []mq.Action{mq.ActionCreate, mq.ActionUpdate, mq.ActionDelete} {
		if wrapper.GetExpenseMessageQueue(action) == nil {
			t.Fatalf("expected expense queue for action %v", action)
		}
	}
	if wrapper.GetSettlementMessageQueue(mq.ActionCreate) == nil {
		t.Fatal("expected settlement create queue")
	}
	if wrapper.GetSettlementMessageQueue(mq.ActionDelete) == nil {
		t.Fatal("expected settlement delete queue")
	}
	if wrapper.GetSettlementMessageQueue(mq.ActionUpdate) != nil {
		t.Fatal("settlements are immutable, update queue should be nil")
	}
	if wrapper.GetExpenseMessageQueue(mq.ActionCnt) != nil {
		t.Fatal("out of range action should return nil")
	}
}

func TestSubscribeProcessor(t *testing.T) {
	t.Parallel()

	q := NewChannelExpenseMessageQueue(mq.ActionCreate)
	groupID := uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	output := make(chan string)
	mq.SubscribeProcessor(groupID, ctx, q, func(msg mq.ExpenseMessage) (string, bool, error) {
		if msg.Name == "skip me" {
			return "", true, nil
		}
		return msg.Name, false, nil
	}, output)

	// Give the processor goroutine time to subscribe.
	time.Sleep(50 * time.Millisecond)

	q.Publish(mq.ExpenseMessage{ID: uuid.New(), GroupID: groupID, Name: "skip me"})
	q.Publish(mq.ExpenseMessage{ID: uuid.New(), GroupID: groupID, Name: "Dinner"})

	got, ok := receiveMsgWithTimeout(t, output, time.Second)
	if !ok {
		t.Fatal("expected transformed output")
	}
	if got != "Dinner" {
		t.Fatalf("expected %q, got %q", "Dinner", got)
	}

	cancel()
	if _, ok := receiveMsgWithTimeout(t, output, time.Second); ok {
		t.Fatal("expected output stream to close after context cancel")
	}
}
