package gcppubsub_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"fairshare/mq/gcppubsub"
	"fairshare/mq/mq"
)

// --- Test Pre-requisite ---
// This test suite requires the Google Cloud Pub/Sub emulator to be running.
// Before running the tests, start the emulator using the gcloud CLI:
//
//	gcloud beta emulators pubsub start --project=test-project
//
// The tests will automatically detect the PUBSUB_EMULATOR_HOST environment
// variable set by the emulator. If it's not set, all tests will be skipped.
const testProjectID = "test-project"

// getTestWrapper connects to the Pub/Sub emulator and creates a new wrapper for testing.
// It skips the test if the emulator is not running.
func getTestWrapper(t *testing.T) mq.GroupMessageQueueWrapper {
	t.Helper()
	if os.Getenv("PUBSUB_EMULATOR_HOST") == "" {
		t.Skip("Skipping test: PUBSUB_EMULATOR_HOST environment variable not set. Please start the Pub/Sub emulator.")
	}

	ctx := context.Background()
	wrapper, err := gcppubsub.NewGCPGroupMessageQueueWrapper(ctx, testProjectID)
	if err != nil {
		t.Fatalf("Failed to create GCPGroupMessageQueueWrapper for emulator: %v", err)
	}
	return wrapper
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

func TestExpensePublishSubscribe(t *testing.T) {
	wrapper := getTestWrapper(t)

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

	// Give the subscription time to become active on the emulator.
	time.Sleep(time.Second)

	msg := mq.ExpenseMessage{
		ID:      uuid.New(),
		GroupID: groupID,
		Name:    "Hotel",
		Amount:  200,
		PaidBy:  uuid.New(),
	}
	if err := q.Publish(msg); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	got, ok := receiveMsgWithTimeout(t, ch, 10*time.Second)
	if !ok {
		t.Fatal("expected to receive the published message")
	}
	if got.ID != msg.ID {
		t.Fatalf("message mismatch: got %+v", got)
	}
}

func TestTopicFilterIsolation(t *testing.T) {
	wrapper := getTestWrapper(t)

	q := wrapper.GetSettlementMessageQueue(mq.ActionCreate)
	if q == nil {
		t.Fatal("expected settlement create queue")
	}

	groupA := uuid.New()
	groupB := uuid.New()

	subID, ch, err := q.Subscribe(groupA)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer q.DeSubscribe(subID)

	time.Sleep(time.Second)

	// A settlement in group B must not reach the group A subscriber.
	if err := q.Publish(mq.SettlementMessage{
		ID:      uuid.New(),
		GroupID: groupB,
		From:    uuid.New(),
		To:      uuid.New(),
		Amount:  10,
	}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if _, ok := receiveMsgWithTimeout(t, ch, 2*time.Second); ok {
		t.Fatal("subscriber of group A should not see group B settlements")
	}

	if wrapper.GetSettlementMessageQueue(mq.ActionUpdate) != nil {
		t.Fatal("settlements are immutable, update queue should be nil")
	}
}
