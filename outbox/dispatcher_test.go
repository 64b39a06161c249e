package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"giggen/logger"
)

type fakeStore struct {
	pending []Message
	sent    []string
	failed  []string
}

func (f *fakeStore) ClaimPending(ctx context.Context, limit int) ([]Message, error) {
	if limit > len(f.pending) {
		limit = len(f.pending)
	}
	batch := f.pending[:limit]
	f.pending = f.pending[limit:]
	return batch, nil
}

func (f *fakeStore) MarkSent(ctx context.Context, ids []string) error {
	f.sent = append(f.sent, ids...)
	return nil
}

func (f *fakeStore) MarkFailed(ctx context.Context, id string) error {
	f.failed = append(f.failed, id)
	return nil
}

type fakePublisher struct {
	failTopic string
	published []string
}

func (f *fakePublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	if topic == f.failTopic {
		return errors.New("broker unavailable")
	}
	f.published = append(f.published, topic)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func TestDrain_MarksSentAndRetriesFailures(t *testing.T) {
	store := &fakeStore{pending: []Message{
		{ID: "m1", Topic: "booking.requested", Payload: []byte(`{"booking_id":"b1"}`)},
		{ID: "m2", Topic: "booking.confirmed", Payload: []byte(`{"booking_id":"b2"}`)},
		{ID: "m3", Topic: "booking.approved", Payload: []byte(`{"booking_id":"b3"}`)},
	}}
	pub := &fakePublisher{failTopic: "booking.confirmed"}
	d := NewDispatcher(store, pub, logger.New(logger.FATAL), time.Second, 50)

	if err := d.Drain(context.Background()); err != nil {
		t.Fatalf("Drain: %v", err)
	}

	if len(store.sent) != 2 {
		t.Fatalf("expected 2 sent, got %v", store.sent)
	}
	if len(store.failed) != 1 || store.failed[0] != "m2" {
		t.Fatalf("expected m2 marked failed, got %v", store.failed)
	}
	if len(pub.published) != 2 {
		t.Errorf("expected 2 published, got %v", pub.published)
	}
}

func TestDrain_EmptyBatchIsQuiet(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	d := NewDispatcher(store, pub, logger.New(logger.FATAL), time.Second, 50)

	if err := d.Drain(context.Background()); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if len(store.sent) != 0 || len(pub.published) != 0 {
		t.Error("expected no activity on empty outbox")
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	d := NewDispatcher(store, pub, logger.New(logger.FATAL), 10*time.Millisecond, 50)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop after cancel")
	}
}
