package test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"giggen/booking"
	"giggen/logger"
	"giggen/outbox"
	"giggen/test/infra"
)

type capturingPublisher struct {
	topics []string
}

func (p *capturingPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	p.topics = append(p.topics, topic)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

// TestApprovalOutboxFlow boots a Postgres container, runs both parties
// through review and approval, edits the content, approves again to trigger
// revocation, then drains the outbox and checks the published topic sequence.
func TestApprovalOutboxFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	pgC, dsn, err := infra.StartPostgres16(ctx, "")
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	defer pgC.Terminate(context.Background())

	pool, err := infra.ApplyMigrations(ctx, dsn)
	if err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	defer pool.Close()

	seedUser := func(name string) string {
		var id string
		err := pool.QueryRow(ctx,
			`INSERT INTO users (email, full_name, password_hash, role) VALUES ($1, $2, 'x', 'musician') RETURNING id`,
			fmt.Sprintf("%s@example.com", name), name).Scan(&id)
		if err != nil {
			t.Fatalf("seed user %s: %v", name, err)
		}
		return id
	}
	senderID := seedUser("mia")
	receiverID := seedUser("jonas")

	repo := booking.NewRepository(pool)
	svc := booking.NewService(pool, repo)
	approvals := booking.NewApprovalService(pool, repo)

	created, err := svc.SendRequest(ctx, booking.SendRequestParams{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Title:      "Album release show",
		EventDate:  time.Now().Add(45 * 24 * time.Hour),
		ArtistFee:  1200000,
	})
	if err != nil {
		t.Fatalf("send request: %v", err)
	}

	approve := func(viewerID string) booking.ApproveResult {
		session := booking.NewReviewSession()
		for {
			session.Acknowledge()
			if session.Ready() {
				break
			}
			if err := session.Next(); err != nil {
				t.Fatalf("traverse review: %v", err)
			}
		}
		result, err := approvals.Approve(ctx, booking.ApproveParams{
			BookingID: created.ID,
			ViewerID:  viewerID,
			Review:    session,
		})
		if err != nil {
			t.Fatalf("approve: %v", err)
		}
		return result
	}

	approve(senderID)
	if result := approve(receiverID); !result.Confirmed {
		t.Fatalf("mutual approval should confirm: %+v", result)
	}

	newVenue := "Rockefeller"
	if _, err := svc.EditContent(ctx, booking.EditContentParams{
		BookingID: created.ID,
		ActorID:   receiverID,
		Patch:     booking.ContentPatch{Venue: &newVenue},
	}); err != nil {
		t.Fatalf("edit content: %v", err)
	}

	if result := approve(receiverID); !result.RevokedCounterparty {
		t.Fatal("post-edit approval must revoke the sender's stale sign-off")
	}
	demoted, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if demoted.Status != booking.StatusPending {
		t.Fatalf("revocation must demote the booking to pending, got %s", demoted.Status)
	}

	pub := &capturingPublisher{}
	dispatcher := outbox.NewDispatcher(outbox.NewPGStore(pool), pub, logger.New(logger.FATAL), time.Second, 100)
	if err := dispatcher.Drain(ctx); err != nil {
		t.Fatalf("drain outbox: %v", err)
	}

	want := map[string]int{
		booking.OutboxTopicRequested:       1,
		booking.OutboxTopicApproved:        3,
		booking.OutboxTopicConfirmed:       1,
		booking.OutboxTopicEdited:          1,
		booking.OutboxTopicApprovalRevoked: 1,
	}
	got := map[string]int{}
	for _, topic := range pub.topics {
		got[topic]++
	}
	for topic, n := range want {
		if got[topic] != n {
			t.Errorf("topic %s: want %d, got %d (all: %v)", topic, n, got[topic], pub.topics)
		}
	}

	var pending int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox WHERE status = 'pending'`).Scan(&pending); err != nil {
		t.Fatal(err)
	}
	if pending != 0 {
		t.Errorf("expected empty outbox after drain, %d rows still pending", pending)
	}
}
