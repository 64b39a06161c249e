package booking

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestApproveRevoke_Integration connects to a real PostgreSQL via DATABASE_URL
// and drives the full edit-then-approve cascade through the repository: both
// parties approve, one edits, and the next approval revokes the stale
// counterparty sign-off under the row lock.
func TestApproveRevoke_Integration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL is empty; set it to a live PostgreSQL to run integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect pool: %v", err)
	}
	defer pool.Close()

	var exists bool
	if err := pool.QueryRow(ctx, `SELECT to_regclass('bookings') IS NOT NULL`).Scan(&exists); err != nil || !exists {
		t.Skip("database schema missing; apply migrations/0001_init.sql first")
	}

	seedUser := func(name string) string {
		var id string
		email := fmt.Sprintf("%s+%d@example.com", name, time.Now().UnixNano())
		if err := pool.QueryRow(ctx,
			`INSERT INTO users (email, full_name, password_hash) VALUES ($1, $2, 'x') RETURNING id`,
			email, name).Scan(&id); err != nil {
			t.Fatalf("seed user %s: %v", name, err)
		}
		return id
	}
	senderID := seedUser("sender")
	receiverID := seedUser("receiver")

	repo := NewRepository(pool)
	svc := NewService(pool, repo).WithIDGenerator(func() string { return uuid.NewString() })
	approvals := NewApprovalService(pool, repo)

	created, err := svc.SendRequest(ctx, SendRequestParams{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Title:      "Release gig",
		EventDate:  time.Now().Add(30 * 24 * time.Hour),
		ArtistFee:  800000,
	})
	if err != nil {
		t.Fatalf("send request: %v", err)
	}

	approve := func(viewerID string) ApproveResult {
		session := NewReviewSession()
		for {
			session.Acknowledge()
			if session.Ready() {
				break
			}
			if err := session.Next(); err != nil {
				t.Fatalf("traverse review: %v", err)
			}
		}
		result, err := approvals.Approve(ctx, ApproveParams{
			BookingID: created.ID,
			ViewerID:  viewerID,
			Review:    session,
		})
		if err != nil {
			t.Fatalf("approve as %s: %v", viewerID, err)
		}
		return result
	}

	if result := approve(senderID); result.Confirmed || result.RevokedCounterparty {
		t.Fatalf("first approval should neither confirm nor revoke: %+v", result)
	}
	if result := approve(receiverID); !result.Confirmed {
		t.Fatalf("second approval should confirm: %+v", result)
	}

	confirmed, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if confirmed.Status != StatusUpcoming {
		t.Fatalf("expected upcoming after mutual approval, got %s", confirmed.Status)
	}

	// An edit by the sender stales both approvals.
	newFee := int64(900000)
	if _, err := svc.EditContent(ctx, EditContentParams{
		BookingID: created.ID,
		ActorID:   senderID,
		Patch:     ContentPatch{ArtistFee: &newFee},
	}); err != nil {
		t.Fatalf("edit content: %v", err)
	}

	if result := approve(senderID); !result.RevokedCounterparty {
		t.Fatal("approval after edit must revoke the receiver's stale sign-off")
	}

	final, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if final.ApprovedByReceiver || final.ReceiverApprovedAt != nil {
		t.Errorf("receiver approval should be cleared, got %+v", final)
	}
	if !final.ApprovedBySender {
		t.Error("sender approval should be recorded")
	}
	if final.Status != StatusPending {
		t.Errorf("revocation should demote the booking to pending, got %s", final.Status)
	}
}
