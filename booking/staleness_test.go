package booking

import (
	"errors"
	"testing"
	"time"
)

func ts(offset int) time.Time {
	return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(offset) * time.Minute)
}

func tsPtr(offset int) *time.Time {
	t := ts(offset)
	return &t
}

func TestChangedSinceApproval(t *testing.T) {
	tests := []struct {
		name         string
		lastModified time.Time
		mine         *time.Time
		theirs       *time.Time
		want         bool
	}{
		{name: "never approved", lastModified: ts(10), mine: nil, theirs: nil, want: false},
		{name: "my approval stale", lastModified: ts(10), mine: tsPtr(5), theirs: nil, want: true},
		{name: "their approval stale", lastModified: ts(10), mine: nil, theirs: tsPtr(8), want: true},
		{name: "both stale", lastModified: ts(10), mine: tsPtr(5), theirs: tsPtr(8), want: true},
		{name: "both fresh", lastModified: ts(10), mine: tsPtr(11), theirs: tsPtr(12), want: false},
		{name: "approval equals modification", lastModified: ts(10), mine: tsPtr(10), theirs: nil, want: false},
		{name: "only mine fresh theirs stale", lastModified: ts(10), mine: tsPtr(12), theirs: tsPtr(5), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChangedSinceApproval(tt.lastModified, tt.mine, tt.theirs); got != tt.want {
				t.Errorf("ChangedSinceApproval() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChangedSinceApproval_ViewerIndependent(t *testing.T) {
	// An edit after the sender's sign-off must read as changed no matter
	// which party opens the review page.
	b := Booking{
		SenderID:         "user-sender",
		ReceiverID:       "user-receiver",
		SenderApprovedAt: tsPtr(5),
		LastModifiedAt:   ts(10),
	}

	for _, viewer := range []string{"user-sender", "user-receiver"} {
		view, err := ViewFor(b, viewer)
		if err != nil {
			t.Fatalf("ViewFor(%s): %v", viewer, err)
		}
		if !view.ChangedSinceApproval(b.LastModifiedAt) {
			t.Errorf("viewer %s: expected change detected", viewer)
		}
	}
}

func TestViewFor(t *testing.T) {
	b := Booking{
		SenderID:           "user-a",
		ReceiverID:         "user-b",
		ApprovedBySender:   true,
		SenderApprovedAt:   tsPtr(3),
		ApprovedByReceiver: false,
	}

	view, err := ViewFor(b, "user-a")
	if err != nil {
		t.Fatalf("ViewFor sender: %v", err)
	}
	if view.Party != PartySender || !view.MyApproved || view.MyApprovedAt == nil {
		t.Errorf("sender view mismatched: %+v", view)
	}
	if view.TheirApproved || view.TheirApprovedAt != nil {
		t.Errorf("sender view should see unapproved counterparty: %+v", view)
	}

	view, err = ViewFor(b, "user-b")
	if err != nil {
		t.Fatalf("ViewFor receiver: %v", err)
	}
	if view.Party != PartyReceiver || view.MyApproved {
		t.Errorf("receiver view mismatched: %+v", view)
	}
	if !view.TheirApproved || view.TheirApprovedAt == nil {
		t.Errorf("receiver view should see approved counterparty: %+v", view)
	}

	if _, err := ViewFor(b, "user-c"); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("expected ErrNotParticipant, got %v", err)
	}
}

func TestTheirApprovalStale(t *testing.T) {
	view := PartyView{TheirApprovedAt: tsPtr(8)}
	if !view.TheirApprovalStale(ts(10)) {
		t.Error("expected counterparty approval stale")
	}
	if view.TheirApprovalStale(ts(8)) {
		t.Error("equal timestamps are not stale")
	}
	if (PartyView{}).TheirApprovalStale(ts(10)) {
		t.Error("never-approved counterparty cannot be stale")
	}
}
