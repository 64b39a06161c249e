package booking

import (
	"errors"
	"time"
)

// ErrNotParticipant signals the viewer is neither sender nor receiver.
var ErrNotParticipant = errors.New("booking: viewer is not a party to this booking")

// PartyView projects the approval fields of a booking from one party's
// perspective: "mine" is the side the viewer occupies, "theirs" the
// counterparty's.
type PartyView struct {
	Party           Party
	MyApproved      bool
	MyApprovedAt    *time.Time
	TheirApproved   bool
	TheirApprovedAt *time.Time
}

// ViewFor selects the viewer's side by comparing their identity against the
// booking's positional party ids.
func ViewFor(b Booking, viewerID string) (PartyView, error) {
	switch viewerID {
	case b.SenderID:
		return PartyView{
			Party:           PartySender,
			MyApproved:      b.ApprovedBySender,
			MyApprovedAt:    b.SenderApprovedAt,
			TheirApproved:   b.ApprovedByReceiver,
			TheirApprovedAt: b.ReceiverApprovedAt,
		}, nil
	case b.ReceiverID:
		return PartyView{
			Party:           PartyReceiver,
			MyApproved:      b.ApprovedByReceiver,
			MyApprovedAt:    b.ReceiverApprovedAt,
			TheirApproved:   b.ApprovedBySender,
			TheirApprovedAt: b.SenderApprovedAt,
		}, nil
	default:
		return PartyView{}, ErrNotParticipant
	}
}

// ChangedSinceApproval reports whether a later content edit invalidated either
// party's prior sign-off. A nil timestamp means that side never approved and
// contributes nothing; both nil yields false.
func ChangedSinceApproval(lastModifiedAt time.Time, mineAt, theirsAt *time.Time) bool {
	if mineAt != nil && lastModifiedAt.After(*mineAt) {
		return true
	}
	if theirsAt != nil && lastModifiedAt.After(*theirsAt) {
		return true
	}
	return false
}

// ChangedSinceApproval evaluates the staleness rule from this view's
// perspective against the booking's content mutation marker.
func (v PartyView) ChangedSinceApproval(lastModifiedAt time.Time) bool {
	return ChangedSinceApproval(lastModifiedAt, v.MyApprovedAt, v.TheirApprovedAt)
}

// TheirApprovalStale reports whether the counterparty's sign-off specifically
// predates the last content edit. The review page uses it to render the
// counterparty's approval badge as stale; the revocation decision itself runs
// on ChangedSinceApproval.
func (v PartyView) TheirApprovalStale(lastModifiedAt time.Time) bool {
	return v.TheirApprovedAt != nil && lastModifiedAt.After(*v.TheirApprovedAt)
}
