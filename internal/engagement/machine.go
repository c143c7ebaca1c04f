package engagement

import (
	"fmt"

	"github.com/openlance/openlance/internal/models"
	"github.com/openlance/openlance/internal/types"
)

// Current is the dual status pair of a bid as read before deciding. The
// commit is gated on exactly these values.
type Current struct {
	BidderStatus   models.BidStatus
	CustomerStatus models.BidStatus
}

// Decision is the outcome of the status machine: which bid status fields
// change, whether the parent project changes, and whether the project's
// selected-bid pointer changes. Nil pointer fields are left untouched.
type Decision struct {
	BidderStatus   *models.BidStatus
	CustomerStatus *models.BidStatus
	ProjectStatus  *models.ProjectStatus

	// SetSelectedBid reports whether the selected-bid pointer changes at
	// all; a nil SelectedBidID with SetSelectedBid true clears it.
	SetSelectedBid bool
	SelectedBidID  *uint
}

func (d Decision) TouchesProject() bool {
	return d.ProjectStatus != nil || d.SetSelectedBid
}

// InvalidTransitionError names the rejected transition so clients can see
// exactly which edge was refused.
type InvalidTransitionError struct {
	From models.BidStatus
	To   models.BidStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("status can not be changed from %s to %s", e.From, e.To)
}

// Decide is the pure transition function of the engagement status machine.
// Only the side selected by role may fire. The access guard fixes the role
// before a request can reach this point, so an unspecified role here means
// the caller is neither the owner nor the bidder.
func Decide(role types.Role, bidID uint, current Current, requested models.BidStatus) (Decision, error) {
	switch role {
	case types.RoleOwner:
		return decideOwner(bidID, current.CustomerStatus, requested)
	case types.RoleBidder:
		return decideBidder(current.BidderStatus, requested)
	case types.RoleUnspecified:
		return Decision{}, ErrNoRole
	}
	return Decision{}, ErrNoRole
}

func decideOwner(bidID uint, current, requested models.BidStatus) (Decision, error) {
	switch {
	case requested == models.BidInProgress && current == models.BidPending:
		// Selecting the bid: the project engages this bid exclusively.
		return Decision{
			CustomerStatus: bidStatus(models.BidInProgress),
			ProjectStatus:  projectStatus(models.ProjectInProgress),
			SetSelectedBid: true,
			SelectedBidID:  &bidID,
		}, nil
	case requested == models.BidCompleted && current == models.BidInProgress:
		return Decision{
			CustomerStatus: bidStatus(models.BidCompleted),
			ProjectStatus:  projectStatus(models.ProjectCompleted),
		}, nil
	case requested == models.BidRejected && current == models.BidInProgress:
		// Rejecting an engaged bid cancels the project and releases the
		// selected-bid pointer.
		return Decision{
			CustomerStatus: bidStatus(models.BidRejected),
			ProjectStatus:  projectStatus(models.ProjectCancelled),
			SetSelectedBid: true,
		}, nil
	}
	return Decision{}, &InvalidTransitionError{From: current, To: requested}
}

func decideBidder(current, requested models.BidStatus) (Decision, error) {
	switch {
	case requested == models.BidInProgress && current == models.BidPending:
		return Decision{
			BidderStatus: bidStatus(models.BidInProgress),
		}, nil
	case requested == models.BidCompleted && current == models.BidInProgress:
		return Decision{
			BidderStatus: bidStatus(models.BidCompleted),
		}, nil
	case requested == models.BidRejected && current == models.BidInProgress:
		// The bidder walking away reopens the project for new bids.
		return Decision{
			BidderStatus:  bidStatus(models.BidRejected),
			ProjectStatus: projectStatus(models.ProjectPending),
		}, nil
	}
	return Decision{}, &InvalidTransitionError{From: current, To: requested}
}

func bidStatus(s models.BidStatus) *models.BidStatus {
	return &s
}

func projectStatus(s models.ProjectStatus) *models.ProjectStatus {
	return &s
}
