package models

// ProjectStatus is the aggregate state of a project. It is always derivable
// from the customer/bidder statuses of the project's selected bid, or PENDING
// when no bid is selected.
type ProjectStatus string

const (
	ProjectPending    ProjectStatus = "PENDING"
	ProjectInProgress ProjectStatus = "IN_PROGRESS"
	ProjectCompleted  ProjectStatus = "COMPLETED"
	ProjectCancelled  ProjectStatus = "CANCELLED"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPending, ProjectInProgress, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

// BidStatus is shared by both of a bid's independently tracked status fields:
// bidder_status (the bidder's self-reported progress) and customer_status
// (the owner's decision state).
type BidStatus string

const (
	BidPending    BidStatus = "PENDING"
	BidInProgress BidStatus = "IN_PROGRESS"
	BidCompleted  BidStatus = "COMPLETED"
	BidRejected   BidStatus = "REJECTED"
)

func (s BidStatus) Valid() bool {
	switch s {
	case BidPending, BidInProgress, BidCompleted, BidRejected:
		return true
	}
	return false
}

// TrackingType classifies rows in the append-only bid tracking log.
type TrackingType string

const (
	TrackingSelection  TrackingType = "SELECTION"
	TrackingMessage    TrackingType = "MESSAGE"
	TrackingRejection  TrackingType = "REJECTION"
	TrackingCompletion TrackingType = "COMPLETION"
)
