package engagement

import "errors"

var (
	// ErrNoRole means the caller is neither the project owner nor the
	// bidder. The guard normally denies such requests before they get here.
	ErrNoRole = errors.New("caller has no role on this bid")

	// ErrConflict means a concurrent transition changed the bid's statuses
	// between read and commit. The caller should re-read and re-request.
	ErrConflict = errors.New("bid status changed concurrently")
)
