package engagement_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openlance/openlance/internal/engagement"
	"github.com/openlance/openlance/internal/models"
	"github.com/openlance/openlance/internal/types"
)

func TestDecideOwnerSelectsBid(t *testing.T) {
	current := engagement.Current{
		BidderStatus:   models.BidInProgress,
		CustomerStatus: models.BidPending,
	}

	decision, err := engagement.Decide(types.RoleOwner, 42, current, models.BidInProgress)
	require.NoError(t, err)

	require.Nil(t, decision.BidderStatus)
	require.NotNil(t, decision.CustomerStatus)
	require.Equal(t, models.BidInProgress, *decision.CustomerStatus)
	require.NotNil(t, decision.ProjectStatus)
	require.Equal(t, models.ProjectInProgress, *decision.ProjectStatus)
	require.True(t, decision.SetSelectedBid)
	require.NotNil(t, decision.SelectedBidID)
	require.Equal(t, uint(42), *decision.SelectedBidID)
}

func TestDecideOwnerCompletesBid(t *testing.T) {
	current := engagement.Current{
		BidderStatus:   models.BidInProgress,
		CustomerStatus: models.BidInProgress,
	}

	decision, err := engagement.Decide(types.RoleOwner, 42, current, models.BidCompleted)
	require.NoError(t, err)

	require.Equal(t, models.BidCompleted, *decision.CustomerStatus)
	require.Equal(t, models.ProjectCompleted, *decision.ProjectStatus)
	require.False(t, decision.SetSelectedBid)
}

func TestDecideOwnerRejectsBid(t *testing.T) {
	current := engagement.Current{
		BidderStatus:   models.BidInProgress,
		CustomerStatus: models.BidInProgress,
	}

	decision, err := engagement.Decide(types.RoleOwner, 42, current, models.BidRejected)
	require.NoError(t, err)

	require.Equal(t, models.BidRejected, *decision.CustomerStatus)
	require.Equal(t, models.ProjectCancelled, *decision.ProjectStatus)
	require.True(t, decision.SetSelectedBid)
	require.Nil(t, decision.SelectedBidID, "rejection must clear the selected bid pointer")
}

func TestDecideBidderTransitions(t *testing.T) {
	tests := []struct {
		name        string
		current     models.BidStatus
		requested   models.BidStatus
		wantBidder  models.BidStatus
		wantProject *models.ProjectStatus
	}{
		{
			name:       "accept engagement",
			current:    models.BidPending,
			requested:  models.BidInProgress,
			wantBidder: models.BidInProgress,
		},
		{
			name:       "report completion",
			current:    models.BidInProgress,
			requested:  models.BidCompleted,
			wantBidder: models.BidCompleted,
		},
		{
			name:        "walk away reopens project",
			current:     models.BidInProgress,
			requested:   models.BidRejected,
			wantBidder:  models.BidRejected,
			wantProject: func() *models.ProjectStatus { s := models.ProjectPending; return &s }(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := engagement.Current{
				BidderStatus:   tt.current,
				CustomerStatus: models.BidInProgress,
			}

			decision, err := engagement.Decide(types.RoleBidder, 7, current, tt.requested)
			require.NoError(t, err)

			require.NotNil(t, decision.BidderStatus)
			require.Equal(t, tt.wantBidder, *decision.BidderStatus)
			require.Nil(t, decision.CustomerStatus, "bidder transitions never touch the customer status")
			require.False(t, decision.SetSelectedBid)

			if tt.wantProject == nil {
				require.Nil(t, decision.ProjectStatus)
			} else {
				require.NotNil(t, decision.ProjectStatus)
				require.Equal(t, *tt.wantProject, *decision.ProjectStatus)
			}
		})
	}
}

func TestDecideRejectsIllegalTransitions(t *testing.T) {
	tests := []struct {
		name      string
		role      types.Role
		current   engagement.Current
		requested models.BidStatus
		wantMsg   string
	}{
		{
			name:      "owner cannot complete a pending bid",
			role:      types.RoleOwner,
			current:   engagement.Current{BidderStatus: models.BidInProgress, CustomerStatus: models.BidPending},
			requested: models.BidCompleted,
			wantMsg:   "status can not be changed from PENDING to COMPLETED",
		},
		{
			name:      "owner cannot re-select an in-progress bid",
			role:      types.RoleOwner,
			current:   engagement.Current{BidderStatus: models.BidInProgress, CustomerStatus: models.BidInProgress},
			requested: models.BidInProgress,
			wantMsg:   "status can not be changed from IN_PROGRESS to IN_PROGRESS",
		},
		{
			name:      "owner cannot act on a completed bid",
			role:      types.RoleOwner,
			current:   engagement.Current{BidderStatus: models.BidCompleted, CustomerStatus: models.BidCompleted},
			requested: models.BidCompleted,
			wantMsg:   "status can not be changed from COMPLETED to COMPLETED",
		},
		{
			name:      "bidder cannot complete before accepting",
			role:      types.RoleBidder,
			current:   engagement.Current{BidderStatus: models.BidPending, CustomerStatus: models.BidPending},
			requested: models.BidCompleted,
			wantMsg:   "status can not be changed from PENDING to COMPLETED",
		},
		{
			name:      "bidder cannot reject a rejected bid",
			role:      types.RoleBidder,
			current:   engagement.Current{BidderStatus: models.BidRejected, CustomerStatus: models.BidInProgress},
			requested: models.BidRejected,
			wantMsg:   "status can not be changed from REJECTED to REJECTED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engagement.Decide(tt.role, 1, tt.current, tt.requested)
			require.Error(t, err)

			var invalid *engagement.InvalidTransitionError
			require.ErrorAs(t, err, &invalid)
			require.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestDecideIsIdempotentOnRejection(t *testing.T) {
	current := engagement.Current{
		BidderStatus:   models.BidInProgress,
		CustomerStatus: models.BidCompleted,
	}

	_, first := engagement.Decide(types.RoleOwner, 1, current, models.BidCompleted)
	_, second := engagement.Decide(types.RoleOwner, 1, current, models.BidCompleted)

	require.Error(t, first)
	require.Error(t, second)
	require.Equal(t, first.Error(), second.Error())
}

func TestDecideRequiresRole(t *testing.T) {
	current := engagement.Current{
		BidderStatus:   models.BidPending,
		CustomerStatus: models.BidPending,
	}

	_, err := engagement.Decide(types.RoleUnspecified, 1, current, models.BidInProgress)
	require.ErrorIs(t, err, engagement.ErrNoRole)
}
