package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openlance/openlance/internal/models"
)

func changeStatusPath(bidID uint) string {
	return fmt.Sprintf("/api/bids/change-status/%d", bidID)
}

func TestChangeBidStatusOwnerSelects(t *testing.T) {
	gdb, r := newTestApp(t)
	f := seed(t, gdb, models.BidInProgress, models.BidPending, false)

	w := doJSON(t, r, http.MethodPost, changeStatusPath(f.bid.ID), tokenFor(t, f.owner),
		map[string]string{"status": "IN_PROGRESS"})

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, decode(t, w)["success"])

	var bid models.Bid
	require.NoError(t, gdb.First(&bid, f.bid.ID).Error)
	require.Equal(t, models.BidInProgress, bid.CustomerStatus)

	var project models.Project
	require.NoError(t, gdb.First(&project, f.project.ID).Error)
	require.Equal(t, models.ProjectInProgress, project.Status)
	require.NotNil(t, project.SelectedBidID)
	require.Equal(t, f.bid.ID, *project.SelectedBidID)
}

func TestChangeBidStatusBidderWalksAway(t *testing.T) {
	gdb, r := newTestApp(t)
	f := seed(t, gdb, models.BidInProgress, models.BidInProgress, true)

	w := doJSON(t, r, http.MethodPost, changeStatusPath(f.bid.ID), tokenFor(t, f.bidder),
		map[string]string{"status": "REJECTED"})

	require.Equal(t, http.StatusOK, w.Code)

	var bid models.Bid
	require.NoError(t, gdb.First(&bid, f.bid.ID).Error)
	require.Equal(t, models.BidRejected, bid.BidderStatus)
	require.Equal(t, models.BidInProgress, bid.CustomerStatus)

	var project models.Project
	require.NoError(t, gdb.First(&project, f.project.ID).Error)
	require.Equal(t, models.ProjectPending, project.Status)
}

func TestChangeBidStatusInvalidTransition(t *testing.T) {
	gdb, r := newTestApp(t)
	f := seed(t, gdb, models.BidInProgress, models.BidPending, false)

	w := doJSON(t, r, http.MethodPost, changeStatusPath(f.bid.ID), tokenFor(t, f.owner),
		map[string]string{"status": "COMPLETED"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "status can not be changed from PENDING to COMPLETED", decode(t, w)["error"])

	// Nothing committed.
	var bid models.Bid
	require.NoError(t, gdb.First(&bid, f.bid.ID).Error)
	require.Equal(t, models.BidPending, bid.CustomerStatus)
}

func TestChangeBidStatusRejectsPendingTarget(t *testing.T) {
	gdb, r := newTestApp(t)
	f := seed(t, gdb, models.BidInProgress, models.BidInProgress, true)

	for _, status := range []string{"PENDING", "bogus"} {
		w := doJSON(t, r, http.MethodPost, changeStatusPath(f.bid.ID), tokenFor(t, f.owner),
			map[string]string{"status": status})

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "Invalid status value", decode(t, w)["error"])
	}
}

func TestChangeBidStatusStrangerDenied(t *testing.T) {
	gdb, r := newTestApp(t)
	f := seed(t, gdb, models.BidInProgress, models.BidPending, false)

	w := doJSON(t, r, http.MethodPost, changeStatusPath(f.bid.ID), tokenFor(t, f.stranger),
		map[string]string{"status": "IN_PROGRESS"})

	require.Equal(t, http.StatusUnauthorized, w.Code)

	var bid models.Bid
	require.NoError(t, gdb.First(&bid, f.bid.ID).Error)
	require.Equal(t, models.BidPending, bid.CustomerStatus)
}

func TestChangeBidStatusUnknownBid(t *testing.T) {
	gdb, r := newTestApp(t)
	f := seed(t, gdb, models.BidInProgress, models.BidPending, false)

	w := doJSON(t, r, http.MethodPost, changeStatusPath(9999), tokenFor(t, f.owner),
		map[string]string{"status": "IN_PROGRESS"})

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostBidMessage(t *testing.T) {
	gdb, r := newTestApp(t)
	f := seed(t, gdb, models.BidInProgress, models.BidInProgress, true)

	path := fmt.Sprintf("/api/bids/msg/%d", f.bid.ID)

	w := doJSON(t, r, http.MethodPost, path, tokenFor(t, f.bidder),
		map[string]string{"msg": "starting tomorrow morning"})

	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	require.Equal(t, "message recorded", body["message"])

	data := body["data"].(map[string]interface{})
	require.Equal(t, "starting tomorrow morning", data["message"])
	require.Equal(t, "MESSAGE", data["type"])
	require.Equal(t, "bert", data["user"].(map[string]interface{})["username"])

	var tracking models.BidTracking
	require.NoError(t, gdb.Where("bid_id = ?", f.bid.ID).First(&tracking).Error)
	require.Equal(t, models.TrackingMessage, tracking.Type)
	require.Equal(t, f.bidder.ID, tracking.UserID)
}

func TestPostBidMessageLengthValidated(t *testing.T) {
	gdb, r := newTestApp(t)
	f := seed(t, gdb, models.BidInProgress, models.BidInProgress, true)

	path := fmt.Sprintf("/api/bids/msg/%d", f.bid.ID)

	w := doJSON(t, r, http.MethodPost, path, tokenFor(t, f.bidder), map[string]string{"msg": "ok"})

	require.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, gdb.Model(&models.BidTracking{}).Where("bid_id = ?", f.bid.ID).Count(&count).Error)
	require.Zero(t, count)
}
