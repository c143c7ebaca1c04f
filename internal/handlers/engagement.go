package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openlance/openlance/internal/engagement"
	"github.com/openlance/openlance/internal/models"
	"github.com/openlance/openlance/internal/types"
	"github.com/openlance/openlance/internal/utils"
)

type ChangeBidStatusRequest struct {
	Status models.BidStatus `json:"status" binding:"required"`
}

type BidMessageRequest struct {
	Msg string `json:"msg" binding:"required,min=3,max=100"`
}

type TrackingResponse struct {
	ID        uint                `json:"id"`
	BidID     uint                `json:"bid_id"`
	UserID    uint                `json:"user_id"`
	Message   string              `json:"message"`
	Type      models.TrackingType `json:"type"`
	CreatedAt time.Time           `json:"created_at"`
	User      *types.PublicUser   `json:"user,omitempty"`
}

func newTrackingResponse(tracking models.BidTracking) TrackingResponse {
	resp := TrackingResponse{
		ID:        tracking.ID,
		BidID:     tracking.BidID,
		UserID:    tracking.UserID,
		Message:   tracking.Message,
		Type:      tracking.Type,
		CreatedAt: tracking.CreatedAt,
	}

	if tracking.User.ID != 0 {
		user := types.NewPublicUser(tracking.User)
		resp.User = &user
	}

	return resp
}

func newTrackingResponses(trackings []models.BidTracking) []TrackingResponse {
	response := make([]TrackingResponse, 0, len(trackings))

	for _, tracking := range trackings {
		response = append(response, newTrackingResponse(tracking))
	}

	return response
}

// ChangeBidStatus runs the engagement status machine for the loaded bid. The
// guard has already fixed the caller's role; the service decides and commits
// atomically.
func (h *Handler) ChangeBidStatus(ctx *gin.Context) {
	bid, err := utils.GetBid(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req ChangeBidStatusRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// PENDING is an initial state only; it is never a transition target.
	if !req.Status.Valid() || req.Status == models.BidPending {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status value"})
		return
	}

	role := utils.GetRole(ctx)

	_, err = h.engagements.ChangeStatus(ctx.Request.Context(), bid, role, userID, req.Status)

	if err != nil {
		var invalid *engagement.InvalidTransitionError

		switch {
		case errors.As(err, &invalid):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
		case errors.Is(err, engagement.ErrConflict):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Bid status changed concurrently, please retry"})
		case errors.Is(err, engagement.ErrNoRole):
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		default:
			log.Printf("Failed to change status of bid %d: %v", bid.ID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	BroadcastBidUpdate(bid.ID, "status")

	ctx.JSON(http.StatusOK, gin.H{"message": "changed status", "success": true})
}

// PostBidMessage appends a chat message to the engagement's tracking log.
func (h *Handler) PostBidMessage(ctx *gin.Context) {
	bid, err := utils.GetBid(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req BidMessageRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Msg must be between 3 and 100 characters"})
		return
	}

	tracking, err := h.engagements.Record(ctx.Request.Context(), bid.ID, userID, req.Msg, models.TrackingMessage)

	if err != nil {
		log.Printf("Failed to record message on bid %d: %v", bid.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var user models.User

	if err := h.db.First(&user, userID).Error; err != nil {
		log.Printf("Failed to load user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	tracking.User = user

	BroadcastBidUpdate(bid.ID, "message")

	ctx.JSON(http.StatusOK, gin.H{
		"message": "message recorded",
		"data":    newTrackingResponse(*tracking),
	})
}
