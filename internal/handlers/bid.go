package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openlance/openlance/internal/models"
	"github.com/openlance/openlance/internal/types"
	"github.com/openlance/openlance/internal/utils"
)

type CreateBidRequest struct {
	ProjectID     uint    `json:"project_id" binding:"required"`
	EstimatedTime int     `json:"estimated_time" binding:"required,min=1"`
	Quote         float64 `json:"quote" binding:"required,gt=0"`
	Message       string  `json:"message"`
}

type UpdateBidRequest struct {
	EstimatedTime *int     `json:"estimated_time" binding:"omitempty,min=1"`
	Quote         *float64 `json:"quote" binding:"omitempty,gt=0"`
	Message       *string  `json:"message"`
}

type BidResponse struct {
	ID             uint              `json:"id"`
	BidderID       uint              `json:"bidder_id"`
	ProjectID      uint              `json:"project_id"`
	EstimatedTime  int               `json:"estimated_time"`
	Quote          float64           `json:"quote"`
	Message        string            `json:"message,omitempty"`
	BidderStatus   models.BidStatus  `json:"bidder_status"`
	CustomerStatus models.BidStatus  `json:"customer_status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Bidder         *types.PublicUser `json:"bidder,omitempty"`
	Project        *ProjectResponse  `json:"project,omitempty"`
}

func newBidResponse(bid models.Bid) BidResponse {
	resp := BidResponse{
		ID:             bid.ID,
		BidderID:       bid.BidderID,
		ProjectID:      bid.ProjectID,
		EstimatedTime:  bid.EstimatedTime,
		Quote:          bid.Quote,
		Message:        bid.Message,
		BidderStatus:   bid.BidderStatus,
		CustomerStatus: bid.CustomerStatus,
		CreatedAt:      bid.CreatedAt,
		UpdatedAt:      bid.UpdatedAt,
	}

	if bid.Bidder.ID != 0 {
		bidder := types.NewPublicUser(bid.Bidder)
		resp.Bidder = &bidder
	}

	if bid.Project.ID != 0 {
		project := newProjectResponse(bid.Project, 0)
		resp.Project = &project
	}

	return resp
}

// ListMyBids returns every bid the caller participates in, either as the
// bidder or as the owner of the bid's project.
func (h *Handler) ListMyBids(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var bids []models.Bid

	err = h.db.
		Preload("Bidder").
		Preload("Project").
		Preload("Project.Owner").
		Where(
			"bidder_id = ? OR project_id IN (?)",
			userID,
			h.db.Model(&models.Project{}).Select("id").Where("owner_id = ?", userID),
		).
		Order("created_at DESC").
		Find(&bids).Error

	if err != nil {
		log.Printf("Failed to list bids for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve bids"})
		return
	}

	response := make([]BidResponse, 0, len(bids))

	for _, bid := range bids {
		response = append(response, newBidResponse(bid))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) CreateBid(ctx *gin.Context) {
	var req CreateBidRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var project models.Project

	if err := h.db.First(&project, req.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			log.Printf("Failed to load project %d: %v", req.ProjectID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if project.OwnerID == userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Project owner cannot bid on their own project"})
		return
	}

	if project.Status == models.ProjectCompleted || project.Status == models.ProjectCancelled {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Cannot bid on a project with status: %s", project.Status)})
		return
	}

	var existing models.Bid

	err = h.db.Where("bidder_id = ? AND project_id = ?", userID, project.ID).First(&existing).Error

	if err == nil {
		ctx.JSON(http.StatusConflict, gin.H{"error": "You have already placed a bid on this project"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to check existing bid: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	bid := models.Bid{
		BidderID:       userID,
		ProjectID:      project.ID,
		EstimatedTime:  req.EstimatedTime,
		Quote:          req.Quote,
		Message:        req.Message,
		BidderStatus:   models.BidInProgress,
		CustomerStatus: models.BidPending,
	}

	if err := h.db.Create(&bid).Error; err != nil {
		log.Printf("Failed to create bid: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bid"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Bid created successfully",
		"bid":     newBidResponse(bid),
	})
}

func (h *Handler) GetBid(ctx *gin.Context) {
	bid, err := utils.GetBid(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
		return
	}

	ctx.JSON(http.StatusOK, newBidResponse(*bid))
}

func (h *Handler) UpdateBid(ctx *gin.Context) {
	bid, err := utils.GetBid(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
		return
	}

	// Once the owner has acted on the bid, its terms are frozen.
	if bid.CustomerStatus != models.BidPending {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Cannot update bid, customer status is %s", bid.CustomerStatus)})
		return
	}

	var req UpdateBidRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := make(map[string]interface{})

	if req.EstimatedTime != nil {
		updates["estimated_time"] = *req.EstimatedTime
	}

	if req.Quote != nil {
		updates["quote"] = *req.Quote
	}

	if req.Message != nil {
		updates["message"] = *req.Message
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	if err := h.db.Model(&models.Bid{}).Where("id = ?", bid.ID).Updates(updates).Error; err != nil {
		log.Printf("Failed to update bid %d: %v", bid.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bid"})
		return
	}

	refreshed, err := h.resources.LoadBid(ctx.Request.Context(), bid.ID)

	if err != nil {
		log.Printf("Failed to reload bid %d: %v", bid.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bid"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Bid updated successfully",
		"bid":     newBidResponse(*refreshed),
	})
}

func (h *Handler) DeleteBid(ctx *gin.Context) {
	bid, err := utils.GetBid(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
		return
	}

	if bid.CustomerStatus != models.BidPending {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Cannot delete bid, customer status is %s", bid.CustomerStatus)})
		return
	}

	if err := h.db.Delete(&models.Bid{}, bid.ID).Error; err != nil {
		log.Printf("Failed to delete bid %d: %v", bid.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete bid"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Bid deleted successfully"})
}
