package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openlance/openlance/internal/models"
	"github.com/openlance/openlance/internal/types"
	"github.com/openlance/openlance/internal/utils"
)

type CreateProjectRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description" binding:"required"`
	BudgetMin   *float64   `json:"budget_min"`
	BudgetMax   *float64   `json:"budget_max"`
	Deadline    *time.Time `json:"deadline"`
}

type UpdateProjectRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	BudgetMin   *float64   `json:"budget_min"`
	BudgetMax   *float64   `json:"budget_max"`
	Deadline    *time.Time `json:"deadline"`
}

type ProjectResponse struct {
	ID            uint                 `json:"id"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	BudgetMin     *float64             `json:"budget_min,omitempty"`
	BudgetMax     *float64             `json:"budget_max,omitempty"`
	Deadline      *time.Time           `json:"deadline,omitempty"`
	Status        models.ProjectStatus `json:"status"`
	OwnerID       uint                 `json:"owner_id"`
	SelectedBidID *uint                `json:"selected_bid_id,omitempty"`
	Owner         types.PublicUser     `json:"owner"`
	SelectedBid   *BidResponse         `json:"selected_bid,omitempty"`
	BidCount      int64                `json:"bid_count"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`

	// Populated only on the detail view, depending on the viewer's role.
	Bids    []BidResponse      `json:"bids,omitempty"`
	BidMsgs []TrackingResponse `json:"bid_msgs,omitempty"`
}

func newProjectResponse(project models.Project, bidCount int64) ProjectResponse {
	resp := ProjectResponse{
		ID:            project.ID,
		Title:         project.Title,
		Description:   project.Description,
		BudgetMin:     project.BudgetMin,
		BudgetMax:     project.BudgetMax,
		Deadline:      project.Deadline,
		Status:        project.Status,
		OwnerID:       project.OwnerID,
		SelectedBidID: project.SelectedBidID,
		Owner:         types.NewPublicUser(project.Owner),
		BidCount:      bidCount,
		CreatedAt:     project.CreatedAt,
		UpdatedAt:     project.UpdatedAt,
	}

	if project.SelectedBid != nil {
		bid := newBidResponse(*project.SelectedBid)
		resp.SelectedBid = &bid
	}

	return resp
}

func (h *Handler) CreateProject(ctx *gin.Context) {
	var req CreateProjectRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project := models.Project{
		Title:       req.Title,
		Description: req.Description,
		BudgetMin:   req.BudgetMin,
		BudgetMax:   req.BudgetMax,
		Deadline:    req.Deadline,
		Status:      models.ProjectPending,
		OwnerID:     userID,
	}

	if err := h.db.Create(&project).Error; err != nil {
		log.Printf("Failed to create project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Project created successfully",
		"project": newProjectResponse(project, 0),
	})
}

// ListProjects serves the tabbed project board. Anonymous callers see all
// pending projects; the tabs narrow by the caller's relation to each project.
func (h *Handler) ListProjects(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	authed := err == nil

	query := h.db.Model(&models.Project{}).
		Preload("Owner").
		Preload("SelectedBid").
		Preload("SelectedBid.Bidder").
		Order("projects.created_at DESC")

	tab := ctx.Query("tab")

	if !authed {
		tab = ""
	}

	switch tab {
	case "my_projects":
		query = query.Where("projects.owner_id = ?", userID)
	case "active_bids":
		query = query.
			Joins("JOIN bids ON bids.id = projects.selected_bid_id").
			Where("bids.bidder_id = ? AND projects.status <> ?", userID, models.ProjectPending)
	case "bids":
		query = query.Where(
			"projects.id IN (?)",
			h.db.Model(&models.Bid{}).Select("project_id").Where("bidder_id = ?", userID),
		)
	case "open_projects":
		query = query.Where(
			"projects.owner_id <> ? AND projects.status = ? AND projects.id NOT IN (?)",
			userID, models.ProjectPending,
			h.db.Model(&models.Bid{}).Select("project_id").Where("bidder_id = ?", userID),
		)
	default:
		query = query.Where("projects.status = ?", models.ProjectPending)
	}

	var projects []models.Project

	if err := query.Find(&projects).Error; err != nil {
		log.Printf("Failed to list projects: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	counts, err := h.bidCounts(ctx, projects)

	if err != nil {
		log.Printf("Failed to count bids: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	response := make([]ProjectResponse, 0, len(projects))

	for _, project := range projects {
		response = append(response, newProjectResponse(project, counts[project.ID]))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) bidCounts(ctx *gin.Context, projects []models.Project) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(projects))

	if len(projects) == 0 {
		return counts, nil
	}

	ids := make([]uint, 0, len(projects))

	for _, project := range projects {
		ids = append(ids, project.ID)
	}

	var rows []struct {
		ProjectID uint
		Total     int64
	}

	err := h.db.WithContext(ctx.Request.Context()).
		Model(&models.Bid{}).
		Select("project_id, COUNT(*) AS total").
		Where("project_id IN ?", ids).
		Group("project_id").
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.ProjectID] = row.Total
	}

	return counts, nil
}

// GetProject returns the detail view, shaped by the viewer's relation to the
// project: strangers never see the selected bid, the owner sees all bids
// while none is selected, engaged parties see the tracking history, and a
// prospective bidder sees only their own bid.
func (h *Handler) GetProject(ctx *gin.Context) {
	project, err := utils.GetProject(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
		return
	}

	userID, authErr := utils.GetCurrentUserID(ctx)
	authed := authErr == nil

	resp := newProjectResponse(project.Project, project.BidCount)

	isOwner := authed && project.OwnerID == userID
	isSelectedBidder := authed && project.SelectedBid != nil && project.SelectedBid.BidderID == userID

	if !isOwner && !isSelectedBidder {
		resp.SelectedBid = nil
	}

	if isOwner && project.SelectedBid == nil {
		bids, err := h.projectBids(ctx, project.ID, nil)
		if err != nil {
			log.Printf("Failed to load bids for project %d: %v", project.ID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
			return
		}
		resp.Bids = bids
	}

	if authed && !isOwner && project.SelectedBid == nil {
		bids, err := h.projectBids(ctx, project.ID, &userID)
		if err != nil {
			log.Printf("Failed to load bids for project %d: %v", project.ID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
			return
		}
		resp.Bids = bids
	}

	if project.SelectedBid != nil && (isOwner || isSelectedBidder) {
		trackings, err := h.engagements.History(ctx.Request.Context(), project.SelectedBid.ID)
		if err != nil {
			log.Printf("Failed to load tracking for bid %d: %v", project.SelectedBid.ID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
			return
		}
		resp.BidMsgs = newTrackingResponses(trackings)
	}

	ctx.JSON(http.StatusOK, resp)
}

func (h *Handler) projectBids(ctx *gin.Context, projectID uint, bidderID *uint) ([]BidResponse, error) {
	query := h.db.WithContext(ctx.Request.Context()).
		Preload("Bidder").
		Where("project_id = ?", projectID).
		Order("created_at DESC")

	if bidderID != nil {
		query = query.Where("bidder_id = ?", *bidderID)
	}

	var bids []models.Bid

	if err := query.Find(&bids).Error; err != nil {
		return nil, err
	}

	response := make([]BidResponse, 0, len(bids))

	for _, bid := range bids {
		response = append(response, newBidResponse(bid))
	}

	return response, nil
}

func (h *Handler) UpdateProject(ctx *gin.Context) {
	project, err := utils.GetProject(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
		return
	}

	var req UpdateProjectRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := make(map[string]interface{})

	if req.Title != nil {
		if *req.Title == "" {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Title cannot be empty"})
			return
		}
		updates["title"] = *req.Title
	}

	if req.Description != nil {
		if *req.Description == "" {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Description cannot be empty"})
			return
		}
		updates["description"] = *req.Description
	}

	if req.BudgetMin != nil {
		updates["budget_min"] = *req.BudgetMin
	}

	if req.BudgetMax != nil {
		updates["budget_max"] = *req.BudgetMax
	}

	if req.Deadline != nil {
		updates["deadline"] = *req.Deadline
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	if err := h.db.Model(&models.Project{}).Where("id = ?", project.ID).Updates(updates).Error; err != nil {
		log.Printf("Failed to update project %d: %v", project.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	refreshed, err := h.resources.LoadProject(ctx.Request.Context(), project.ID)

	if err != nil {
		log.Printf("Failed to reload project %d: %v", project.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Project updated successfully",
		"project": newProjectResponse(refreshed.Project, refreshed.BidCount),
	})
}

func (h *Handler) DeleteProject(ctx *gin.Context) {
	project, err := utils.GetProject(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
		return
	}

	if err := h.db.Delete(&models.Project{}, project.ID).Error; err != nil {
		log.Printf("Failed to delete project %d: %v", project.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}
