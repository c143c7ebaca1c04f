package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/openlance/openlance/internal/handlers"
	"github.com/openlance/openlance/internal/middleware"
	"github.com/openlance/openlance/internal/store"
	"github.com/openlance/openlance/internal/types"
)

func NewRouter(h *handlers.Handler, resources *store.Store) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
			auth.GET("/me", middleware.RequireAuth(resources), h.Me)
			auth.POST("/logout", h.Logout)
		}

		projects := api.Group("/projects")
		{
			projects.GET("", middleware.Guard(resources, types.CapAll), h.ListProjects)
			projects.POST("", middleware.Guard(resources, types.CapUser), h.CreateProject)
			projects.GET("/:project_id", middleware.Guard(resources, types.CapAll, types.CapOwner, types.CapBidder), h.GetProject)
			projects.PUT("/:project_id", middleware.Guard(resources, types.CapOwner), h.UpdateProject)
			projects.DELETE("/:project_id", middleware.Guard(resources, types.CapOwner), h.DeleteProject)
		}

		bids := api.Group("/bids")
		{
			bids.GET("", middleware.Guard(resources, types.CapUser), h.ListMyBids)
			bids.POST("", middleware.Guard(resources, types.CapUser), h.CreateBid)
			bids.GET("/:bid_id", middleware.Guard(resources, types.CapOwner, types.CapBidder), h.GetBid)
			bids.PUT("/:bid_id", middleware.Guard(resources, types.CapBidder), h.UpdateBid)
			bids.DELETE("/:bid_id", middleware.Guard(resources, types.CapBidder), h.DeleteBid)
			bids.POST("/change-status/:bid_id", middleware.Guard(resources, types.CapBidder, types.CapOwner), h.ChangeBidStatus)
			bids.POST("/msg/:bid_id", middleware.Guard(resources, types.CapBidder, types.CapOwner), h.PostBidMessage)
		}

		api.GET("/ws/bids/:bid_id", middleware.Guard(resources, types.CapOwner, types.CapBidder), h.BidFeed)
	}

	return r
}
