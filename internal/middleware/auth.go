package middleware

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/openlance/openlance/internal/auth"
	"github.com/openlance/openlance/internal/models"
	"github.com/openlance/openlance/internal/store"
	"github.com/openlance/openlance/internal/types"
)

// Guard authenticates the caller and, when the route references a project or
// bid, loads the resource graph, fixes the caller's role relative to it and
// attaches both to the request context. Authorization here is resource-shape
// dependent (a bid's permissions hinge on its parent project's owner), so the
// guard joins the minimum graph needed in a single read instead of leaving
// each handler to re-query.
func Guard(resources *store.Store, allowed ...types.Capability) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, authed := resolveUserID(ctx)

		if !authed && !admits(allowed, types.CapAll) {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Login / Register"})
			return
		}

		if authed {
			ctx.Set(types.ContextUserKey, userID)
		}

		if raw := ctx.Param("project_id"); raw != "" {
			if !guardProject(ctx, resources, raw, userID, authed, allowed) {
				return
			}
		}

		if raw := ctx.Param("bid_id"); raw != "" {
			if !guardBid(ctx, resources, raw, userID, authed, allowed) {
				return
			}
		}

		ctx.Next()
	}
}

// RequireAuth is the strict variant: verification failure is fatal for the
// request. It does not load any resource.
func RequireAuth(resources *store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, authed := resolveUserID(ctx)

		if !authed {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
			return
		}

		var user models.User

		if err := resources.DB().First(&user, userID).Error; err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		ctx.Set(types.ContextUserKey, userID)
		ctx.Next()
	}
}

// resolveUserID is the lenient identity resolver: a missing, malformed or
// expired credential yields anonymous, never an error. Only the guard decides
// whether anonymity is acceptable for the route.
func resolveUserID(ctx *gin.Context) (uint, bool) {
	header := ""

	if cookie, err := ctx.Cookie(types.AuthCookieName); err == nil && cookie != "" {
		header = cookie
	} else {
		header = ctx.GetHeader("Authorization")
	}

	if header == "" {
		return 0, false
	}

	parts := strings.SplitN(header, " ", 2)

	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false
	}

	token, err := auth.VerifyJWT(parts[1])

	if err != nil {
		return 0, false
	}

	userID, err := auth.UserIDFromToken(token)

	if err != nil {
		return 0, false
	}

	return userID, true
}

func guardProject(ctx *gin.Context, resources *store.Store, raw string, userID uint, authed bool, allowed []types.Capability) bool {
	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return false
	}

	project, err := resources.LoadProject(ctx.Request.Context(), uint(id))

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not Found"})
		} else {
			log.Printf("Failed to load project %d: %v", id, err)
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		}
		return false
	}

	role := projectRole(project, userID, authed, allowed)

	if role == types.RoleUnspecified && !admits(allowed, types.CapAll) && !admits(allowed, types.CapUser) {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access denied"})
		return false
	}

	ctx.Set(types.ContextProjectKey, project)
	ctx.Set(types.ContextRoleKey, role)
	return true
}

func guardBid(ctx *gin.Context, resources *store.Store, raw string, userID uint, authed bool, allowed []types.Capability) bool {
	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid bid ID"})
		return false
	}

	bid, err := resources.LoadBid(ctx.Request.Context(), uint(id))

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not Found"})
		} else {
			log.Printf("Failed to load bid %d: %v", id, err)
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		}
		return false
	}

	role := bidRole(bid, userID, authed, allowed)

	if role == types.RoleUnspecified && !admits(allowed, types.CapAll) && !admits(allowed, types.CapUser) {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access denied"})
		return false
	}

	ctx.Set(types.ContextBidKey, bid)
	ctx.Set(types.ContextRoleKey, role)
	return true
}

func projectRole(project *store.ProjectGraph, userID uint, authed bool, allowed []types.Capability) types.Role {
	if !authed {
		return types.RoleUnspecified
	}
	if admits(allowed, types.CapOwner) && project.OwnerID == userID {
		return types.RoleOwner
	}
	if admits(allowed, types.CapBidder) && project.SelectedBid != nil && project.SelectedBid.BidderID == userID {
		return types.RoleBidder
	}
	return types.RoleUnspecified
}

func bidRole(bid *models.Bid, userID uint, authed bool, allowed []types.Capability) types.Role {
	if !authed {
		return types.RoleUnspecified
	}
	if admits(allowed, types.CapOwner) && bid.Project.OwnerID == userID {
		return types.RoleOwner
	}
	if admits(allowed, types.CapBidder) && bid.BidderID == userID {
		return types.RoleBidder
	}
	return types.RoleUnspecified
}

func admits(allowed []types.Capability, c types.Capability) bool {
	for _, a := range allowed {
		if a == c {
			return true
		}
	}
	return false
}
