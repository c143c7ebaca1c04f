package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/openlance/openlance/internal/models"
	"github.com/openlance/openlance/internal/store"
	"github.com/openlance/openlance/internal/types"
)

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	value, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return 0, fmt.Errorf("user not authenticated")
	}

	userID, ok := value.(uint)

	if !ok {
		return 0, fmt.Errorf("invalid user type in context")
	}

	return userID, nil
}

// GetRole returns the caller's role relative to the loaded resource, as
// fixed by the guard. Routes without a project/bid parameter have no role.
func GetRole(ctx *gin.Context) types.Role {
	value, exists := ctx.Get(types.ContextRoleKey)

	if !exists {
		return types.RoleUnspecified
	}

	role, ok := value.(types.Role)

	if !ok {
		return types.RoleUnspecified
	}

	return role
}

func GetProject(ctx *gin.Context) (*store.ProjectGraph, error) {
	value, exists := ctx.Get(types.ContextProjectKey)

	if !exists {
		return nil, fmt.Errorf("project not loaded")
	}

	project, ok := value.(*store.ProjectGraph)

	if !ok {
		return nil, fmt.Errorf("invalid project type in context")
	}

	return project, nil
}

func GetBid(ctx *gin.Context) (*models.Bid, error) {
	value, exists := ctx.Get(types.ContextBidKey)

	if !exists {
		return nil, fmt.Errorf("bid not loaded")
	}

	bid, ok := value.(*models.Bid)

	if !ok {
		return nil, fmt.Errorf("invalid bid type in context")
	}

	return bid, nil
}
