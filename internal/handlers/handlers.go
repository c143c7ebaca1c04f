package handlers

import (
	"gorm.io/gorm"

	"github.com/openlance/openlance/internal/engagement"
	"github.com/openlance/openlance/internal/store"
)

// Handler carries the injected dependencies for all HTTP handlers.
type Handler struct {
	db          *gorm.DB
	resources   *store.Store
	engagements *engagement.Service
}

func New(gdb *gorm.DB, resources *store.Store, engagements *engagement.Service) *Handler {
	return &Handler{
		db:          gdb,
		resources:   resources,
		engagements: engagements,
	}
}
