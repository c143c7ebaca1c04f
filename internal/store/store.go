package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/openlance/openlance/internal/models"
)

// ErrNotFound reports that the referenced project or bid does not exist,
// as distinct from an underlying storage failure.
var ErrNotFound = errors.New("not found")

// Store wraps the database handle for resource loading. It is constructed
// once at startup and injected into the guard and handlers.
type Store struct {
	db *gorm.DB
}

func New(gdb *gorm.DB) *Store {
	return &Store{db: gdb}
}

// DB exposes the underlying handle for components that run their own
// queries or transactions.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// ProjectGraph is a project joined with the minimal relational context
// needed for authorization and status transitions.
type ProjectGraph struct {
	models.Project
	BidCount int64
}

// LoadProject fetches a project with its owner, its selected bid (and that
// bid's bidder) and the number of bids placed on it, in a single read pass.
func (s *Store) LoadProject(ctx context.Context, id uint) (*ProjectGraph, error) {
	var project models.Project

	err := s.db.WithContext(ctx).
		Preload("Owner").
		Preload("SelectedBid").
		Preload("SelectedBid.Bidder").
		First(&project, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var bidCount int64

	err = s.db.WithContext(ctx).
		Model(&models.Bid{}).
		Where("project_id = ?", id).
		Count(&bidCount).Error

	if err != nil {
		return nil, err
	}

	return &ProjectGraph{Project: project, BidCount: bidCount}, nil
}

// LoadBid fetches a bid with its bidder and its project including the
// project's owner, which is everything the guard needs to decide whether the
// caller is the owner or the bidder.
func (s *Store) LoadBid(ctx context.Context, id uint) (*models.Bid, error) {
	var bid models.Bid

	err := s.db.WithContext(ctx).
		Preload("Bidder").
		Preload("Project").
		Preload("Project.Owner").
		First(&bid, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &bid, nil
}
