package models

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	gorm.Model

	Title       string `gorm:"not null"`
	Description string `gorm:"not null"`
	BudgetMin   *float64
	BudgetMax   *float64
	Deadline    *time.Time
	Status      ProjectStatus `gorm:"type:varchar(16);not null;default:'PENDING';index"`
	OwnerID     uint          `gorm:"not null;index"`

	// SelectedBidID is a weak reference: at most one bid chosen to fulfill
	// the project, and it must belong to this project.
	SelectedBidID *uint

	// Relationships
	Owner       User  `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	SelectedBid *Bid  `gorm:"foreignKey:SelectedBidID"`
	Bids        []Bid `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
