package models

import "gorm.io/gorm"

type Bid struct {
	gorm.Model

	BidderID       uint      `gorm:"not null;uniqueIndex:idx_bidder_project"`
	ProjectID      uint      `gorm:"not null;uniqueIndex:idx_bidder_project"`
	EstimatedTime  int       `gorm:"not null"` // days
	Quote          float64   `gorm:"not null"`
	Message        string
	BidderStatus   BidStatus `gorm:"type:varchar(16);not null;default:'PENDING'"`
	CustomerStatus BidStatus `gorm:"type:varchar(16);not null;default:'PENDING'"`

	// Relationships
	Bidder    User          `gorm:"foreignKey:BidderID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Project   Project       `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Trackings []BidTracking `gorm:"foreignKey:BidID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
