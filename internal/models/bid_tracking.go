package models

import "time"

// BidTracking is the append-only audit log of an engagement: every status
// change and every chat message on a bid lands here. Rows are never updated
// or deleted, so there is no gorm.Model with UpdatedAt/DeletedAt.
type BidTracking struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`

	BidID   uint         `gorm:"not null;index"`
	UserID  uint         `gorm:"not null;index"`
	Message string
	Type    TrackingType `gorm:"type:varchar(16);not null"`

	// Relationships
	Bid  Bid  `gorm:"foreignKey:BidID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
