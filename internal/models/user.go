package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	Name         string `gorm:"not null"`
	Username     string `gorm:"uniqueIndex;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	ContactNo    string
	Bio          string
	PasswordHash string `gorm:"not null"`

	// Relationships
	OwnedProjects []Project `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Bids          []Bid     `gorm:"foreignKey:BidderID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
