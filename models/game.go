package models

import (
	"time"
)

// Game is one independent exchange owned by an organizer. IsActive is true
// only while every participant holds an assignment from the latest draw.
type Game struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"not null"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"is_active" gorm:"not null;default:false"`
	IsLegacy    bool      `json:"is_legacy" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Participants []Participant `json:"participants,omitempty" gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE"`
}
