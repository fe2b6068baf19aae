package models

import (
	"time"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Email        *string   `json:"email"`
	IsSuperAdmin bool      `json:"is_super_admin" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	Games []Game `json:"games,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
