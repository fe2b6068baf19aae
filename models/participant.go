package models

import (
	"time"
)

type Participant struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	GameID       uint      `json:"game_id" gorm:"not null;uniqueIndex:idx_game_participant_name;uniqueIndex:idx_game_participant_slug"`
	Name         string    `json:"name" gorm:"not null;uniqueIndex:idx_game_participant_name"`
	Slug         string    `json:"slug" gorm:"not null;uniqueIndex:idx_game_participant_slug"`
	AccessCode   string    `json:"access_code" gorm:"not null;size:6"`
	AssignedToID *uint     `json:"-" gorm:"index"`
	CreatedAt    time.Time `json:"created_at"`

	// Relationships
	AssignedTo *Participant `json:"-" gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL"`
}

func (Participant) TableName() string {
	return "game_participants"
}

func (p *Participant) Assigned() bool {
	return p.AssignedToID != nil
}
