package models

import "time"

// LegacyParticipant is a row of the single-scope participants table that
// predates games. It is only read when folding that data into a game.
type LegacyParticipant struct {
	ID           uint `gorm:"primaryKey"`
	Name         string
	Slug         string
	AccessCode   string
	AssignedToID *uint
	CreatedAt    time.Time
}

func (LegacyParticipant) TableName() string {
	return "participants"
}

type LegacyGameState struct {
	ID       uint `gorm:"primaryKey"`
	IsActive bool
}

func (LegacyGameState) TableName() string {
	return "game_state"
}
