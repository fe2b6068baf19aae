package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"strings"

	"secretsanta/models"

	"gorm.io/gorm"
)

type RevealService struct {
	db *gorm.DB
}

func NewRevealService(db *gorm.DB) *RevealService {
	return &RevealService{db: db}
}

type RevealRequest struct {
	Code string `json:"code" binding:"required"`
}

type RevealResult struct {
	Name       string `json:"name"`
	AssignedTo string `json:"assigned_to"`
}

// Reveal tells a participant, identified by slug and proven by their access
// code, whom they give a present to. It never writes.
func (s *RevealService) Reveal(ctx context.Context, gameID uint, slug, code string) (*RevealResult, error) {
	db := s.db.WithContext(ctx)

	var participant models.Participant
	err := db.Where("game_id = ? AND slug = ?", gameID, slug).First(&participant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrParticipantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRevealFailed, err)
	}

	if subtle.ConstantTimeCompare([]byte(normalizeCode(code)), []byte(participant.AccessCode)) != 1 {
		return nil, ErrInvalidCode
	}

	if participant.AssignedToID == nil {
		return nil, ErrAssignmentNotReady
	}

	var target models.Participant
	if err := db.Where("id = ? AND game_id = ?", *participant.AssignedToID, gameID).First(&target).Error; err != nil {
		log.Printf("Reveal for participant %d: assigned target %d not loadable: %v", participant.ID, *participant.AssignedToID, err)
		return nil, ErrRevealFailed
	}

	return &RevealResult{
		Name:       participant.Name,
		AssignedTo: target.Name,
	}, nil
}

// RevealLegacy serves links handed out before games existed, which carry only
// the slug. They resolve inside the reserved legacy game.
func (s *RevealService) RevealLegacy(ctx context.Context, slug, code string) (*RevealResult, error) {
	var game models.Game
	err := s.db.WithContext(ctx).Where("is_legacy = ?", true).First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrParticipantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRevealFailed, err)
	}

	return s.Reveal(ctx, game.ID, slug, code)
}

// normalizeCode accepts codes pasted together with a label, such as
// "ana:K3X9QZ", and keeps the part after the first colon.
func normalizeCode(code string) string {
	parts := strings.Split(code, ":")
	if len(parts) > 1 && parts[1] != "" {
		return parts[1]
	}
	return code
}
