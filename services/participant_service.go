package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"secretsanta/models"

	"gorm.io/gorm"
)

type ParticipantService struct {
	db       *gorm.DB
	games    *GameService
	links    *ShareLinks
	notifier Notifier
}

func NewParticipantService(db *gorm.DB, games *GameService, links *ShareLinks, notifier Notifier) *ParticipantService {
	return &ParticipantService{
		db:       db,
		games:    games,
		links:    links,
		notifier: notifierOrNop(notifier),
	}
}

type AddParticipantRequest struct {
	Name string `json:"name"`
}

// Add registers a participant in a game that has not been drawn yet. The
// lock check and the insert share a transaction with the draw's reads.
func (s *ParticipantService) Add(ctx context.Context, ownerID, gameID uint, rawName string) (*ParticipantView, error) {
	name := strings.TrimSpace(rawName)
	slug := Slugify(name)

	var participant models.Participant
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game, err := lockOwnedGame(tx, ownerID, gameID)
		if err != nil {
			return err
		}

		if name == "" || slug == "" {
			return ErrEmptyName
		}
		if game.IsActive {
			return ErrGameLocked
		}

		code, err := GenerateAccessCode()
		if err != nil {
			return err
		}

		participant = models.Participant{
			GameID:     gameID,
			Name:       name,
			Slug:       slug,
			AccessCode: code,
		}
		if err := tx.Create(&participant).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateName
			}
			return fmt.Errorf("failed to add participant: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Participant %d (%s) added to game %d", participant.ID, participant.Slug, gameID)

	view := s.games.view(&participant)
	s.notifier.GameChanged(gameID, EventParticipantAdded, view)
	return &view, nil
}

// Remove deletes a participant. Anyone who was giving to them loses their
// assignment, so a drawn game goes back to inactive.
func (s *ParticipantService) Remove(ctx context.Context, ownerID, gameID, participantID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game, err := lockOwnedGame(tx, ownerID, gameID)
		if err != nil {
			return err
		}

		var participant models.Participant
		err = tx.Where("id = ? AND game_id = ?", participantID, gameID).First(&participant).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrParticipantNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load participant: %w", err)
		}

		if err := tx.Model(&models.Participant{}).
			Where("game_id = ? AND assigned_to_id = ?", gameID, participantID).
			Update("assigned_to_id", gorm.Expr("NULL")).Error; err != nil {
			return fmt.Errorf("failed to clear references: %w", err)
		}

		if err := tx.Delete(&participant).Error; err != nil {
			return fmt.Errorf("failed to delete participant: %w", err)
		}

		if game.IsActive {
			if err := tx.Model(&models.Game{}).Where("id = ?", gameID).Update("is_active", false).Error; err != nil {
				return fmt.Errorf("failed to deactivate game: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notifier.GameChanged(gameID, EventParticipantRemoved, map[string]uint{"id": participantID})
	return nil
}

// Clear deletes every participant of a game and deactivates it.
func (s *ParticipantService) Clear(ctx context.Context, ownerID, gameID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockOwnedGame(tx, ownerID, gameID); err != nil {
			return err
		}
		if err := tx.Model(&models.Participant{}).
			Where("game_id = ?", gameID).
			Update("assigned_to_id", gorm.Expr("NULL")).Error; err != nil {
			return fmt.Errorf("failed to clear assignments: %w", err)
		}
		if err := tx.Where("game_id = ?", gameID).Delete(&models.Participant{}).Error; err != nil {
			return fmt.Errorf("failed to delete participants: %w", err)
		}
		if err := tx.Model(&models.Game{}).Where("id = ?", gameID).Update("is_active", false).Error; err != nil {
			return fmt.Errorf("failed to deactivate game: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notifier.GameChanged(gameID, EventCleared, nil)
	return nil
}

// QRCode renders the share link of one participant as a PNG.
func (s *ParticipantService) QRCode(ctx context.Context, ownerID, gameID, participantID uint, size int) ([]byte, error) {
	db := s.db.WithContext(ctx)

	if _, err := findOwnedGame(db, ownerID, gameID); err != nil {
		return nil, err
	}

	var participant models.Participant
	err := db.Where("id = ? AND game_id = ?", participantID, gameID).First(&participant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrParticipantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load participant: %w", err)
	}

	return s.links.QRCode(s.links.ParticipantURL(gameID, participant.Slug), size)
}
