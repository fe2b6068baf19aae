package services

import (
	"context"
	"fmt"
	"log"

	"secretsanta/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	assignmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "secretsanta_assignments_total",
			Help: "Total number of draws by result",
		},
		[]string{"result"},
	)

	assignmentAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "secretsanta_assignment_attempts",
			Help:    "Shuffles needed to find a valid draw",
			Buckets: []float64{1, 2, 3, 5, 10, 25, 100, 1000},
		},
	)
)

type AssignmentService struct {
	db       *gorm.DB
	deranger *Deranger
	notifier Notifier
}

func NewAssignmentService(db *gorm.DB, deranger *Deranger, notifier Notifier) *AssignmentService {
	if deranger == nil {
		deranger = NewDeranger(DefaultMaxAttempts)
	}
	return &AssignmentService{
		db:       db,
		deranger: deranger,
		notifier: notifierOrNop(notifier),
	}
}

// Assign draws a new round for every participant of the game and marks it
// active. Either all pairs and the flag are stored or nothing is.
func (s *AssignmentService) Assign(ctx context.Context, ownerID, gameID uint) error {
	var count int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockOwnedGame(tx, ownerID, gameID); err != nil {
			return err
		}

		var ids []uint
		if err := tx.Model(&models.Participant{}).Where("game_id = ?", gameID).Order("id").Pluck("id", &ids).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrAssignmentPersistence, err)
		}

		pairs, attempts, err := s.deranger.Derange(ids)
		if err != nil {
			return err
		}
		assignmentAttempts.Observe(float64(attempts))

		for giver, recipient := range pairs {
			if err := tx.Model(&models.Participant{}).
				Where("id = ? AND game_id = ?", giver, gameID).
				Update("assigned_to_id", recipient).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrAssignmentPersistence, err)
			}
		}

		if err := tx.Model(&models.Game{}).Where("id = ?", gameID).Update("is_active", true).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrAssignmentPersistence, err)
		}

		count = len(pairs)
		return nil
	})
	if err != nil {
		if appErr, ok := AsAppError(err); ok {
			assignmentsTotal.WithLabelValues(appErr.Code).Inc()
			return err
		}
		// Commit failures surface here without an AppError in the chain.
		assignmentsTotal.WithLabelValues(ErrAssignmentPersistence.Code).Inc()
		return fmt.Errorf("%w: %v", ErrAssignmentPersistence, err)
	}

	assignmentsTotal.WithLabelValues("ok").Inc()
	log.Printf("Assigned %d participants in game %d", count, gameID)

	s.notifier.GameChanged(gameID, EventAssigned, map[string]int{"participants": count})
	return nil
}

// Reset forgets every pair of the game and marks it inactive. Participants
// are kept.
func (s *AssignmentService) Reset(ctx context.Context, ownerID, gameID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockOwnedGame(tx, ownerID, gameID); err != nil {
			return err
		}
		if err := tx.Model(&models.Participant{}).
			Where("game_id = ?", gameID).
			Update("assigned_to_id", gorm.Expr("NULL")).Error; err != nil {
			return fmt.Errorf("failed to reset assignments: %w", err)
		}
		if err := tx.Model(&models.Game{}).Where("id = ?", gameID).Update("is_active", false).Error; err != nil {
			return fmt.Errorf("failed to deactivate game: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notifier.GameChanged(gameID, EventReset, nil)
	return nil
}
