package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"secretsanta/models"

	"gorm.io/gorm"
)

// LegacyMigrator moves the participants of the single-scope schema into a
// reserved game so that the old reveal links keep working.
type LegacyMigrator struct {
	db       *gorm.DB
	users    *UserService
	owner    string
	password string
	gameName string
}

func NewLegacyMigrator(db *gorm.DB, users *UserService, owner, password, gameName string) *LegacyMigrator {
	if gameName == "" {
		gameName = "Amigo Invisible"
	}
	return &LegacyMigrator{
		db:       db,
		users:    users,
		owner:    owner,
		password: password,
		gameName: gameName,
	}
}

type LegacyMigration struct {
	Game         *models.Game
	Participants int
	Migrated     bool
}

// Migrate copies the legacy participants, their pairs and the active flag
// into a new legacy game owned by the bootstrap super admin. Running it again
// once that game exists changes nothing.
func (m *LegacyMigrator) Migrate(ctx context.Context) (*LegacyMigration, error) {
	db := m.db.WithContext(ctx)

	if !db.Migrator().HasTable(&models.LegacyParticipant{}) {
		log.Printf("No legacy participants table, nothing to migrate")
		return &LegacyMigration{}, nil
	}

	var existing models.Game
	err := db.Where("is_legacy = ?", true).First(&existing).Error
	if err == nil {
		log.Printf("Legacy game %d already exists, skipping migration", existing.ID)
		return &LegacyMigration{Game: &existing}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up legacy game: %w", err)
	}

	owner, err := m.users.EnsureSuperAdmin(ctx, m.owner, m.password)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve legacy game owner: %w", err)
	}

	active := false
	if db.Migrator().HasTable(&models.LegacyGameState{}) {
		var state models.LegacyGameState
		if err := db.Order("id").Limit(1).Find(&state).Error; err != nil {
			return nil, fmt.Errorf("failed to read legacy game state: %w", err)
		}
		active = state.IsActive
	}

	result := &LegacyMigration{Migrated: true}
	err = db.Transaction(func(tx *gorm.DB) error {
		var legacy []models.LegacyParticipant
		if err := tx.Order("id").Find(&legacy).Error; err != nil {
			return fmt.Errorf("failed to read legacy participants: %w", err)
		}

		game := models.Game{
			UserID:   owner.ID,
			Name:     m.gameName,
			IsLegacy: true,
		}
		if err := tx.Create(&game).Error; err != nil {
			return fmt.Errorf("failed to create legacy game: %w", err)
		}

		newIDs := make(map[uint]uint, len(legacy))
		for _, lp := range legacy {
			p := models.Participant{
				GameID:     game.ID,
				Name:       lp.Name,
				Slug:       lp.Slug,
				AccessCode: lp.AccessCode,
				CreatedAt:  lp.CreatedAt,
			}
			if err := tx.Create(&p).Error; err != nil {
				return fmt.Errorf("failed to copy participant %d: %w", lp.ID, err)
			}
			newIDs[lp.ID] = p.ID
		}

		allAssigned := len(legacy) > 0
		for _, lp := range legacy {
			if lp.AssignedToID == nil {
				allAssigned = false
				continue
			}
			target, ok := newIDs[*lp.AssignedToID]
			if !ok || *lp.AssignedToID == lp.ID {
				allAssigned = false
				continue
			}
			if err := tx.Model(&models.Participant{}).Where("id = ?", newIDs[lp.ID]).Update("assigned_to_id", target).Error; err != nil {
				return fmt.Errorf("failed to copy assignment of participant %d: %w", lp.ID, err)
			}
		}

		// A round with missing pairs cannot be active.
		if active && allAssigned {
			if err := tx.Model(&game).Update("is_active", true).Error; err != nil {
				return fmt.Errorf("failed to activate legacy game: %w", err)
			}
			game.IsActive = true
		}

		result.Game = &game
		result.Participants = len(legacy)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Migrated %d legacy participants into game %d", result.Participants, result.Game.ID)
	return result, nil
}
