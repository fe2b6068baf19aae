package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"secretsanta/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GameService struct {
	db       *gorm.DB
	links    *ShareLinks
	notifier Notifier
}

func NewGameService(db *gorm.DB, links *ShareLinks, notifier Notifier) *GameService {
	return &GameService{
		db:       db,
		links:    links,
		notifier: notifierOrNop(notifier),
	}
}

type CreateGameRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type GameSummary struct {
	models.Game
	ParticipantCount int64 `json:"participant_count"`
}

// ParticipantView is what the organizer sees of a participant. The recipient
// stays hidden; only whether one has been drawn is shown.
type ParticipantView struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	AccessCode string    `json:"access_code"`
	Assigned   bool      `json:"assigned"`
	ShareURL   string    `json:"share_url"`
	CreatedAt  time.Time `json:"created_at"`
}

type GameDetail struct {
	Game         models.Game       `json:"game"`
	Participants []ParticipantView `json:"participants"`
}

func (s *GameService) Create(ctx context.Context, ownerID uint, req *CreateGameRequest) (*models.Game, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyGameName
	}

	game := models.Game{
		UserID: ownerID,
		Name:   name,
	}
	if desc := strings.TrimSpace(req.Description); desc != "" {
		game.Description = &desc
	}

	if err := s.db.WithContext(ctx).Create(&game).Error; err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	return &game, nil
}

// List returns the owner's games, newest first, with their participant counts.
func (s *GameService) List(ctx context.Context, ownerID uint) ([]GameSummary, error) {
	db := s.db.WithContext(ctx)

	var games []models.Game
	if err := db.Where("user_id = ?", ownerID).Order("created_at DESC, id DESC").Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	summaries := make([]GameSummary, 0, len(games))
	if len(games) == 0 {
		return summaries, nil
	}

	ids := make([]uint, len(games))
	for i, g := range games {
		ids[i] = g.ID
	}

	var counts []struct {
		GameID uint
		Count  int64
	}
	if err := db.Model(&models.Participant{}).
		Select("game_id, COUNT(*) AS count").
		Where("game_id IN ?", ids).
		Group("game_id").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count participants: %w", err)
	}

	byGame := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byGame[c.GameID] = c.Count
	}

	for _, g := range games {
		summaries = append(summaries, GameSummary{Game: g, ParticipantCount: byGame[g.ID]})
	}

	return summaries, nil
}

func (s *GameService) Get(ctx context.Context, ownerID, gameID uint) (*GameDetail, error) {
	db := s.db.WithContext(ctx)

	game, err := findOwnedGame(db, ownerID, gameID)
	if err != nil {
		return nil, err
	}

	var participants []models.Participant
	if err := db.Where("game_id = ?", gameID).Order("created_at, id").Find(&participants).Error; err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}

	detail := &GameDetail{
		Game:         *game,
		Participants: make([]ParticipantView, 0, len(participants)),
	}
	for i := range participants {
		detail.Participants = append(detail.Participants, s.view(&participants[i]))
	}

	return detail, nil
}

// Delete removes a game and all of its participants.
func (s *GameService) Delete(ctx context.Context, ownerID, gameID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findOwnedGame(tx, ownerID, gameID); err != nil {
			return err
		}
		if err := tx.Where("game_id = ?", gameID).Delete(&models.Participant{}).Error; err != nil {
			return fmt.Errorf("failed to delete participants: %w", err)
		}
		if err := tx.Delete(&models.Game{}, gameID).Error; err != nil {
			return fmt.Errorf("failed to delete game: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notifier.GameChanged(gameID, EventDeleted, nil)
	return nil
}

// CheckOwnership reports ErrGameNotFound both for missing games and for games
// owned by someone else.
func (s *GameService) CheckOwnership(ctx context.Context, ownerID, gameID uint) error {
	_, err := findOwnedGame(s.db.WithContext(ctx), ownerID, gameID)
	return err
}

func (s *GameService) view(p *models.Participant) ParticipantView {
	v := ParticipantView{
		ID:         p.ID,
		Name:       p.Name,
		Slug:       p.Slug,
		AccessCode: p.AccessCode,
		Assigned:   p.Assigned(),
		CreatedAt:  p.CreatedAt,
	}
	if s.links != nil {
		v.ShareURL = s.links.ParticipantURL(p.GameID, p.Slug)
	}
	return v
}

// lockOwnedGame is findOwnedGame taking a row lock, so mutations of one game's
// participants inside transactions run one after another. SQLite ignores the
// lock; its single writer already serializes them.
func lockOwnedGame(tx *gorm.DB, ownerID, gameID uint) (*models.Game, error) {
	return findOwnedGame(tx.Clauses(clause.Locking{Strength: "UPDATE"}), ownerID, gameID)
}

func findOwnedGame(db *gorm.DB, ownerID, gameID uint) (*models.Game, error) {
	var game models.Game
	err := db.Where("id = ? AND user_id = ?", gameID, ownerID).First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	return &game, nil
}
