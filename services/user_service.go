package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"secretsanta/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 6

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Create provisions an organizer account.
func (s *UserService) Create(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || len(req.Password) < minPasswordLength {
		return nil, ErrInvalidUserInput
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: hash,
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		user.Email = &email
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("User %d (%s) created", user.ID, user.Username)
	return &user, nil
}

// List returns every account, newest first.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// Delete removes an organizer together with their games and participants.
// Super admins cannot be deleted.
func (s *UserService) Delete(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.First(&user, userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
		if user.IsSuperAdmin {
			return ErrCannotDeleteSuperAdmin
		}

		gameIDs := tx.Model(&models.Game{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("game_id IN (?)", gameIDs).Delete(&models.Participant{}).Error; err != nil {
			return fmt.Errorf("failed to delete participants: %w", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Game{}).Error; err != nil {
			return fmt.Errorf("failed to delete games: %w", err)
		}
		if err := tx.Delete(&user).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}

		log.Printf("User %d (%s) deleted", user.ID, user.Username)
		return nil
	})
}

// EnsureSuperAdmin returns the account named username with super admin
// rights, creating it with password when it does not exist yet. Any non-empty
// password is accepted.
func (s *UserService) EnsureSuperAdmin(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidUserInput
	}

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("username = ?", username).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			hash, err := HashPassword(password)
			if err != nil {
				return err
			}
			user = models.User{
				Username:     username,
				PasswordHash: hash,
				IsSuperAdmin: true,
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("failed to create super admin: %w", err)
			}
			log.Printf("Super admin %q created", username)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}

		if !user.IsSuperAdmin {
			if err := tx.Model(&user).Update("is_super_admin", true).Error; err != nil {
				return fmt.Errorf("failed to promote user: %w", err)
			}
			log.Printf("User %q promoted to super admin", username)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}
