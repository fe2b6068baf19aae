package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"

	"secretsanta/models"

	"gorm.io/gorm"
)

type AuthService struct {
	db            *gorm.DB
	users         *UserService
	adminUser     string
	adminPassword string
}

func NewAuthService(db *gorm.DB, users *UserService, adminUser, adminPassword string) *AuthService {
	return &AuthService{
		db:            db,
		users:         users,
		adminUser:     adminUser,
		adminPassword: adminPassword,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SessionGrant is the outcome of a successful login. Bootstrap grants come
// from the environment admin credentials and get a shorter session.
type SessionGrant struct {
	UserID       uint `json:"user_id"`
	IsSuperAdmin bool `json:"is_super_admin"`
	Bootstrap    bool `json:"-"`
}

// Login checks the stored credentials first and then the ADMIN_USER and
// ADMIN_PASSWORD pair from the environment.
func (s *AuthService) Login(ctx context.Context, username, password string) (*SessionGrant, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	switch {
	case err == nil:
		if CheckPassword(user.PasswordHash, password) {
			return &SessionGrant{UserID: user.ID, IsSuperAdmin: user.IsSuperAdmin}, nil
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !s.matchesBootstrapAdmin(username, password) {
		return nil, ErrInvalidCredentials
	}

	admin, err := s.users.EnsureSuperAdmin(ctx, username, password)
	if err != nil {
		return nil, err
	}

	log.Printf("Bootstrap admin login for %q", username)
	return &SessionGrant{UserID: admin.ID, IsSuperAdmin: true, Bootstrap: true}, nil
}

func (s *AuthService) matchesBootstrapAdmin(username, password string) bool {
	if s.adminUser == "" || s.adminPassword == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) == 1
	return userOK && passOK
}
