package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"secretsanta/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SessionCookie = "user_session"
	UserIDCookie  = "user_id"

	UserSessionTTL      = 7 * 24 * time.Hour
	BootstrapSessionTTL = 24 * time.Hour

	SessionModeLegacy = "legacy"
	SessionModeSigned = "signed"
)

// SessionManager keeps the logged in organizer in two cookies: a session
// token and the user id.
//
// In legacy mode the token is a random uuid and only its presence is checked,
// so anyone able to set a user_id cookie can act as that user. Signed mode
// replaces the token with an HS256 JWT whose subject must match user_id.
type SessionManager struct {
	db     *gorm.DB
	mode   string
	secret []byte
	secure bool
}

func NewSessionManager(db *gorm.DB, mode, secret string, secure bool) *SessionManager {
	if mode != SessionModeSigned {
		mode = SessionModeLegacy
	}
	return &SessionManager{
		db:     db,
		mode:   mode,
		secret: []byte(secret),
		secure: secure,
	}
}

// Issue sets the session cookies for grant.
func (m *SessionManager) Issue(c *gin.Context, grant *SessionGrant) error {
	ttl := UserSessionTTL
	if grant.Bootstrap {
		ttl = BootstrapSessionTTL
	}

	userID := strconv.FormatUint(uint64(grant.UserID), 10)

	token := uuid.NewString()
	if m.mode == SessionModeSigned {
		signed, err := m.sign(userID, ttl)
		if err != nil {
			return err
		}
		token = signed
	}

	m.setCookie(c, SessionCookie, token, int(ttl.Seconds()))
	m.setCookie(c, UserIDCookie, userID, int(ttl.Seconds()))
	return nil
}

// CurrentUser resolves the session cookies to a user. It returns nil without
// an error when there is no valid session.
func (m *SessionManager) CurrentUser(c *gin.Context) (*models.User, error) {
	token, err := c.Cookie(SessionCookie)
	if err != nil || token == "" {
		return nil, nil
	}
	rawID, err := c.Cookie(UserIDCookie)
	if err != nil || rawID == "" {
		return nil, nil
	}

	userID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		return nil, nil
	}

	if m.mode == SessionModeSigned && !m.verify(token, rawID) {
		return nil, nil
	}

	return m.loadUser(c.Request.Context(), uint(userID))
}

// Destroy expires both session cookies.
func (m *SessionManager) Destroy(c *gin.Context) {
	m.setCookie(c, SessionCookie, "", -1)
	m.setCookie(c, UserIDCookie, "", -1)
}

func (m *SessionManager) Mode() string {
	return m.mode
}

func (m *SessionManager) loadUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := m.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	return &user, nil
}

func (m *SessionManager) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", m.secure, true)
}

func (m *SessionManager) sign(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		Issuer:    "secretsanta",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, nil
}

func (m *SessionManager) verify(tokenString, subject string) bool {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithIssuer("secretsanta"))
	if err != nil || !token.Valid {
		return false
	}
	return claims.Subject == subject
}
