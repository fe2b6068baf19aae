package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"secretsanta/config"
	"secretsanta/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a private in-memory store with the full schema. The store
// is closed when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.OpenSQLite(":memory:", logger.Silent)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := config.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// GetTestConfig returns a configuration suited to tests
func GetTestConfig() *config.Config {
	return &config.Config{
		Port:              "8080",
		Env:               "test",
		DBDriver:          "sqlite",
		DBPath:            ":memory:",
		JWTSecret:         "test-secret",
		SessionMode:       "legacy",
		AdminUser:         "admin",
		AdminPassword:     "admin123",
		PublicURL:         "http://santa.test",
		AssignMaxAttempts: 1000,
		RevealRateLimit:   5,
		LegacyGameName:    "Amigo Invisible",
	}
}

// CreateTestUser stores an organizer with the given password
func CreateTestUser(t *testing.T, db *gorm.DB, username, password string, superAdmin bool) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		IsSuperAdmin: superAdmin,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// CreateTestGame stores a game owned by userID
func CreateTestGame(t *testing.T, db *gorm.DB, userID uint, name string) *models.Game {
	t.Helper()

	game := &models.Game{UserID: userID, Name: name}
	if err := db.Create(game).Error; err != nil {
		t.Fatalf("Failed to create test game: %v", err)
	}

	return game
}

// AddTestParticipant stores a participant with a fixed access code
func AddTestParticipant(t *testing.T, db *gorm.DB, gameID uint, name, slug, code string) *models.Participant {
	t.Helper()

	participant := &models.Participant{
		GameID:     gameID,
		Name:       name,
		Slug:       slug,
		AccessCode: code,
	}
	if err := db.Create(participant).Error; err != nil {
		t.Fatalf("Failed to create test participant: %v", err)
	}

	return participant
}

// LoadParticipants returns the participants of a game ordered by id
func LoadParticipants(t *testing.T, db *gorm.DB, gameID uint) []models.Participant {
	t.Helper()

	var participants []models.Participant
	if err := db.Where("game_id = ?", gameID).Order("id").Find(&participants).Error; err != nil {
		t.Fatalf("Failed to load participants: %v", err)
	}

	return participants
}

// LoadGame reloads a game by id
func LoadGame(t *testing.T, db *gorm.DB, gameID uint) *models.Game {
	t.Helper()

	var game models.Game
	if err := db.First(&game, gameID).Error; err != nil {
		t.Fatalf("Failed to load game: %v", err)
	}

	return &game
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, cookies ...*http.Cookie) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for _, c := range cookies {
		req.AddCookie(c)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertErrorCode checks a {success:false, error:code} response
func AssertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	AssertStatus(t, w, status)

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	AssertJSON(t, w, &body)
	if body.Success {
		t.Errorf("Expected success=false")
	}
	if body.Error != code {
		t.Errorf("Expected error code %q, got %q (%s)", code, body.Error, body.Message)
	}
	if body.Message == "" {
		t.Errorf("Expected a message for error %q", code)
	}
}
