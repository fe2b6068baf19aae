package services

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// AppError is a domain failure with a stable machine readable code and the
// HTTP status the boundary should answer with.
type AppError struct {
	Code    string
	Message string
	Status  int
}

func (e *AppError) Error() string {
	return e.Message
}

func newError(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, Status: status}
}

// Auth
var (
	ErrInvalidCredentials = newError(http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
	ErrNotAuthenticated   = newError(http.StatusUnauthorized, "not_authenticated", "authentication required")
	ErrNotAuthorized      = newError(http.StatusForbidden, "not_authorized", "you do not have permission to perform this action")
)

// Games and users
var (
	ErrGameNotFound           = newError(http.StatusNotFound, "game_not_found", "game not found")
	ErrEmptyGameName          = newError(http.StatusBadRequest, "empty_game_name", "game name is required")
	ErrInvalidUserInput       = newError(http.StatusBadRequest, "invalid_user_input", "username is required and the password must have at least 6 characters")
	ErrDuplicateUsername      = newError(http.StatusConflict, "duplicate_username", "a user with that username already exists")
	ErrUserNotFound           = newError(http.StatusNotFound, "user_not_found", "user not found")
	ErrCannotDeleteSuperAdmin = newError(http.StatusForbidden, "cannot_delete_super_admin", "super admin accounts cannot be deleted")
)

// Registry
var (
	ErrEmptyName           = newError(http.StatusBadRequest, "empty_name", "participant name is required")
	ErrDuplicateName       = newError(http.StatusConflict, "duplicate_name", "a participant with that name already exists in this game")
	ErrParticipantNotFound = newError(http.StatusNotFound, "participant_not_found", "participant not found")
	ErrGameLocked          = newError(http.StatusConflict, "game_locked", "reset the assignments before adding participants")
)

// Assignment
var (
	ErrInsufficientParticipants = newError(http.StatusBadRequest, "insufficient_participants", "at least 2 participants are required")
	ErrNoValidDerangement       = newError(http.StatusServiceUnavailable, "no_valid_derangement", "could not generate a valid assignment, try again")
	ErrAssignmentPersistence    = newError(http.StatusInternalServerError, "assignment_failed", "failed to save the assignments")
)

// Access
var (
	ErrInvalidCode        = newError(http.StatusForbidden, "invalid_code", "invalid access code")
	ErrAssignmentNotReady = newError(http.StatusConflict, "assignment_not_ready", "the draw has not been made yet")
	ErrRevealFailed       = newError(http.StatusInternalServerError, "reveal_failed", "failed to look up the assignment")
	ErrRateLimited        = newError(http.StatusTooManyRequests, "rate_limited", "too many attempts, try again later")
)

// AsAppError returns the AppError in err's chain, if any.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}
