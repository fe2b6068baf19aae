package middleware

import (
	"secretsanta/models"
	"secretsanta/services"

	"github.com/gin-gonic/gin"
)

const (
	userKey   = "user"
	userIDKey = "user_id"
)

// RequireUser resolves the session cookies and rejects anonymous requests.
func RequireUser(sessions *services.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := sessions.CurrentUser(c)
		if err != nil {
			ErrorResponse(c, err, "failed to load session")
			return
		}
		if user == nil {
			ErrorResponse(c, services.ErrNotAuthenticated, "")
			return
		}

		c.Set(userKey, user)
		c.Set(userIDKey, user.ID)
		c.Next()
	}
}

// RequireSuperAdmin must run after RequireUser.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			ErrorResponse(c, services.ErrNotAuthenticated, "")
			return
		}
		if !user.IsSuperAdmin {
			ErrorResponse(c, services.ErrNotAuthorized, "")
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user stored by RequireUser.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(userKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}

func CurrentUserID(c *gin.Context) (uint, bool) {
	id := c.GetUint(userIDKey)
	return id, id != 0
}

// NoStore keeps authenticated responses out of shared caches.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
