package handlers

import (
	"net/http"

	"secretsanta/middleware"
	"secretsanta/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
	sessions    *services.SessionManager
}

func NewAuthHandler(authService *services.AuthService, sessions *services.SessionManager) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.BadRequest(c, "username and password are required")
		return
	}

	grant, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		middleware.ErrorResponse(c, err, "failed to log in")
		return
	}

	if err := h.sessions.Issue(c, grant); err != nil {
		middleware.ErrorResponse(c, err, "failed to start session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"user_id":        grant.UserID,
		"is_super_admin": grant.IsSuperAdmin,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.Destroy(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.ErrorResponse(c, services.ErrNotAuthenticated, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}
