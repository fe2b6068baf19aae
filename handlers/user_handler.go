package handlers

import (
	"net/http"

	"secretsanta/middleware"
	"secretsanta/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.BadRequest(c, "invalid user payload")
		return
	}

	user, err := h.userService.Create(c.Request.Context(), &req)
	if err != nil {
		middleware.ErrorResponse(c, err, "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		middleware.ErrorResponse(c, err, "failed to list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := idParam(c, "id", services.ErrUserNotFound)
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), userID); err != nil {
		middleware.ErrorResponse(c, err, "failed to delete user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
