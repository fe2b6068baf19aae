package handlers

import (
	"strconv"

	"secretsanta/middleware"
	"secretsanta/services"

	"github.com/gin-gonic/gin"
)

// idParam parses a numeric path parameter. Unparseable ids answer with
// notFound, since no row can have them.
func idParam(c *gin.Context, name string, notFound error) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		middleware.ErrorResponse(c, notFound, "")
		return 0, false
	}
	return uint(id), true
}

func gameIDParam(c *gin.Context) (uint, bool) {
	return idParam(c, "id", services.ErrGameNotFound)
}

// ownerID returns the organizer set by middleware.RequireUser.
func ownerID(c *gin.Context) (uint, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		middleware.ErrorResponse(c, services.ErrNotAuthenticated, "")
	}
	return id, ok
}
