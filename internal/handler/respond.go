package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rpm-system/rpm-backend/internal/apperr"
	"github.com/rpm-system/rpm-backend/internal/dto"
	"github.com/rpm-system/rpm-backend/internal/repository"
)

// writeError maps a service or repository error onto the wire format.
// The gin error list feeds the logging middleware, so internal causes
// are logged without being sent to the client.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, dto.ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		})
		return
	}

	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Not found"})
		return
	}

	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
}

// userID returns the authenticated user set by AuthMiddleware.
func userID(c *gin.Context) string {
	return c.GetString("user_id")
}
