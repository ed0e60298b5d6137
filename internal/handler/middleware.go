package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rpm-system/rpm-backend/internal/apperr"
	"github.com/rpm-system/rpm-backend/internal/dto"
	"github.com/rpm-system/rpm-backend/internal/service"
	"github.com/rpm-system/rpm-backend/internal/utils"
)

// AuthMiddleware validates the bearer token and adds user info to the
// request context. A missing token and an expired token both answer 401
// so the client knows to (re)authenticate; any other invalid token is a
// 403.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Access token required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Access token required"})
			c.Abort()
			return
		}

		claims, err := authService.ValidateAccess(c.Request.Context(), parts[1])
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
					Error: "Token expired",
					Code:  apperr.CodeTokenExpired,
				})
			} else {
				c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: "Invalid token"})
			}
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)

		c.Next()
	}
}
