package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/sahomattress/apperrors"
	"github.com/princinho/sahomattress/dto"
	"github.com/princinho/sahomattress/logger"
	"github.com/princinho/sahomattress/middleware"
	"github.com/princinho/sahomattress/services"
	"go.uber.org/zap"
)

// POST /admin/users
func CreateUser(auth *services.AuthService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CreateUserDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, err := auth.CreateAdmin(c.Request.Context(), body.Email, body.Password)
		if err != nil {
			apperrors.Respond(c, logger.FromContext(c, log), err)
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

// POST /admin/users/me/password
func ChangeMyPassword(auth *services.AuthService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ChangeMyPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		err := auth.ChangePassword(c.Request.Context(), c.GetString(middleware.UserIDKey), body.CurrentPassword, body.NewPassword)
		if err != nil {
			apperrors.Respond(c, logger.FromContext(c, log), err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
