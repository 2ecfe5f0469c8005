package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/sahomattress/apperrors"
	"github.com/princinho/sahomattress/dto"
	"github.com/princinho/sahomattress/logger"
	"github.com/princinho/sahomattress/services"
	"go.uber.org/zap"
)

// POST /auth/login
func Login(auth *services.AuthService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		token, err := auth.Login(c.Request.Context(), body.Email, body.Password)
		if err != nil {
			apperrors.Respond(c, logger.FromContext(c, log), err)
			return
		}
		c.JSON(http.StatusOK, dto.LoginResponse{AccessToken: token})
	}
}
