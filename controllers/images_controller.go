package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/sahomattress/apperrors"
	"github.com/princinho/sahomattress/logger"
	"github.com/princinho/sahomattress/services"
	"go.uber.org/zap"
)

const imageCacheControl = "public, max-age=31536000, immutable"

// GET /images/:id
func GetImage(catalog *services.CatalogService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		blob, err := catalog.OpenImage(c.Request.Context(), c.Param("id"))
		if err != nil {
			apperrors.Respond(c, logger.FromContext(c, log), err)
			return
		}
		defer blob.Body.Close()

		c.DataFromReader(http.StatusOK, blob.Length, blob.ContentType, blob.Body, map[string]string{
			"Cache-Control": imageCacheControl,
		})
	}
}
