package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/sahomattress/apperrors"
	"github.com/princinho/sahomattress/dto"
	"github.com/princinho/sahomattress/logger"
	"github.com/princinho/sahomattress/models"
	"github.com/princinho/sahomattress/services"
	"go.uber.org/zap"
)

// POST /quote-request
func CreateQuoteRequest(quotes *services.QuoteService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CreateQuoteRequestDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		items := make([]models.CartItem, 0, len(body.Items))
		for _, it := range body.Items {
			items = append(items, models.CartItem{
				ID:        it.ID,
				Title:     it.Title,
				Price:     it.Price,
				ImageURLs: it.ImageURLs,
				Quantity:  it.Quantity,
			})
		}

		q, err := quotes.Submit(c.Request.Context(), models.Contact{
			Name:    body.Name,
			Phone:   body.Phone,
			Email:   body.Email,
			Message: body.Message,
		}, items)
		if err != nil {
			apperrors.Respond(c, logger.FromContext(c, log), err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "total": q.Cart.Total})
	}
}
