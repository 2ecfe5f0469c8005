package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/sahomattress/models"
)

type categoryResponse struct {
	Name  models.Category `json:"name"`
	Sizes []string        `json:"sizes"`
}

// GET /categories
func GetCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		out := make([]categoryResponse, 0, len(models.Categories))
		for _, cat := range models.Categories {
			out = append(out, categoryResponse{Name: cat, Sizes: cat.PredefinedSizes()})
		}
		c.JSON(http.StatusOK, out)
	}
}
