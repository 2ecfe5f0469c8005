package controllers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/sahomattress/apperrors"
	"github.com/princinho/sahomattress/dto"
	"github.com/princinho/sahomattress/logger"
	"github.com/princinho/sahomattress/services"
	"github.com/princinho/sahomattress/utils"
	"go.uber.org/zap"
)

// multipartOverhead leaves room for form fields and part headers on top of
// the image batch ceiling.
const multipartOverhead = 1 << 20

// GET /products?category=
func GetProducts(catalog *services.CatalogService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := catalog.List(c.Request.Context(), c.Query("category"))
		if err != nil {
			apperrors.Respond(c, logger.FromContext(c, log), err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GET /products/:id
func GetProduct(catalog *services.CatalogService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := catalog.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			apperrors.Respond(c, logger.FromContext(c, log), err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// POST /products (multipart: name, price, category, sizes, images[])
func AddProduct(catalog *services.CatalogService, v *utils.FileValidator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.FromContext(c, log)
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, v.MaxBatchSize()+multipartOverhead)

		form, err := c.MultipartForm()
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				apperrors.Respond(c, reqLog, apperrors.PayloadTooLarge("total upload size exceeds 20 MiB"))
				return
			}
			apperrors.Respond(c, reqLog, apperrors.BadRequest("invalid multipart form"))
			return
		}

		var body dto.CreateProductForm
		if err := c.ShouldBind(&body); err != nil {
			apperrors.Respond(c, reqLog, apperrors.BadRequest(err.Error()))
			return
		}

		p, err := catalog.Create(c.Request.Context(), services.CreateProductInput{
			Name:     body.Name,
			Price:    body.Price,
			Category: body.Category,
			Sizes:    body.Sizes,
			Images:   imageFiles(form.File["images"]),
		})
		if err != nil {
			apperrors.Respond(c, reqLog, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func imageFiles(headers []*multipart.FileHeader) []services.ImageFile {
	files := make([]services.ImageFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, services.ImageFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Open:        func() (io.ReadCloser, error) { return fh.Open() },
		})
	}
	return files
}

// PUT /products (json: id + partial fields)
func UpdateProduct(catalog *services.CatalogService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.UpdateProductDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		p, err := catalog.Update(c.Request.Context(), services.UpdateProductInput{
			ID:       body.ID,
			Name:     body.Name,
			Price:    body.Price,
			Category: body.Category,
			Sizes:    body.Sizes,
			Images:   body.Images,
		})
		if err != nil {
			apperrors.Respond(c, logger.FromContext(c, log), err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// DELETE /products?id=
func DeleteProduct(catalog *services.CatalogService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := catalog.Delete(c.Request.Context(), c.Query("id")); err != nil {
			apperrors.Respond(c, logger.FromContext(c, log), err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
