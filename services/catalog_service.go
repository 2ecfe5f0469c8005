package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/princinho/sahomattress/apperrors"
	"github.com/princinho/sahomattress/database"
	"github.com/princinho/sahomattress/models"
	"github.com/princinho/sahomattress/storage"
	"github.com/princinho/sahomattress/utils"
	"go.uber.org/zap"
)

// ImageFile is one uploaded part. Open may be called more than once.
type ImageFile struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

type CreateProductInput struct {
	Name     string
	Price    string
	Category string
	Sizes    string
	Images   []ImageFile
}

type UpdateProductInput struct {
	ID       string
	Name     *string
	Price    *float64
	Category *string
	Sizes    *[]string
	Images   *[]string
}

type CatalogService struct {
	products  database.ProductRepository
	blobs     storage.BlobStore
	validator *utils.FileValidator
	log       *zap.Logger
}

func NewCatalogService(products database.ProductRepository, blobs storage.BlobStore, validator *utils.FileValidator, log *zap.Logger) *CatalogService {
	return &CatalogService{products: products, blobs: blobs, validator: validator, log: log}
}

func (s *CatalogService) List(ctx context.Context, category string) ([]models.Product, error) {
	var filter *models.Category
	if category = strings.TrimSpace(category); category != "" {
		c, ok := models.ParseCategory(category)
		if !ok {
			return nil, apperrors.BadRequest("invalid category")
		}
		filter = &c
	}
	products, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal("failed to fetch products", err)
	}
	return products, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("failed to fetch product", err)
	}
	if p == nil {
		return nil, apperrors.NotFound("product not found")
	}
	return p, nil
}

func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, apperrors.BadRequest("price must be a number")
	}
	return price, validatePrice(price)
}

func validatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return apperrors.BadRequest("price must be greater than 0")
	}
	return nil
}

type checkedImage struct {
	ImageFile
	contentType string
}

// Create validates the whole request before the first blob is written. Images
// are then uploaded one at a time; a failed upload aborts the request and
// leaves earlier blobs in place.
func (s *CatalogService) Create(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	switch {
	case in.Name == "":
		return nil, apperrors.BadRequest("name is required")
	case in.Price == "":
		return nil, apperrors.BadRequest("price is required")
	case in.Category == "":
		return nil, apperrors.BadRequest("category is required")
	case in.Sizes == "":
		return nil, apperrors.BadRequest("sizes is required")
	case len(in.Images) == 0:
		return nil, apperrors.BadRequest("at least one image is required")
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.BadRequest("name cannot be empty")
	}
	price, err := parsePrice(in.Price)
	if err != nil {
		return nil, err
	}
	category, ok := models.ParseCategory(in.Category)
	if !ok {
		return nil, apperrors.BadRequest("invalid category")
	}
	sizes := utils.SplitLabels(in.Sizes)
	if len(sizes) == 0 {
		return nil, apperrors.BadRequest("at least one size is required")
	}

	var total int64
	for _, f := range in.Images {
		total += f.Size
	}
	if total > s.validator.MaxBatchSize() {
		return nil, apperrors.PayloadTooLarge(fmt.Sprintf("total upload size exceeds %d MiB", s.validator.MaxBatchSize()>>20))
	}

	checked := make([]checkedImage, 0, len(in.Images))
	for _, f := range in.Images {
		ct, err := s.contentType(f)
		if err != nil {
			return nil, err
		}
		if !s.validator.Allowed(ct) {
			return nil, apperrors.BadRequest(fmt.Sprintf("file %q has unsupported type %s (allowed: %s)",
				f.Name, ct, strings.Join(s.validator.AllowedTypes(), ", ")))
		}
		if f.Size > s.validator.MaxSize() {
			return nil, apperrors.PayloadTooLarge(fmt.Sprintf("file %q exceeds %d MiB", f.Name, s.validator.MaxSize()>>20))
		}
		checked = append(checked, checkedImage{ImageFile: f, contentType: ct})
	}

	ids := make([]string, 0, len(checked))
	for _, f := range checked {
		id, err := s.upload(ctx, f)
		if err != nil {
			s.log.Error("image upload failed",
				zap.String("file", f.Name),
				zap.Strings("uploaded", ids),
				zap.Error(err),
			)
			return nil, apperrors.Internal("failed to upload images", err)
		}
		ids = append(ids, id)
	}

	p, err := s.products.Create(ctx, models.ProductFields{
		Name:     name,
		Slug:     utils.GenerateSlug(name),
		Price:    price,
		Category: category,
		Sizes:    sizes,
		Images:   ids,
	})
	if err != nil {
		return nil, apperrors.Internal("failed to create product", err)
	}
	s.log.Info("product created", zap.String("id", p.Id.Hex()), zap.Int("images", len(ids)))
	return p, nil
}

func (s *CatalogService) contentType(f ImageFile) (string, error) {
	if f.ContentType != "" {
		ct, _ := s.validator.ResolveContentType(f.ContentType, f.Name, nil)
		if ct != "application/octet-stream" {
			return ct, nil
		}
	}
	rc, err := f.Open()
	if err != nil {
		return "", apperrors.BadRequest(fmt.Sprintf("cannot read file %q", f.Name))
	}
	defer rc.Close()
	ct, err := s.validator.ResolveContentType(f.ContentType, f.Name, rc)
	if err != nil {
		return "", apperrors.BadRequest(fmt.Sprintf("cannot read file %q", f.Name))
	}
	return ct, nil
}

func (s *CatalogService) upload(ctx context.Context, f checkedImage) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	return s.blobs.Upload(ctx, f.Name, f.contentType, rc, f.Size)
}

// Update applies a partial change. Every provided field is validated with the
// same rules as Create; images cannot be changed.
func (s *CatalogService) Update(ctx context.Context, in UpdateProductInput) (*models.Product, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return nil, apperrors.BadRequest("id is required")
	}
	if in.Images != nil {
		return nil, apperrors.BadRequest("images cannot be updated")
	}

	var patch models.ProductPatch
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperrors.BadRequest("name cannot be empty")
		}
		slug := utils.GenerateSlug(name)
		patch.Name = &name
		patch.Slug = &slug
	}
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return nil, err
		}
		price := *in.Price
		patch.Price = &price
	}
	if in.Category != nil {
		c, ok := models.ParseCategory(*in.Category)
		if !ok {
			return nil, apperrors.BadRequest("invalid category")
		}
		patch.Category = &c
	}
	if in.Sizes != nil {
		sizes := utils.UniqueLabels(*in.Sizes)
		if len(sizes) == 0 {
			return nil, apperrors.BadRequest("at least one size is required")
		}
		patch.Sizes = sizes
	}
	if patch.IsEmpty() {
		return nil, apperrors.BadRequest("no updates provided")
	}

	p, err := s.products.Update(ctx, id, patch)
	if errors.Is(err, database.ErrProductNotFound) {
		return nil, apperrors.NotFound("product not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to update product", err)
	}
	return p, nil
}

// Delete removes the product document. Its images stay in the blob store.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperrors.BadRequest("id is required")
	}
	deleted, err := s.products.Delete(ctx, id)
	if err != nil {
		return apperrors.Internal("failed to delete product", err)
	}
	if !deleted {
		return apperrors.NotFound("product not found")
	}
	return nil
}

func (s *CatalogService) OpenImage(ctx context.Context, id string) (*storage.Blob, error) {
	blob, err := s.blobs.Open(ctx, id)
	if errors.Is(err, storage.ErrBlobNotFound) {
		return nil, apperrors.NotFound("image not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to open image", err)
	}
	return blob, nil
}
