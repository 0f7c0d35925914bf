package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/luxenest/luxenest-backend/pkg/db/models"
	pkgerrors "github.com/luxenest/luxenest-backend/pkg/errors"
	"github.com/luxenest/luxenest-backend/pkg/logger"
	"github.com/luxenest/luxenest-backend/pkg/redis"
	"github.com/luxenest/luxenest-backend/pkg/slugs"
)

// Service exposes catalog reads for the storefront and writes for admins.
type Service interface {
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	GetProduct(ctx context.Context, ref string) (*models.Product, error)
	Lookup(ctx context.Context, ref string) (LookupResult, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error)
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, categoryID uuid.UUID, input UpdateCategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error
}

type service struct {
	repo     *Repository
	cache    redis.CatalogCache
	cacheTTL time.Duration
	logg     *logger.Logger
}

// NewService constructs a catalog service. The cache is optional; a nil
// cache disables list caching without changing behavior.
func NewService(repo *Repository, cache redis.CatalogCache, cacheTTL time.Duration, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logg:     logg,
	}, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	key := s.listCacheKey(input)
	if key != "" {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var result ProductListResult
			if jsonErr := json.Unmarshal([]byte(cached), &result); jsonErr == nil {
				return &result, nil
			}
		} else if !errors.Is(err, redis.Nil) && s.logg != nil {
			s.logg.Warn(ctx, "catalog cache read failed")
		}
	}

	result, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	if key != "" {
		if payload, jsonErr := json.Marshal(result); jsonErr == nil {
			if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil && s.logg != nil {
				s.logg.Warn(ctx, "catalog cache write failed")
			}
		}
	}

	return result, nil
}

// listCacheKey derives a stable cache key for a list query. Admin reads that
// include inactive rows are never cached.
func (s *service) listCacheKey(input ListProductsInput) string {
	if s.cache == nil || input.IncludeInactive {
		return ""
	}
	payload, err := json.Marshal(input)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(payload)
	return s.cache.CatalogKey("products", hex.EncodeToString(sum[:16]))
}

func (s *service) GetProduct(ctx context.Context, ref string) (*models.Product, error) {
	result, err := s.Lookup(ctx, ref)
	if err != nil {
		return nil, err
	}
	if result.Kind != LookupMissing {
		return result.Product, nil
	}

	// Storefront links use slugs, so fall back before giving up.
	product, err := s.repo.FindBySlug(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product by slug")
	}
	return product, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if !input.Price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price must be positive")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product stock cannot be negative")
	}
	if input.CategoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	product := &models.Product{
		SKU:            input.SKU,
		Name:           input.Name,
		Slug:           slugs.Slugify(input.Name),
		Description:    input.Description,
		Price:          input.Price.Round(2),
		CompareAtPrice: roundPtr(input.CompareAtPrice),
		Stock:          input.Stock,
		CategoryID:     input.CategoryID,
		Brand:          input.Brand,
		Colors:         pq.StringArray(input.Colors),
		Materials:      pq.StringArray(input.Materials),
		Dimensions:     input.Dimensions,
		Weight:         input.Weight,
		Images:         pq.StringArray(input.Images),
		IsActive:       active,
		IsFeatured:     input.IsFeatured,
		IsNew:          input.IsNew,
		IsSale:         input.IsSale,
		IsBestSeller:   input.IsBestSeller,
	}
	if product.SKU == "" {
		product.SKU = generateSKU()
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, wrapWriteError(err, "create product")
	}

	s.invalidate(ctx)
	return created, nil
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if input.SKU != nil {
		product.SKU = *input.SKU
	}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		product.Name = *input.Name
		product.Slug = slugs.Slugify(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if !input.Price.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price must be positive")
		}
		product.Price = input.Price.Round(2)
	}
	if input.CompareAtPrice != nil {
		product.CompareAtPrice = roundPtr(input.CompareAtPrice)
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product stock cannot be negative")
		}
		product.Stock = *input.Stock
	}
	if input.CategoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
		product.CategoryID = input.CategoryID
	}
	if input.Brand != nil {
		product.Brand = *input.Brand
	}
	if input.Colors != nil {
		product.Colors = pq.StringArray(*input.Colors)
	}
	if input.Materials != nil {
		product.Materials = pq.StringArray(*input.Materials)
	}
	if input.Dimensions != nil {
		product.Dimensions = *input.Dimensions
	}
	if input.Weight != nil {
		product.Weight = *input.Weight
	}
	if input.Images != nil {
		product.Images = pq.StringArray(*input.Images)
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.IsNew != nil {
		product.IsNew = *input.IsNew
	}
	if input.IsSale != nil {
		product.IsSale = *input.IsSale
	}
	if input.IsBestSeller != nil {
		product.IsBestSeller = *input.IsBestSeller
	}

	product.Category = nil
	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, wrapWriteError(err, "update product")
	}

	s.invalidate(ctx)
	return updated, nil
}

func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	rows, err := s.repo.ListCategories(ctx, includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return rows, nil
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name required")
	}
	category := &models.Category{
		Name:        input.Name,
		Slug:        slugs.Slugify(input.Name),
		Description: input.Description,
		Image:       input.Image,
		ParentID:    input.ParentID,
		Position:    input.Position,
		IsActive:    true,
	}
	created, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		return nil, wrapWriteError(err, "create category")
	}
	s.invalidate(ctx)
	return created, nil
}

func (s *service) UpdateCategory(ctx context.Context, categoryID uuid.UUID, input UpdateCategoryInput) (*models.Category, error) {
	category, err := s.repo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name cannot be empty")
		}
		category.Name = *input.Name
		category.Slug = slugs.Slugify(*input.Name)
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.Image != nil {
		category.Image = *input.Image
	}
	if input.ParentID != nil {
		category.ParentID = input.ParentID
	}
	if input.Position != nil {
		category.Position = *input.Position
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	updated, err := s.repo.UpdateCategory(ctx, category)
	if err != nil {
		return nil, wrapWriteError(err, "update category")
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *service) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	if _, err := s.repo.FindCategoryByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	if err := s.repo.DeleteCategory(ctx, categoryID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCatalog(ctx); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "catalog cache invalidation failed")
	}
}

func wrapWriteError(err error, op string) error {
	if pkgerrors.IsUniqueViolation(err) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "duplicate sku, name, or slug")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}

func generateSKU() string {
	return "LX-" + uuid.NewString()[:8]
}

func roundPtr(value *decimal.Decimal) *decimal.Decimal {
	if value == nil {
		return nil
	}
	rounded := value.Round(2)
	return &rounded
}
