package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/luxenest/luxenest-backend/pkg/db/models"
	"github.com/luxenest/luxenest-backend/pkg/enums"
	"github.com/luxenest/luxenest-backend/pkg/pagination"
)

// ProductFilters are the optional storefront list filters. Nil or empty
// fields are omitted from the query.
type ProductFilters struct {
	CategorySlug string
	Query        string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Color        string
	Material     string
	Brand        string
	IsFeatured   *bool
	IsNew        *bool
	IsSale       *bool
	IsBestSeller *bool
	Sort         enums.ProductSort
}

// ListProductsInput combines filters with page-based pagination.
type ListProductsInput struct {
	Filters    ProductFilters
	Pagination pagination.Params
	// IncludeInactive is set only by admin read paths.
	IncludeInactive bool
}

// ProductListResult is a single page of products plus metadata.
type ProductListResult struct {
	Products []models.Product
	Meta     pagination.Meta
}

// LookupKind tags how a product reference resolved.
type LookupKind string

const (
	LookupByID    LookupKind = "by_id"
	LookupBySKU   LookupKind = "by_sku"
	LookupMissing LookupKind = "not_found"
)

// LookupResult carries the resolved product and how it was found.
type LookupResult struct {
	Kind    LookupKind
	Product *models.Product
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	SKU            string
	Name           string
	Description    string
	Price          decimal.Decimal
	CompareAtPrice *decimal.Decimal
	Stock          int
	CategoryID     *uuid.UUID
	Brand          string
	Colors         []string
	Materials      []string
	Dimensions     string
	Weight         string
	Images         []string
	IsActive       *bool
	IsFeatured     bool
	IsNew          bool
	IsSale         bool
	IsBestSeller   bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	SKU            *string
	Name           *string
	Description    *string
	Price          *decimal.Decimal
	CompareAtPrice *decimal.Decimal
	Stock          *int
	CategoryID     *uuid.UUID
	Brand          *string
	Colors         *[]string
	Materials      *[]string
	Dimensions     *string
	Weight         *string
	Images         *[]string
	IsActive       *bool
	IsFeatured     *bool
	IsNew          *bool
	IsSale         *bool
	IsBestSeller   *bool
}

// CreateCategoryInput holds the validated payload to create a category.
type CreateCategoryInput struct {
	Name        string
	Description string
	Image       string
	ParentID    *uuid.UUID
	Position    int
}

// UpdateCategoryInput holds optional mutation values for a category.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
	Image       *string
	ParentID    *uuid.UUID
	Position    *int
	IsActive    *bool
}
