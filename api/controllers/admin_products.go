package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/luxenest/luxenest-backend/api/responses"
	"github.com/luxenest/luxenest-backend/api/validators"
	"github.com/luxenest/luxenest-backend/internal/catalog"
	"github.com/luxenest/luxenest-backend/internal/importer"
	pkgerrors "github.com/luxenest/luxenest-backend/pkg/errors"
	"github.com/luxenest/luxenest-backend/pkg/logger"
)

// AdminProductsController serves the catalog management endpoints, including
// the bulk spreadsheet import.
type AdminProductsController struct {
	catalog     catalog.Service
	importer    *importer.Importer
	maxUploadMB int
	logg        *logger.Logger
}

// NewAdminProductsController builds the catalog admin handlers.
func NewAdminProductsController(catalogService catalog.Service, imp *importer.Importer, maxUploadMB int, logg *logger.Logger) *AdminProductsController {
	return &AdminProductsController{
		catalog:     catalogService,
		importer:    imp,
		maxUploadMB: maxUploadMB,
		logg:        logg,
	}
}

// List returns products including inactive ones.
func (c *AdminProductsController) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := parseListInput(r, true)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		result, err := c.catalog.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WritePage(w, result.Products, result.Meta)
	}
}

type createProductRequest struct {
	SKU            string     `json:"sku"`
	Name           string     `json:"name" validate:"required"`
	Description    string     `json:"description"`
	Price          string     `json:"price" validate:"required"`
	CompareAtPrice *string    `json:"compare_at_price"`
	Stock          int        `json:"stock" validate:"gte=0"`
	CategoryID     *uuid.UUID `json:"category_id"`
	Brand          string     `json:"brand"`
	Colors         []string   `json:"colors"`
	Materials      []string   `json:"materials"`
	Dimensions     string     `json:"dimensions"`
	Weight         string     `json:"weight"`
	Images         []string   `json:"images"`
	IsActive       *bool      `json:"is_active"`
	IsFeatured     bool       `json:"is_featured"`
	IsNew          bool       `json:"is_new"`
	IsSale         bool       `json:"is_sale"`
	IsBestSeller   bool       `json:"is_best_seller"`
}

// Create adds a product to the catalog.
func (c *AdminProductsController) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		price, err := parseBodyDecimal(req.Price, "price")
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		compareAt, err := parseOptionalBodyDecimal(req.CompareAtPrice, "compare_at_price")
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		product, err := c.catalog.CreateProduct(r.Context(), catalog.CreateProductInput{
			SKU:            req.SKU,
			Name:           req.Name,
			Description:    req.Description,
			Price:          price,
			CompareAtPrice: compareAt,
			Stock:          req.Stock,
			CategoryID:     req.CategoryID,
			Brand:          req.Brand,
			Colors:         req.Colors,
			Materials:      req.Materials,
			Dimensions:     req.Dimensions,
			Weight:         req.Weight,
			Images:         req.Images,
			IsActive:       req.IsActive,
			IsFeatured:     req.IsFeatured,
			IsNew:          req.IsNew,
			IsSale:         req.IsSale,
			IsBestSeller:   req.IsBestSeller,
		})
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type updateProductRequest struct {
	SKU            *string    `json:"sku"`
	Name           *string    `json:"name"`
	Description    *string    `json:"description"`
	Price          *string    `json:"price"`
	CompareAtPrice *string    `json:"compare_at_price"`
	Stock          *int       `json:"stock"`
	CategoryID     *uuid.UUID `json:"category_id"`
	Brand          *string    `json:"brand"`
	Colors         *[]string  `json:"colors"`
	Materials      *[]string  `json:"materials"`
	Dimensions     *string    `json:"dimensions"`
	Weight         *string    `json:"weight"`
	Images         *[]string  `json:"images"`
	IsActive       *bool      `json:"is_active"`
	IsFeatured     *bool      `json:"is_featured"`
	IsNew          *bool      `json:"is_new"`
	IsSale         *bool      `json:"is_sale"`
	IsBestSeller   *bool      `json:"is_best_seller"`
}

// Update mutates the provided product fields; absent fields are untouched.
func (c *AdminProductsController) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		var req updateProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		price, err := parseOptionalBodyDecimal(req.Price, "price")
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		compareAt, err := parseOptionalBodyDecimal(req.CompareAtPrice, "compare_at_price")
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		product, err := c.catalog.UpdateProduct(r.Context(), productID, catalog.UpdateProductInput{
			SKU:            req.SKU,
			Name:           req.Name,
			Description:    req.Description,
			Price:          price,
			CompareAtPrice: compareAt,
			Stock:          req.Stock,
			CategoryID:     req.CategoryID,
			Brand:          req.Brand,
			Colors:         req.Colors,
			Materials:      req.Materials,
			Dimensions:     req.Dimensions,
			Weight:         req.Weight,
			Images:         req.Images,
			IsActive:       req.IsActive,
			IsFeatured:     req.IsFeatured,
			IsNew:          req.IsNew,
			IsSale:         req.IsSale,
			IsBestSeller:   req.IsBestSeller,
		})
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// Delete soft-deletes a product.
func (c *AdminProductsController) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		if err := c.catalog.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteMessage(w, "product deleted")
	}
}

// Import ingests an uploaded .xlsx workbook of products.
func (c *AdminProductsController) Import() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := int64(c.maxUploadMB) << 20
		r.Body = http.MaxBytesReader(w, r.Body, limit)

		if err := r.ParseMultipartForm(limit); err != nil {
			responses.WriteError(r.Context(), c.logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "upload too large or malformed"))
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "missing file upload field"))
			return
		}
		defer file.Close()

		reader, err := importer.NewXLSXReader(file)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "file is not a valid xlsx workbook"))
			return
		}
		defer reader.Close()

		report, err := c.importer.Import(r.Context(), reader)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

func parseBodyDecimal(raw, field string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "invalid decimal value").
			WithDetails(map[string]any{"field": field})
	}
	return value, nil
}

func parseOptionalBodyDecimal(raw *string, field string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	value, err := parseBodyDecimal(*raw, field)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
