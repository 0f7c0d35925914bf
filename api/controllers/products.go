package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/luxenest/luxenest-backend/api/responses"
	"github.com/luxenest/luxenest-backend/api/validators"
	"github.com/luxenest/luxenest-backend/internal/catalog"
	"github.com/luxenest/luxenest-backend/pkg/enums"
	pkgerrors "github.com/luxenest/luxenest-backend/pkg/errors"
	"github.com/luxenest/luxenest-backend/pkg/logger"
)

// ProductsController serves the storefront catalog reads.
type ProductsController struct {
	catalog catalog.Service
	logg    *logger.Logger
}

// NewProductsController builds the catalog read handlers.
func NewProductsController(catalogService catalog.Service, logg *logger.Logger) *ProductsController {
	return &ProductsController{catalog: catalogService, logg: logg}
}

// List serves the filtered, paginated product listing.
func (c *ProductsController) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := parseListInput(r, false)
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

// Get resolves a product by id, SKU, or slug.
func (c *ProductsController) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref := strings.TrimSpace(chi.URLParam(r, "productRef"))
		if ref == "" {
			responses.WriteError(r.Context(), c.logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "product reference required"))
			return
		}

		product, err := c.catalog.GetProduct(r.Context(), ref)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func parseListInput(r *http.Request, includeInactive bool) (catalog.ListProductsInput, error) {
	params, err := validators.ParsePagination(r)
	if err != nil {
		return catalog.ListProductsInput{}, err
	}

	minPrice, err := validators.ParseQueryDecimal(r, "min_price")
	if err != nil {
		return catalog.ListProductsInput{}, err
	}
	maxPrice, err := validators.ParseQueryDecimal(r, "max_price")
	if err != nil {
		return catalog.ListProductsInput{}, err
	}

	query := r.URL.Query()
	sort, err := enums.ParseProductSort(query.Get("sort"))
	if err != nil {
		return catalog.ListProductsInput{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown sort option")
	}

	filters := catalog.ProductFilters{
		CategorySlug: strings.TrimSpace(query.Get("category")),
		Query:        strings.TrimSpace(query.Get("q")),
		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
		Color:        strings.TrimSpace(query.Get("color")),
		Material:     strings.TrimSpace(query.Get("material")),
		Brand:        strings.TrimSpace(query.Get("brand")),
		IsFeatured:   parseBoolFlag(query.Get("featured")),
		IsNew:        parseBoolFlag(query.Get("new")),
		IsSale:       parseBoolFlag(query.Get("sale")),
		IsBestSeller: parseBoolFlag(query.Get("best_seller")),
		Sort:         sort,
	}

	return catalog.ListProductsInput{
		Filters:         filters,
		Pagination:      params,
		IncludeInactive: includeInactive,
	}, nil
}

// parseBoolFlag treats "true"/"1" as set, anything else as absent.
func parseBoolFlag(raw string) *bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1":
		v := true
		return &v
	case "false", "0":
		v := false
		return &v
	}
	return nil
}
