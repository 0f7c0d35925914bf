package controllers

import (
	"net/http"

	"github.com/luxenest/luxenest-backend/api/responses"
	"github.com/luxenest/luxenest-backend/internal/catalog"
	"github.com/luxenest/luxenest-backend/pkg/logger"
)

// CategoriesController serves the public category tree.
type CategoriesController struct {
	catalog catalog.Service
	logg    *logger.Logger
}

// NewCategoriesController builds the category read handlers.
func NewCategoriesController(catalogService catalog.Service, logg *logger.Logger) *CategoriesController {
	return &CategoriesController{catalog: catalogService, logg: logg}
}

// List returns active categories in display order.
func (c *CategoriesController) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := c.catalog.ListCategories(r.Context(), false)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}
