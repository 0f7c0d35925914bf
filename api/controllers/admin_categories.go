package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/luxenest/luxenest-backend/api/responses"
	"github.com/luxenest/luxenest-backend/api/validators"
	"github.com/luxenest/luxenest-backend/internal/catalog"
	"github.com/luxenest/luxenest-backend/pkg/logger"
)

// AdminCategoriesController serves category management.
type AdminCategoriesController struct {
	catalog catalog.Service
	logg    *logger.Logger
}

// NewAdminCategoriesController builds the category admin handlers.
func NewAdminCategoriesController(catalogService catalog.Service, logg *logger.Logger) *AdminCategoriesController {
	return &AdminCategoriesController{catalog: catalogService, logg: logg}
}

// List returns every category, inactive ones included.
func (c *AdminCategoriesController) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := c.catalog.ListCategories(r.Context(), true)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

type createCategoryRequest struct {
	Name        string     `json:"name" validate:"required"`
	Description string     `json:"description"`
	Image       string     `json:"image"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Position    int        `json:"position"`
}

// Create adds a category.
func (c *AdminCategoriesController) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCategoryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		category, err := c.catalog.CreateCategory(r.Context(), catalog.CreateCategoryInput{
			Name:        req.Name,
			Description: req.Description,
			Image:       req.Image,
			ParentID:    req.ParentID,
			Position:    req.Position,
		})
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

type updateCategoryRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Image       *string    `json:"image"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Position    *int       `json:"position"`
	IsActive    *bool      `json:"is_active"`
}

// Update mutates the provided category fields.
func (c *AdminCategoriesController) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := validators.ParsePathUUID(chi.URLParam(r, "categoryID"), "categoryID")
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		var req updateCategoryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		category, err := c.catalog.UpdateCategory(r.Context(), categoryID, catalog.UpdateCategoryInput{
			Name:        req.Name,
			Description: req.Description,
			Image:       req.Image,
			ParentID:    req.ParentID,
			Position:    req.Position,
			IsActive:    req.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, category)
	}
}

// Delete removes a category without products attached.
func (c *AdminCategoriesController) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := validators.ParsePathUUID(chi.URLParam(r, "categoryID"), "categoryID")
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		if err := c.catalog.DeleteCategory(r.Context(), categoryID); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteMessage(w, "category deleted")
	}
}
