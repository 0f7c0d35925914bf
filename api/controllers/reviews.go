package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/luxenest/luxenest-backend/api/responses"
	"github.com/luxenest/luxenest-backend/api/validators"
	"github.com/luxenest/luxenest-backend/internal/reviews"
	"github.com/luxenest/luxenest-backend/pkg/logger"
)

// ReviewsController serves product review reads and creation.
type ReviewsController struct {
	reviews reviews.Service
	logg    *logger.Logger
}

// NewReviewsController builds the review handlers.
func NewReviewsController(reviewsService reviews.Service, logg *logger.Logger) *ReviewsController {
	return &ReviewsController{reviews: reviewsService, logg: logg}
}

// ListForProduct returns the approved reviews of a product.
func (c *ReviewsController) ListForProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productRef"), "productRef")
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		page, err := c.reviews.ListProductReviews(r.Context(), productID, params)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WritePage(w, page.Reviews, page.Meta)
	}
}

type createReviewRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Title     string    `json:"title"`
	Comment   string    `json:"comment"`
}

// Create posts a review for the authenticated user.
func (c *ReviewsController) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		var req createReviewRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		review, err := c.reviews.CreateReview(r.Context(), userID, reviews.CreateReviewInput{
			ProductID: req.ProductID,
			Rating:    req.Rating,
			Title:     req.Title,
			Comment:   req.Comment,
		})
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, review)
	}
}
