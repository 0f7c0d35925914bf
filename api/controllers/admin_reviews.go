package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/luxenest/luxenest-backend/api/responses"
	"github.com/luxenest/luxenest-backend/api/validators"
	"github.com/luxenest/luxenest-backend/internal/reviews"
	"github.com/luxenest/luxenest-backend/pkg/logger"
)

// AdminReviewsController serves review moderation.
type AdminReviewsController struct {
	reviews reviews.Service
	logg    *logger.Logger
}

// NewAdminReviewsController builds the moderation handlers.
func NewAdminReviewsController(reviewsService reviews.Service, logg *logger.Logger) *AdminReviewsController {
	return &AdminReviewsController{reviews: reviewsService, logg: logg}
}

// List returns reviews, optionally filtered by approval state.
func (c *AdminReviewsController) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		input := reviews.ListInput{
			Approved:   parseBoolFlag(r.URL.Query().Get("approved")),
			Pagination: params,
		}

		page, err := c.reviews.AdminListReviews(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WritePage(w, page.Reviews, page.Meta)
	}
}

type setApprovalRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}

// SetApproval approves or hides a review and refreshes the product rating.
func (c *AdminReviewsController) SetApproval() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviewID, err := validators.ParsePathUUID(chi.URLParam(r, "reviewID"), "reviewID")
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		var req setApprovalRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		review, err := c.reviews.AdminSetApproval(r.Context(), reviewID, *req.Approved)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, review)
	}
}

// Delete removes a review and refreshes the product rating.
func (c *AdminReviewsController) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviewID, err := validators.ParsePathUUID(chi.URLParam(r, "reviewID"), "reviewID")
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}

		if err := c.reviews.AdminDeleteReview(r.Context(), reviewID); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteMessage(w, "review deleted")
	}
}
