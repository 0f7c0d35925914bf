package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luxenest/luxenest-backend/internal/catalog"
	"github.com/luxenest/luxenest-backend/pkg/db/models"
	pkgerrors "github.com/luxenest/luxenest-backend/pkg/errors"
	"github.com/luxenest/luxenest-backend/pkg/logger"
	"github.com/luxenest/luxenest-backend/pkg/pagination"
)

// deliveredChecker reports whether the user received the product. Drives the
// verified-purchase flag and auto-approval.
type deliveredChecker interface {
	HasDeliveredOrderWithProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}

// txRunner executes fn in a database transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateReviewInput is the validated payload for posting a review.
type CreateReviewInput struct {
	ProductID uuid.UUID
	Rating    int
	Title     string
	Comment   string
}

// ListInput pages reviews on the moderation surface.
type ListInput struct {
	Approved   *bool
	Pagination pagination.Params
}

// ReviewPage is one page of reviews plus metadata.
type ReviewPage struct {
	Reviews []models.Review
	Meta    pagination.Meta
}

// Service exposes review creation, listing, and moderation.
type Service interface {
	CreateReview(ctx context.Context, userID uuid.UUID, input CreateReviewInput) (*models.Review, error)
	ListProductReviews(ctx context.Context, productID uuid.UUID, params pagination.Params) (*ReviewPage, error)

	AdminListReviews(ctx context.Context, input ListInput) (*ReviewPage, error)
	AdminSetApproval(ctx context.Context, reviewID uuid.UUID, approved bool) (*models.Review, error)
	AdminDeleteReview(ctx context.Context, reviewID uuid.UUID) error
}

type service struct {
	repo     *Repository
	products *catalog.Repository
	orders   deliveredChecker
	tx       txRunner
	logg     *logger.Logger
}

// NewService constructs a review service instance.
func NewService(repo *Repository, products *catalog.Repository, orders deliveredChecker, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("review repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("delivered checker required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, products: products, orders: orders, tx: tx, logg: logg}, nil
}

func (s *service) CreateReview(ctx context.Context, userID uuid.UUID, input CreateReviewInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}

	verified, err := s.orders.HasDeliveredOrderWithProduct(ctx, userID, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check purchase history")
	}

	review := &models.Review{
		ID:                 uuid.New(),
		UserID:             userID,
		ProductID:          product.ID,
		Rating:             input.Rating,
		Title:              input.Title,
		Comment:            input.Comment,
		IsVerifiedPurchase: verified,
		IsApproved:         verified,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, review); err != nil {
			if pkgerrors.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "you have already reviewed this product")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
		}
		if review.IsApproved {
			return s.recomputeRating(ctx, tx, product.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return review, nil
}

func (s *service) ListProductReviews(ctx context.Context, productID uuid.UUID, params pagination.Params) (*ReviewPage, error) {
	rows, meta, err := s.repo.ListApprovedByProduct(ctx, productID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return &ReviewPage{Reviews: rows, Meta: meta}, nil
}

func (s *service) AdminListReviews(ctx context.Context, input ListInput) (*ReviewPage, error) {
	rows, meta, err := s.repo.ListAll(ctx, input.Approved, input.Pagination)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return &ReviewPage{Reviews: rows, Meta: meta}, nil
}

func (s *service) AdminSetApproval(ctx context.Context, reviewID uuid.UUID, approved bool) (*models.Review, error) {
	var updated *models.Review
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		review, err := repo.FindByID(ctx, reviewID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
		}

		if review.IsApproved != approved {
			review.IsApproved = approved
			if err := repo.Save(ctx, review); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update review")
			}
			if err := s.recomputeRating(ctx, tx, review.ProductID); err != nil {
				return err
			}
		}
		updated = review
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) AdminDeleteReview(ctx context.Context, reviewID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		review, err := repo.FindByID(ctx, reviewID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
		}

		if err := repo.Delete(ctx, review.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
		}
		if review.IsApproved {
			return s.recomputeRating(ctx, tx, review.ProductID)
		}
		return nil
	})
}

// recomputeRating re-derives the product's aggregate from approved reviews in
// the same transaction as the write that changed them.
func (s *service) recomputeRating(ctx context.Context, tx *gorm.DB, productID uuid.UUID) error {
	rating, count, err := s.repo.WithTx(tx).ApprovedStats(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate reviews")
	}
	if err := s.products.WithTx(tx).UpdateRating(ctx, productID, rating, count); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product rating")
	}
	return nil
}
