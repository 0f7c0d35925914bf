package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/luxenest/luxenest-backend/pkg/db/models"
	pkgerrors "github.com/luxenest/luxenest-backend/pkg/errors"
)

// productLoader resolves the live product row for cart writes.
type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// AddItemInput is the validated payload for adding to the cart.
type AddItemInput struct {
	ProductID uuid.UUID
	Color     string
	Quantity  int
}

// CartView is the cart plus derived totals for responses.
type CartView struct {
	Cart     *models.Cart
	Subtotal decimal.Decimal
	Count    int
}

// Service exposes the per-user cart operations.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartView, error)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartView, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartView, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo     *Repository
	products productLoader
}

// NewService constructs a cart service instance.
func NewService(repo *Repository, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return buildView(cart), nil
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartView, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
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

	color := strings.TrimSpace(input.Color)
	if color != "" && !containsFold(product.Colors, color) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "color not offered for this product").
			WithDetails(map[string]any{"colors": []string(product.Colors)})
	}

	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	line, err := s.repo.FindLine(ctx, cart.ID, product.ID, color)
	switch {
	case err == nil:
		if err := s.repo.UpdateLineQuantity(ctx, line.ID, line.Quantity+input.Quantity); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "merge cart line")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := &models.CartItem{
			ID:        uuid.New(),
			CartID:    cart.ID,
			ProductID: product.ID,
			Color:     color,
			Quantity:  input.Quantity,
			Price:     product.Price,
		}
		if err := s.repo.CreateLine(ctx, item); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart line")
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	return s.GetCart(ctx, userID)
}

func (s *service) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartView, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	if _, err := s.ownedLine(ctx, userID, itemID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateLineQuantity(ctx, itemID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
	}
	return s.GetCart(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartView, error) {
	if _, err := s.ownedLine(ctx, userID, itemID); err != nil {
		return nil, err
	}
	if err := s.repo.DeleteLine(ctx, itemID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
	}
	return s.GetCart(ctx, userID)
}

func (s *service) ClearCart(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if err := s.repo.Clear(ctx, cart.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// ownedLine loads the line and checks it belongs to the user's cart.
func (s *service) ownedLine(ctx context.Context, userID, itemID uuid.UUID) (*models.CartItem, error) {
	line, err := s.repo.FindLineByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if line.CartID != cart.ID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return line, nil
}

func buildView(cart *models.Cart) *CartView {
	subtotal := decimal.Zero
	count := 0
	for _, item := range cart.Items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		count += item.Quantity
	}
	return &CartView{
		Cart:     cart,
		Subtotal: subtotal.Round(2),
		Count:    count,
	}
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}
