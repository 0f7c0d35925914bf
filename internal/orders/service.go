package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/luxenest/luxenest-backend/internal/cart"
	"github.com/luxenest/luxenest-backend/pkg/config"
	"github.com/luxenest/luxenest-backend/pkg/db/models"
	"github.com/luxenest/luxenest-backend/pkg/enums"
	pkgerrors "github.com/luxenest/luxenest-backend/pkg/errors"
	"github.com/luxenest/luxenest-backend/pkg/logger"
	"github.com/luxenest/luxenest-backend/pkg/mailer"
	"github.com/luxenest/luxenest-backend/pkg/types"
)

// txRunner executes fn in a database transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// addressLoader resolves a saved address owned by the user.
type addressLoader interface {
	FindAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error)
}

// userLoader resolves the account placing the order, for confirmation mail.
type userLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service exposes checkout and order lifecycle operations.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*models.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID, input ListInput) (*OrderListResult, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)

	AdminListOrders(ctx context.Context, input ListInput) (*OrderListResult, error)
	AdminGetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, input AdminStatusUpdateInput) (*models.Order, error)
}

type service struct {
	repo      *Repository
	carts     *cart.Repository
	addresses addressLoader
	users     userLoader
	tx        txRunner
	pricing   config.PricingConfig
	mail      mailer.Mailer
	logg      *logger.Logger
}

// NewService constructs an order service instance.
func NewService(
	repo *Repository,
	carts *cart.Repository,
	addresses addressLoader,
	users userLoader,
	tx txRunner,
	pricing config.PricingConfig,
	mail mailer.Mailer,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if addresses == nil {
		return nil, fmt.Errorf("address loader required")
	}
	if users == nil {
		return nil, fmt.Errorf("user loader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      repo,
		carts:     carts,
		addresses: addresses,
		users:     users,
		tx:        tx,
		pricing:   pricing,
		mail:      mail,
		logg:      logg,
	}, nil
}

func (s *service) Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*models.Order, error) {
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}

	shipTo, err := s.resolveShippingAddress(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
	}

	var placed *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.carts.WithTx(tx)

		userCart, err := cartRepo.GetOrCreate(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if len(userCart.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		// Re-read live products inside the transaction. Cart lines carry the
		// price at add time; checkout always charges the current price.
		items := make([]models.OrderItem, 0, len(userCart.Items))
		pricingLines := make([]PricingLine, 0, len(userCart.Items))
		reservations := make([]ReservationLine, 0, len(userCart.Items))
		for _, line := range userCart.Items {
			var product models.Product
			err := tx.WithContext(ctx).First(&product, "id = ?", line.ProductID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "product is no longer available").
					WithDetails(map[string]any{"product_id": line.ProductID.String()})
			}
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
			}
			if !product.IsActive {
				return pkgerrors.New(pkgerrors.CodeValidation, "product is no longer available").
					WithDetails(map[string]any{"product": product.Name})
			}

			items = append(items, models.OrderItem{
				ID:           uuid.New(),
				ProductID:    product.ID,
				ProductName:  product.Name,
				ProductSKU:   product.SKU,
				ProductImage: product.FirstImage(),
				Price:        product.Price,
				Color:        line.Color,
				Quantity:     line.Quantity,
				LineTotal:    product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2),
			})
			pricingLines = append(pricingLines, PricingLine{Price: product.Price, Quantity: line.Quantity})
			reservations = append(reservations, ReservationLine{ProductID: product.ID, Quantity: line.Quantity})
		}

		if err := ReserveStock(ctx, tx, reservations); err != nil {
			return err
		}

		totals := ComputeTotals(s.pricing, pricingLines, decimal.Zero)
		order := &models.Order{
			ID:              uuid.New(),
			OrderNumber:     NewOrderNumber(time.Now()),
			UserID:          userID,
			Status:          enums.OrderStatusPending,
			PaymentStatus:   enums.PaymentStatusPending,
			PaymentMethod:   input.PaymentMethod,
			Subtotal:        totals.Subtotal,
			Discount:        totals.Discount,
			ShippingFee:     totals.Shipping,
			Tax:             totals.Tax,
			Total:           totals.Total,
			ShippingAddress: shipTo,
			Notes:           input.Notes,
			Items:           items,
		}
		if err := VerifyOrderTotals(order); err != nil {
			return err
		}

		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := cartRepo.Clear(ctx, userCart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}

		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithOrderNumber(ctx, placed.OrderNumber)
	s.logg.Info(ctx, "order placed")
	s.sendConfirmation(ctx, user, placed)

	return placed, nil
}

func (s *service) ListOrders(ctx context.Context, userID uuid.UUID, input ListInput) (*OrderListResult, error) {
	result, err := s.repo.ListByUser(ctx, userID, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return result, nil
}

func (s *service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.loadOrder(ctx, s.repo, orderID)
	if err != nil {
		return nil, err
	}
	// Non-owners get the same not-found as a missing order.
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	var cancelled *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.loadOrder(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if order.UserID != userID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		if err := ValidateUserCancel(order.Status); err != nil {
			return err
		}

		if err := s.cancelInTx(ctx, tx, repo, order); err != nil {
			return err
		}
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithOrderNumber(ctx, cancelled.OrderNumber)
	s.logg.Info(ctx, "order cancelled by customer")
	return cancelled, nil
}

func (s *service) AdminListOrders(ctx context.Context, input ListInput) (*OrderListResult, error) {
	result, err := s.repo.ListAll(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return result, nil
}

func (s *service) AdminGetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.loadOrder(ctx, s.repo, orderID)
}

func (s *service) AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, input AdminStatusUpdateInput) (*models.Order, error) {
	if input.Status == nil && input.PaymentStatus == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}
	if input.PaymentStatus != nil && !input.PaymentStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment status")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.loadOrder(ctx, repo, orderID)
		if err != nil {
			return err
		}

		if input.Status != nil && *input.Status != order.Status {
			if err := ValidateAdminTransition(order.Status, *input.Status); err != nil {
				return err
			}
			switch *input.Status {
			case enums.OrderStatusCancelled:
				if err := s.cancelInTx(ctx, tx, repo, order); err != nil {
					return err
				}
			case enums.OrderStatusDelivered:
				now := time.Now()
				order.Status = *input.Status
				order.DeliveredAt = &now
			default:
				order.Status = *input.Status
			}
		}
		if input.PaymentStatus != nil {
			order.PaymentStatus = *input.PaymentStatus
		}

		if err := repo.Save(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_number": updated.OrderNumber,
		"status":       updated.Status.String(),
	})
	s.logg.Info(ctx, "order status updated")
	return updated, nil
}

// cancelInTx marks the order cancelled and returns its stock. The status
// write happens via the surrounding Save, except in CancelOrder which saves
// here directly.
func (s *service) cancelInTx(ctx context.Context, tx *gorm.DB, repo *Repository, order *models.Order) error {
	lines := make([]ReservationLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, ReservationLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	if err := ReleaseStock(ctx, tx, lines); err != nil {
		return err
	}

	now := time.Now()
	order.Status = enums.OrderStatusCancelled
	order.CancelledAt = &now
	return repo.Save(ctx, order)
}

func (s *service) loadOrder(ctx context.Context, repo *Repository, orderID uuid.UUID) (*models.Order, error) {
	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) resolveShippingAddress(ctx context.Context, userID uuid.UUID, input CheckoutInput) (types.Address, error) {
	if input.ShippingAddress != nil {
		return *input.ShippingAddress, nil
	}
	if input.AddressID == nil {
		return types.Address{}, pkgerrors.New(pkgerrors.CodeValidation, "shipping address required")
	}

	saved, err := s.addresses.FindAddress(ctx, userID, *input.AddressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.Address{}, pkgerrors.New(pkgerrors.CodeValidation, "saved address not found")
		}
		return types.Address{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	return saved.AsValue(), nil
}

// sendConfirmation delivers the order confirmation mail. Failures are logged
// and never fail the request.
func (s *service) sendConfirmation(ctx context.Context, user *models.User, order *models.Order) {
	if s.mail == nil {
		return
	}
	msg := mailer.Message{
		To:      user.Email,
		Subject: "Your LuxeNest order " + order.OrderNumber,
		Body: fmt.Sprintf("Hi %s, we received your order %s for a total of %s.",
			user.Name, order.OrderNumber, order.Total.StringFixed(2)),
	}
	go func() {
		bg := context.WithoutCancel(ctx)
		if err := s.mail.Send(bg, msg); err != nil {
			s.logg.Error(bg, "order confirmation mail failed", err)
		}
	}()
}
