// Package dashboard aggregates store-wide figures for the admin overview.
package dashboard

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/luxenest/luxenest-backend/pkg/db/models"
	"github.com/luxenest/luxenest-backend/pkg/enums"
	pkgerrors "github.com/luxenest/luxenest-backend/pkg/errors"
)

const (
	recentOrdersLimit = 10
	topSellersLimit   = 5
)

// Overview is the admin dashboard payload.
type Overview struct {
	TotalUsers     int64                       `json:"total_users"`
	TotalProducts  int64                       `json:"total_products"`
	TotalOrders    int64                       `json:"total_orders"`
	Revenue        decimal.Decimal             `json:"revenue"`
	OrdersByStatus map[enums.OrderStatus]int64 `json:"orders_by_status"`
	RecentOrders   []models.Order              `json:"recent_orders"`
	TopSellers     []models.Product            `json:"top_sellers"`
}

// Service computes the overview from the primary database.
type Service struct {
	db *gorm.DB
}

// NewService constructs a dashboard service instance.
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle required")
	}
	return &Service{db: db}, nil
}

// Overview gathers all dashboard aggregates. Revenue excludes cancelled
// orders; everything else counts every row.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	overview := &Overview{
		Revenue:        decimal.Zero,
		OrdersByStatus: map[enums.OrderStatus]int64{},
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&overview.TotalUsers).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count users")
	}
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Count(&overview.TotalProducts).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	if err := s.db.WithContext(ctx).Model(&models.Order{}).Count(&overview.TotalOrders).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}

	var revenue struct {
		Total decimal.Decimal
	}
	err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0) AS total").
		Where("status <> ?", enums.OrderStatusCancelled).
		Scan(&revenue).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum revenue")
	}
	overview.Revenue = revenue.Total.Round(2)

	var byStatus []struct {
		Status enums.OrderStatus
		Total  int64
	}
	err = s.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&byStatus).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "group orders by status")
	}
	for _, row := range byStatus {
		overview.OrdersByStatus[row.Status] = row.Total
	}

	err = s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(recentOrdersLimit).
		Find(&overview.RecentOrders).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recent orders")
	}

	err = s.db.WithContext(ctx).
		Where("sales_count > 0").
		Order("sales_count DESC").
		Limit(topSellersLimit).
		Find(&overview.TopSellers).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load top sellers")
	}

	return overview, nil
}
