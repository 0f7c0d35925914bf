// Package importer turns spreadsheet rows into catalog products with
// per-row error collection: bad rows are reported, good rows still land.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/luxenest/luxenest-backend/internal/catalog"
	"github.com/luxenest/luxenest-backend/pkg/config"
	"github.com/luxenest/luxenest-backend/pkg/db/models"
	pkgerrors "github.com/luxenest/luxenest-backend/pkg/errors"
	"github.com/luxenest/luxenest-backend/pkg/logger"
	"github.com/luxenest/luxenest-backend/pkg/slugs"
)

// RowError reports why one spreadsheet row was skipped. Row numbers are
// 1-based spreadsheet rows, so the header is row 1 and data starts at row 2.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Report summarizes one import run.
type Report struct {
	Inserted int        `json:"inserted"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors"`
}

// recognized header names, matched case-insensitively.
const (
	colName        = "name"
	colPrice       = "price"
	colCategory    = "category"
	colDescription = "description"
	colStock       = "stock"
	colImage       = "image"
	colBrand       = "brand"
)

// categoryResolver maps a spreadsheet category name to a stored category.
type categoryResolver interface {
	FindCategoryByName(ctx context.Context, name string) (*models.Category, error)
}

// bulkInserter lands the validated batch in one statement.
type bulkInserter interface {
	BulkInsertProducts(ctx context.Context, products []models.Product) (int64, error)
}

// cacheInvalidator drops cached catalog pages after a successful import.
type cacheInvalidator interface {
	InvalidateCatalog(ctx context.Context) error
}

// Importer validates and inserts product rows.
type Importer struct {
	categories categoryResolver
	inserter   bulkInserter
	cache      cacheInvalidator
	cfg        config.ImportConfig
	logg       *logger.Logger
}

// New constructs an importer. The cache may be nil.
func New(repo *catalog.Repository, cache cacheInvalidator, cfg config.ImportConfig, logg *logger.Logger) (*Importer, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Importer{
		categories: repo,
		inserter:   repo,
		cache:      cache,
		cfg:        cfg,
		logg:       logg,
	}, nil
}

// Import reads every row, validates independently, and bulk-inserts the valid
// ones. A failed row never blocks the rest.
func (im *Importer) Import(ctx context.Context, reader RowReader) (*Report, error) {
	rows, err := reader.Rows()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read spreadsheet")
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "spreadsheet is empty")
	}
	if im.cfg.MaxRows > 0 && len(rows)-1 > im.cfg.MaxRows {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "spreadsheet exceeds the row limit").
			WithDetails(map[string]any{"max_rows": im.cfg.MaxRows, "rows": len(rows) - 1})
	}

	columns, err := mapHeaders(rows[0])
	if err != nil {
		return nil, err
	}

	report := &Report{Errors: []RowError{}}
	products := make([]models.Product, 0, len(rows)-1)
	resolved := map[string]*models.Category{}

	for i, cells := range rows[1:] {
		rowNum := i + 2 // 1-based, header occupies row 1
		if isBlankRow(cells) {
			continue
		}

		product, rowErr := im.buildProduct(ctx, columns, cells, resolved)
		if rowErr != nil {
			report.Errors = append(report.Errors, RowError{Row: rowNum, Message: rowErr.Error()})
			continue
		}
		products = append(products, *product)
	}

	inserted, err := im.inserter.BulkInsertProducts(ctx, products)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bulk insert products")
	}
	report.Inserted = int(inserted)
	report.Skipped = len(report.Errors) + (len(products) - int(inserted))

	if im.cache != nil && inserted > 0 {
		if err := im.cache.InvalidateCatalog(ctx); err != nil {
			im.logg.Warn(im.logg.WithField(ctx, "error", err.Error()), "catalog cache invalidation failed")
		}
	}

	ctx = im.logg.WithFields(ctx, map[string]any{
		"inserted": report.Inserted,
		"skipped":  report.Skipped,
	})
	im.logRowErrors(ctx, report)
	return report, nil
}

func (im *Importer) buildProduct(ctx context.Context, columns map[string]int, cells []string, resolved map[string]*models.Category) (*models.Product, error) {
	name := strings.TrimSpace(cell(cells, columns, colName))
	if name == "" {
		return nil, errors.New("name is required")
	}

	rawPrice := strings.TrimSpace(cell(cells, columns, colPrice))
	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return nil, fmt.Errorf("price %q is not a number", rawPrice)
	}
	if !price.IsPositive() {
		return nil, fmt.Errorf("price must be positive, got %s", price)
	}

	categoryName := strings.TrimSpace(cell(cells, columns, colCategory))
	if categoryName == "" {
		return nil, errors.New("category is required")
	}
	category, err := im.resolveCategory(ctx, categoryName, resolved)
	if err != nil {
		return nil, err
	}

	stock := 0
	if raw := strings.TrimSpace(cell(cells, columns, colStock)); raw != "" {
		stock, err = strconv.Atoi(raw)
		if err != nil || stock < 0 {
			return nil, fmt.Errorf("stock %q is not a non-negative integer", raw)
		}
	}

	product := &models.Product{
		ID:          uuid.New(),
		SKU:         "LX-" + uuid.NewString()[:8],
		Name:        name,
		Slug:        slugs.WithSuffix(name),
		Description: strings.TrimSpace(cell(cells, columns, colDescription)),
		Price:       price.Round(2),
		Stock:       stock,
		CategoryID:  &category.ID,
		Brand:       strings.TrimSpace(cell(cells, columns, colBrand)),
		IsActive:    true,
	}
	if image := strings.TrimSpace(cell(cells, columns, colImage)); image != "" {
		product.Images = pq.StringArray{image}
	}
	return product, nil
}

func (im *Importer) resolveCategory(ctx context.Context, name string, resolved map[string]*models.Category) (*models.Category, error) {
	key := strings.ToLower(name)
	if category, ok := resolved[key]; ok {
		if category == nil {
			return nil, fmt.Errorf("category %q does not exist", name)
		}
		return category, nil
	}

	category, err := im.categories.FindCategoryByName(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		resolved[key] = nil
		return nil, fmt.Errorf("category %q does not exist", name)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve category %q: %w", name, err)
	}
	resolved[key] = category
	return category, nil
}

// mapHeaders resolves recognized column names case-insensitively. Name and
// price are mandatory columns.
func mapHeaders(header []string) (map[string]int, error) {
	columns := map[string]int{}
	for i, raw := range header {
		key := strings.ToLower(strings.TrimSpace(raw))
		switch key {
		case colName, colPrice, colCategory, colDescription, colStock, colImage, colBrand:
			if _, dup := columns[key]; !dup {
				columns[key] = i
			}
		}
	}
	for _, required := range []string{colName, colPrice, colCategory} {
		if _, ok := columns[required]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "missing required column").
				WithDetails(map[string]any{"column": required})
		}
	}
	return columns, nil
}

func cell(cells []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (im *Importer) logRowErrors(ctx context.Context, report *Report) {
	if len(report.Errors) == 0 {
		im.logg.Info(ctx, "import completed")
		return
	}
	var combined error
	for _, rowErr := range report.Errors {
		combined = multierr.Append(combined, fmt.Errorf("row %d: %s", rowErr.Row, rowErr.Message))
	}
	im.logg.Warn(im.logg.WithField(ctx, "row_errors", combined.Error()), "import completed with skipped rows")
}
