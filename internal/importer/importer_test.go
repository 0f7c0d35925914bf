package importer

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/luxenest/luxenest-backend/pkg/config"
	"github.com/luxenest/luxenest-backend/pkg/db/models"
	pkgerrors "github.com/luxenest/luxenest-backend/pkg/errors"
	"github.com/luxenest/luxenest-backend/pkg/logger"
)

type stubRows struct {
	rows [][]string
	err  error
}

func (s stubRows) Rows() ([][]string, error) {
	return s.rows, s.err
}

type stubCatalog struct {
	categories map[string]uuid.UUID
	batch      []models.Product
	inserted   int64
}

func (s *stubCatalog) FindCategoryByName(_ context.Context, name string) (*models.Category, error) {
	for stored, id := range s.categories {
		if strings.EqualFold(stored, name) {
			return &models.Category{ID: id, Name: stored}, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalog) BulkInsertProducts(_ context.Context, products []models.Product) (int64, error) {
	s.batch = products
	if s.inserted >= 0 {
		return s.inserted, nil
	}
	return int64(len(products)), nil
}

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	value, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return value
}

func newTestImporter(t *testing.T, stub *stubCatalog) *Importer {
	t.Helper()
	return &Importer{
		categories: stub,
		inserter:   stub,
		cfg:        config.ImportConfig{MaxRows: 100},
		logg:       logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	}
}

func TestImportValidAndInvalidRows(t *testing.T) {
	stub := &stubCatalog{
		categories: map[string]uuid.UUID{"Living Room": uuid.New()},
		inserted:   -1,
	}
	im := newTestImporter(t, stub)

	report, err := im.Import(context.Background(), stubRows{rows: [][]string{
		{"Name", "PRICE", "Category", "Description", "Stock", "Image"},
		{"Oak Coffee Table", "450.00", "living room", "Solid oak", "10", "https://cdn.example/oak.jpg"},
		{"", "100.00", "Living Room", "", "", ""},                    // row 3: missing name
		{"Walnut Shelf", "-5", "Living Room", "", "", ""},            // row 4: negative price
		{"Pine Stool", "80.00", "Garage", "", "", ""},                // row 5: unknown category
		{"Linen Cushion", "35.50", "Living Room", "", "notanum", ""}, // row 6: bad stock
		{"Rattan Basket", "25.00", "Living Room", "", "", ""},
	}})
	require.NoError(t, err)

	// 6 data rows, 4 invalid: exactly 2 inserted and 4 row errors.
	assert.Equal(t, 2, report.Inserted)
	assert.Len(t, report.Errors, 4)
	assert.Equal(t, []int{3, 4, 5, 6}, rowNumbers(report.Errors))

	require.Len(t, stub.batch, 2)
	first := stub.batch[0]
	assert.Equal(t, "Oak Coffee Table", first.Name)
	assert.True(t, first.Price.Equal(decimalFromString(t, "450.00")))
	assert.Equal(t, 10, first.Stock)
	assert.NotEmpty(t, first.SKU)
	assert.NotEmpty(t, first.Slug)
	require.Len(t, first.Images, 1)
	assert.Equal(t, "https://cdn.example/oak.jpg", first.Images[0])
}

func TestImportCountsDuplicateKeySkips(t *testing.T) {
	stub := &stubCatalog{
		categories: map[string]uuid.UUID{"Bedroom": uuid.New()},
		inserted:   1, // the insert lands one row; the other hits a conflict
	}
	im := newTestImporter(t, stub)

	report, err := im.Import(context.Background(), stubRows{rows: [][]string{
		{"name", "price", "category"},
		{"Cane Bed Frame", "880.00", "Bedroom"},
		{"Cane Bed Frame", "880.00", "Bedroom"},
	}})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, report.Errors)
}

func TestImportSkipsBlankRows(t *testing.T) {
	stub := &stubCatalog{
		categories: map[string]uuid.UUID{"Bedroom": uuid.New()},
		inserted:   -1,
	}
	im := newTestImporter(t, stub)

	report, err := im.Import(context.Background(), stubRows{rows: [][]string{
		{"name", "price", "category"},
		{"", "", ""},
		{"Ash Nightstand", "260.00", "Bedroom"},
	}})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Inserted)
	assert.Empty(t, report.Errors)
}

func TestImportRejectsMissingRequiredColumns(t *testing.T) {
	im := newTestImporter(t, &stubCatalog{inserted: -1})

	_, err := im.Import(context.Background(), stubRows{rows: [][]string{
		{"name", "description"},
		{"Oak Coffee Table", "Solid oak"},
	}})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestImportRejectsOversizedSheets(t *testing.T) {
	im := newTestImporter(t, &stubCatalog{inserted: -1})
	im.cfg.MaxRows = 1

	_, err := im.Import(context.Background(), stubRows{rows: [][]string{
		{"name", "price", "category"},
		{"A", "1", "X"},
		{"B", "1", "X"},
	}})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestImportPropagatesReaderFailure(t *testing.T) {
	im := newTestImporter(t, &stubCatalog{inserted: -1})

	_, err := im.Import(context.Background(), stubRows{err: errors.New("corrupt workbook")})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func rowNumbers(errs []RowError) []int {
	nums := make([]int, 0, len(errs))
	for _, e := range errs {
		nums = append(nums, e.Row)
	}
	return nums
}
