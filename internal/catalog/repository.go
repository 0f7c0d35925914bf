package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/luxenest/luxenest-backend/pkg/db/models"
	"github.com/luxenest/luxenest-backend/pkg/enums"
	"github.com/luxenest/luxenest-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

// Repository wires together catalog persistence for products and categories.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product with its category.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySKU loads the product by its external SKU.
func (r *Repository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySlug loads the product by its URL slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct updates an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product by ID.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// BulkInsertProducts inserts the batch in one statement, skipping rows that
// collide on a unique key. Returns how many rows were actually inserted.
func (r *Repository) BulkInsertProducts(ctx context.Context, products []models.Product) (int64, error) {
	if len(products) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&products)
	return res.RowsAffected, res.Error
}

// UpdateRating writes the recomputed rating aggregate for a product.
func (r *Repository) UpdateRating(ctx context.Context, productID uuid.UUID, rating decimal.Decimal, reviewsCount int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"rating":        rating,
			"reviews_count": reviewsCount,
		}).Error
}

// List returns one page of products matching the filters plus the total
// count for page math.
func (r *Repository) List(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	qb := r.db.WithContext(ctx).Model(&models.Product{})
	qb = applyFilters(qb, input)

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, err
	}

	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	var rows []models.Product
	err := applySort(qb, input.Filters.Sort).
		Preload("Category").
		Limit(limit).
		Offset(input.Pagination.Offset()).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	return &ProductListResult{
		Products: rows,
		Meta:     pagination.BuildMeta(input.Pagination, total),
	}, nil
}

func applyFilters(qb *gorm.DB, input ListProductsInput) *gorm.DB {
	if !input.IncludeInactive {
		qb = qb.Where("is_active = ?", true)
	}

	filter := input.Filters
	if slug := strings.TrimSpace(filter.CategorySlug); slug != "" {
		qb = qb.Where("category_id IN (SELECT id FROM categories WHERE slug = ?)", slug)
	}
	if filter.MinPrice != nil {
		qb = qb.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		qb = qb.Where("price <= ?", *filter.MaxPrice)
	}
	if color := strings.TrimSpace(filter.Color); color != "" {
		qb = qb.Where("? = ANY(colors)", color)
	}
	if material := strings.TrimSpace(filter.Material); material != "" {
		qb = qb.Where("? = ANY(materials)", material)
	}
	if brand := strings.TrimSpace(filter.Brand); brand != "" {
		qb = qb.Where("LOWER(brand) = ?", strings.ToLower(brand))
	}
	if filter.IsFeatured != nil {
		qb = qb.Where("is_featured = ?", *filter.IsFeatured)
	}
	if filter.IsNew != nil {
		qb = qb.Where("is_new = ?", *filter.IsNew)
	}
	if filter.IsSale != nil {
		qb = qb.Where("is_sale = ?", *filter.IsSale)
	}
	if filter.IsBestSeller != nil {
		qb = qb.Where("is_best_seller = ?", *filter.IsBestSeller)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	return qb
}

func applySort(qb *gorm.DB, sort enums.ProductSort) *gorm.DB {
	switch sort {
	case enums.ProductSortPriceLow:
		return qb.Order("price ASC").Order("id ASC")
	case enums.ProductSortPriceHigh:
		return qb.Order("price DESC").Order("id ASC")
	case enums.ProductSortRating:
		return qb.Order("rating DESC").Order("id ASC")
	default:
		return qb.Order("created_at DESC").Order("id ASC")
	}
}

// ListCategories returns active categories ordered by position then name.
func (r *Repository) ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	qb := r.db.WithContext(ctx).Model(&models.Category{})
	if !includeInactive {
		qb = qb.Where("is_active = ?", true)
	}
	var rows []models.Category
	err := qb.Order("position ASC").Order("name ASC").Find(&rows).Error
	return rows, err
}

// FindCategoryByID loads a category row.
func (r *Repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindCategoryByName resolves a category case-insensitively by name. Used by
// the bulk importer.
func (r *Repository) FindCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&category).
		Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategory inserts a new category row.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory updates an existing category row.
func (r *Repository) UpdateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category. Products keep their rows with the FK
// nulled out by the schema.
func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{}).Error
}
