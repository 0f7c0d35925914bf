package enums

import "fmt"

// ProductSort names the sort orders the catalog endpoint accepts.
type ProductSort string

const (
	ProductSortPriceLow  ProductSort = "price-low"
	ProductSortPriceHigh ProductSort = "price-high"
	ProductSortRating    ProductSort = "rating"
	ProductSortNewest    ProductSort = "newest"
)

var validProductSorts = []ProductSort{
	ProductSortPriceLow,
	ProductSortPriceHigh,
	ProductSortRating,
	ProductSortNewest,
}

// String implements fmt.Stringer.
func (s ProductSort) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductSort.
func (s ProductSort) IsValid() bool {
	for _, candidate := range validProductSorts {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProductSort converts raw input into a ProductSort. Empty input maps to
// the default (newest-first) order.
func ParseProductSort(value string) (ProductSort, error) {
	if value == "" {
		return ProductSortNewest, nil
	}
	for _, candidate := range validProductSorts {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product sort %q", value)
}
