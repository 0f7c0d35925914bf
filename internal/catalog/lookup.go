package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/luxenest/luxenest-backend/pkg/errors"
)

// Lookup resolves a product reference that may be a UUID or a SKU. A
// reference that parses as a UUID is only tried as an ID; anything else is
// tried as a SKU. Missing products resolve to LookupMissing without error.
func (s *service) Lookup(ctx context.Context, ref string) (LookupResult, error) {
	if id, err := uuid.Parse(ref); err == nil {
		product, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return LookupResult{Kind: LookupMissing}, nil
			}
			return LookupResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product by id")
		}
		return LookupResult{Kind: LookupByID, Product: product}, nil
	}

	product, err := s.repo.FindBySKU(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LookupResult{Kind: LookupMissing}, nil
		}
		return LookupResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product by sku")
	}
	return LookupResult{Kind: LookupBySKU, Product: product}, nil
}
