package catalog

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxenest/luxenest-backend/pkg/db/models"
	"github.com/luxenest/luxenest-backend/pkg/pagination"
	"github.com/luxenest/luxenest-backend/pkg/redis"
)

type fakeCache struct {
	mu          sync.Mutex
	values      map[string]string
	invalidated int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case string:
		f.values[key] = v
	case []byte:
		f.values[key] = string(v)
	}
	return nil
}

func (f *fakeCache) InvalidateCatalog(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = map[string]string{}
	f.invalidated++
	return nil
}

func (f *fakeCache) CatalogKey(parts ...string) string {
	return "ln:catalog:" + strings.Join(parts, ":")
}

func TestListCacheKeyStableAndDistinct(t *testing.T) {
	svc := &service{cache: newFakeCache()}

	a := svc.listCacheKey(ListProductsInput{
		Filters:    ProductFilters{Query: "table"},
		Pagination: pagination.Params{Page: 1, Limit: 20},
	})
	b := svc.listCacheKey(ListProductsInput{
		Filters:    ProductFilters{Query: "table"},
		Pagination: pagination.Params{Page: 1, Limit: 20},
	})
	c := svc.listCacheKey(ListProductsInput{
		Filters:    ProductFilters{Query: "sofa"},
		Pagination: pagination.Params{Page: 1, Limit: 20},
	})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, "ln:catalog:products:"))
}

func TestListCacheKeySkipsAdminReads(t *testing.T) {
	svc := &service{cache: newFakeCache()}
	assert.Empty(t, svc.listCacheKey(ListProductsInput{IncludeInactive: true}))

	noCache := &service{}
	assert.Empty(t, noCache.listCacheKey(ListProductsInput{}))
}

func TestListProductsServesFromCache(t *testing.T) {
	cache := newFakeCache()
	svc := &service{repo: NewRepository(nil), cache: cache, cacheTTL: time.Minute}

	input := ListProductsInput{Pagination: pagination.Params{Page: 1, Limit: 20}}
	want := ProductListResult{
		Products: []models.Product{{Name: "Cached Armchair", Price: decimal.NewFromInt(350)}},
		Meta:     pagination.Meta{Page: 1, Limit: 20, Total: 1, TotalPages: 1},
	}
	payload, err := json.Marshal(want)
	require.NoError(t, err)
	require.NoError(t, cache.Set(context.Background(), svc.listCacheKey(input), payload, time.Minute))

	got, err := svc.ListProducts(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, got.Products, 1)
	assert.Equal(t, "Cached Armchair", got.Products[0].Name)
	assert.EqualValues(t, 1, got.Meta.Total)
}

func TestGenerateSKUFormat(t *testing.T) {
	sku := generateSKU()
	assert.True(t, strings.HasPrefix(sku, "LX-"))
	assert.NotEqual(t, sku, generateSKU())
}

func TestRoundPtr(t *testing.T) {
	assert.Nil(t, roundPtr(nil))

	raw := decimal.RequireFromString("19.999")
	rounded := roundPtr(&raw)
	require.NotNil(t, rounded)
	assert.Equal(t, "20", rounded.String())
}
