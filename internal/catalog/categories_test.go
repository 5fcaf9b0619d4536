package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
)

func TestCategoryCacheLoadsOnce(t *testing.T) {
	gw := &stubGateway{categories: []models.Category{
		{Slug: "beauty", DisplayName: "Beauty"},
		{Slug: "groceries", DisplayName: "Groceries"},
	}}
	cache := NewCategoryCache(gw)
	ctx := context.Background()

	first, err := cache.EnsureLoaded(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	second, err := cache.EnsureLoaded(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, gw.categoryCalls, "populated cache must not refetch")
}

func TestCategoryCacheRetriesAfterFailure(t *testing.T) {
	gw := &stubGateway{err: errors.New("upstream down")}
	cache := NewCategoryCache(gw)
	ctx := context.Background()

	_, err := cache.EnsureLoaded(ctx)
	require.Error(t, err)

	// A failed load leaves the cache empty, so the next call fetches again.
	gw.err = nil
	gw.categories = []models.Category{{Slug: "beauty", DisplayName: "Beauty"}}
	categories, err := cache.EnsureLoaded(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
	assert.Equal(t, 2, gw.categoryCalls)
}
