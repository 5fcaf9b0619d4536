package catalog

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"storefront/internal/models"
)

// CategoryCache holds the category list for the session. It loads lazily
// on first use and never refreshes once populated.
type CategoryCache struct {
	gw  Gateway
	sfg singleflight.Group

	mu         sync.RWMutex
	categories []models.Category
}

func NewCategoryCache(gw Gateway) *CategoryCache {
	return &CategoryCache{gw: gw}
}

// EnsureLoaded returns the cached categories, fetching them once if the
// cache is empty. Concurrent first calls share a single upstream fetch.
func (c *CategoryCache) EnsureLoaded(ctx context.Context) ([]models.Category, error) {
	if cached := c.cached(); cached != nil {
		return cached, nil
	}

	v, err, _ := c.sfg.Do("categories", func() (interface{}, error) {
		// Another caller may have populated the cache while we waited.
		if cached := c.cached(); cached != nil {
			return cached, nil
		}

		categories, err := c.gw.ListCategories(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.categories = categories
		c.mu.Unlock()
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Category), nil
}

func (c *CategoryCache) cached() []models.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.categories) == 0 {
		return nil
	}
	categories := make([]models.Category, len(c.categories))
	copy(categories, c.categories)
	return categories
}
