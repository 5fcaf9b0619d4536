// Package catalog owns the product query state and turns raw gateway
// records into the filtered, sorted, paginated page the storefront shows.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"storefront/internal/currency"
	"storefront/internal/gateway"
	"storefront/internal/models"
)

// Gateway is the remote catalog API the engine consumes.
type Gateway interface {
	SearchProducts(ctx context.Context, term string) ([]gateway.ProductRecord, error)
	ListProducts(ctx context.Context, limit int) ([]gateway.ProductRecord, error)
	GetProduct(ctx context.Context, id int64) (*gateway.ProductRecord, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// ErrSuperseded is returned by Run when a newer query was issued before
// this one finished; the stale result is discarded, never applied.
var ErrSuperseded = errors.New("query superseded by a newer one")

type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
	SortNewest    SortKey = "newest"
)

// ParseSortKey validates a wire-level sort value.
func ParseSortKey(s string) (SortKey, bool) {
	switch key := SortKey(s); key {
	case SortRelevance, SortPriceLow, SortPriceHigh, SortRating, SortNewest:
		return key, true
	default:
		return "", false
	}
}

const (
	// PageSize is the fixed number of products per page.
	PageSize = 20

	// PriceRangeMin and PriceRangeMax bound the price filter domain.
	PriceRangeMin = 0
	PriceRangeMax = 200

	// The upstream has no combined filter+sort+paginate endpoint, so the
	// bulk listing fetches enough records to filter locally.
	listLimit = 100
)

// QueryState fully determines a catalog page's contents.
type QueryState struct {
	SearchTerm string     `json:"search_term"`
	Category   string     `json:"category"`
	SortKey    SortKey    `json:"sort"`
	PriceRange [2]float64 `json:"price_range"`
	Page       int        `json:"page"`
}

func defaultState() QueryState {
	return QueryState{
		SortKey:    SortRelevance,
		PriceRange: [2]float64{PriceRangeMin, PriceRangeMax},
		Page:       1,
	}
}

// Page is one displayable result window plus pagination metadata.
type Page struct {
	Products   []models.Product `json:"products"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// Engine owns the query state. Each filter transition resets the page to 1
// because changing the criteria invalidates the pagination cursor.
type Engine struct {
	gw  Gateway
	log *zap.Logger

	mu     sync.Mutex
	state  QueryState
	seq    uint64
	result *Page
}

func NewEngine(gw Gateway, log *zap.Logger) *Engine {
	return &Engine{
		gw:    gw,
		log:   log,
		state: defaultState(),
	}
}

func (e *Engine) SetSearchTerm(term string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.SearchTerm = term
	e.state.Page = 1
}

func (e *Engine) SetCategory(category string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Category = category
	e.state.Page = 1
}

func (e *Engine) SetSortKey(key SortKey) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.SortKey = key
	e.state.Page = 1
}

// SetPriceRange clamps the bounds to the filter domain and ignores an
// inverted range.
func (e *Engine) SetPriceRange(min, max float64) {
	if min > max {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.PriceRange = [2]float64{
		clamp(min, PriceRangeMin, PriceRangeMax),
		clamp(max, PriceRangeMin, PriceRangeMax),
	}
	e.state.Page = 1
}

// SetPage moves the pagination cursor. Valid pages are 1..TotalPages of
// the last result; the handler enforces that bound, the engine trusts it.
func (e *Engine) SetPage(page int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Page = page
}

// ClearFilters resets every criterion to its default and the page to 1.
func (e *Engine) ClearFilters() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = defaultState()
}

// State returns a copy of the current query state.
func (e *Engine) State() QueryState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// LastResult returns the most recently applied page, or nil before the
// first successful Run.
func (e *Engine) LastResult() *Page {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}

// Run executes the current query: fetch, normalize, filter, sort, slice.
// Only the latest issued Run may apply its result; a Run overtaken by a
// newer one returns ErrSuperseded and leaves the fresher result in place.
func (e *Engine) Run(ctx context.Context) (*Page, error) {
	e.mu.Lock()
	e.seq++
	seq := e.seq
	state := e.state
	e.mu.Unlock()

	var records []gateway.ProductRecord
	var err error
	if strings.TrimSpace(state.SearchTerm) != "" {
		records, err = e.gw.SearchProducts(ctx, state.SearchTerm)
	} else {
		records, err = e.gw.ListProducts(ctx, listLimit)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}

	products := make([]models.Product, 0, len(records))
	for _, record := range records {
		products = append(products, normalize(record))
	}
	products = applyFilters(products, state)
	applySort(products, state.SortKey)

	total := len(products)
	totalPages := (total + PageSize - 1) / PageSize
	start := (state.Page - 1) * PageSize
	if start > total {
		start = total
	}
	end := start + PageSize
	if end > total {
		end = total
	}

	page := &Page{
		Products:   products[start:end],
		Total:      total,
		Page:       state.Page,
		PageSize:   PageSize,
		TotalPages: totalPages,
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if seq != e.seq {
		e.log.Debug("discarding superseded query result",
			zap.Uint64("seq", seq), zap.Uint64("latest", e.seq))
		return nil, ErrSuperseded
	}
	e.result = page
	return page, nil
}

// GetProduct fetches one product by id, normalized like list results.
func (e *Engine) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	record, err := e.gw.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	product := normalize(*record)
	return &product, nil
}

// normalize converts the upstream price scale into a two-decimal USD
// amount: divide by 10, fix to cents. This shim must match the upstream's
// pricing scale exactly.
func normalize(record gateway.ProductRecord) models.Product {
	return models.Product{
		ID:                 record.ID,
		Title:              record.Title,
		Description:        record.Description,
		Category:           record.Category,
		Price:              currency.Fix(record.Price / 10),
		DiscountPercentage: record.DiscountPercentage,
		Rating:             record.Rating,
		Stock:              record.Stock,
		Brand:              record.Brand,
		Thumbnail:          record.Thumbnail,
		Images:             record.Images,
	}
}

func applyFilters(products []models.Product, state QueryState) []models.Product {
	filtered := products[:0]
	for _, p := range products {
		if state.Category != "" && !strings.EqualFold(p.Category, state.Category) {
			continue
		}
		if p.Price < state.PriceRange[0] || p.Price > state.PriceRange[1] {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

func applySort(products []models.Product, key SortKey) {
	switch key {
	case SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	case SortRating:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Rating > products[j].Rating })
	case SortNewest:
		// No timestamp upstream; higher ids stand in for recency.
		sort.SliceStable(products, func(i, j int) bool { return products[i].ID > products[j].ID })
	default:
		// relevance keeps gateway order
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
