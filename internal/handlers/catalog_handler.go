package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/catalog"
	"storefront/internal/gateway"
)

// CatalogHandler exposes the query engine to the display layer: snapshot
// reads plus the filter/sort/page intents.
type CatalogHandler struct {
	engine     *catalog.Engine
	categories *catalog.CategoryCache
	log        *zap.Logger
}

func NewCatalogHandler(engine *catalog.Engine, categories *catalog.CategoryCache, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		engine:     engine,
		categories: categories,
		log:        log,
	}
}

// ListProducts runs the current query and returns the page with
// pagination metadata.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	page, err := h.engine.Run(c.Request.Context())
	if errors.Is(err, catalog.ErrSuperseded) {
		// A newer query won the race; serve its result instead.
		if page = h.engine.LastResult(); page == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "query superseded"})
			return
		}
	} else if err != nil {
		h.log.Error("product query failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":        page.Products,
		"total":       page.Total,
		"page":        page.Page,
		"page_size":   page.PageSize,
		"total_pages": page.TotalPages,
		"query":       h.engine.State(),
	})
}

// GetProduct returns a single product by id.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	product, err := h.engine.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.log.Error("product fetch failed", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}

// ListCategories returns the session category list, loading it on first use.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.categories.EnsureLoaded(c.Request.Context())
	if err != nil {
		h.log.Error("category fetch failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

type searchRequest struct {
	Term string `json:"term"`
}

func (h *CatalogHandler) SetSearchTerm(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.engine.SetSearchTerm(req.Term)
	c.JSON(http.StatusOK, gin.H{"query": h.engine.State()})
}

type categoryRequest struct {
	Category string `json:"category"`
}

func (h *CatalogHandler) SetCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.engine.SetCategory(req.Category)
	c.JSON(http.StatusOK, gin.H{"query": h.engine.State()})
}

type sortRequest struct {
	Sort string `json:"sort" binding:"required"`
}

func (h *CatalogHandler) SetSortKey(c *gin.Context) {
	var req sortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	key, ok := catalog.ParseSortKey(req.Sort)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown sort key"})
		return
	}
	h.engine.SetSortKey(key)
	c.JSON(http.StatusOK, gin.H{"query": h.engine.State()})
}

type priceRangeRequest struct {
	Min *float64 `json:"min" binding:"required"`
	Max *float64 `json:"max" binding:"required"`
}

func (h *CatalogHandler) SetPriceRange(c *gin.Context) {
	var req priceRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if *req.Min > *req.Max {
		c.JSON(http.StatusBadRequest, gin.H{"error": "min must not exceed max"})
		return
	}
	h.engine.SetPriceRange(*req.Min, *req.Max)
	c.JSON(http.StatusOK, gin.H{"query": h.engine.State()})
}

type pageRequest struct {
	Page int `json:"page" binding:"required"`
}

// SetPage rejects out-of-range pages against the last known result; the
// engine itself trusts its inputs.
func (h *CatalogHandler) SetPage(c *gin.Context) {
	var req pageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	totalPages := 1
	if result := h.engine.LastResult(); result != nil {
		totalPages = result.TotalPages
	}
	if req.Page < 1 || req.Page > totalPages {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page out of range"})
		return
	}

	h.engine.SetPage(req.Page)
	c.JSON(http.StatusOK, gin.H{"query": h.engine.State()})
}

func (h *CatalogHandler) ClearFilters(c *gin.Context) {
	h.engine.ClearFilters()
	c.JSON(http.StatusOK, gin.H{"query": h.engine.State()})
}
