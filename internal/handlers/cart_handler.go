package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/currency"
	"storefront/internal/gateway"
)

// CartHandler exposes the cart ledger to the display layer.
type CartHandler struct {
	ledger *cart.Ledger
	engine *catalog.Engine
	log    *zap.Logger
}

func NewCartHandler(ledger *cart.Ledger, engine *catalog.Engine, log *zap.Logger) *CartHandler {
	return &CartHandler{
		ledger: ledger,
		engine: engine,
		log:    log,
	}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, cartResponse(h.ledger.Snapshot()))
}

type addItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required,gt=0"`
	Quantity  int   `json:"quantity"`
}

// AddItem fetches the product and snapshots it into the ledger. A missing
// or non-positive quantity is treated as add-one.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	product, err := h.engine.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.log.Error("add to cart failed", zap.Int64("product_id", req.ProductID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	h.ledger.AddItem(*product, req.Quantity)
	c.JSON(http.StatusCreated, cartResponse(h.ledger.Snapshot()))
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateQuantity applies a quantity change. Out-of-bound requests are a
// silent no-op, not an error: the response carries whatever state the
// ledger kept.
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || productID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.ledger.UpdateQuantity(productID, req.Quantity)
	c.JSON(http.StatusOK, cartResponse(h.ledger.Snapshot()))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || productID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	h.ledger.RemoveItem(productID)
	c.JSON(http.StatusOK, cartResponse(h.ledger.Snapshot()))
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	h.ledger.Clear()
	c.JSON(http.StatusOK, cartResponse(h.ledger.Snapshot()))
}

func cartResponse(snap cart.Snapshot) gin.H {
	return gin.H{
		"items":                snap.Items,
		"total_quantity":       snap.TotalQuantity,
		"total_amount":         snap.TotalAmount,
		"total_amount_display": currency.FormatPrice(snap.TotalAmount),
	}
}
