package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/currency"
)

// CheckoutHandler validates the checkout form, issues an order id and
// clears the cart. No real payment processing happens here.
type CheckoutHandler struct {
	ledger *cart.Ledger
	log    *zap.Logger
}

func NewCheckoutHandler(ledger *cart.Ledger, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		ledger: ledger,
		log:    log,
	}
}

type checkoutRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Address   string `json:"address" binding:"required"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	ZipCode   string `json:"zip_code" binding:"required"`
	Country   string `json:"country"`

	PaymentMethod string `json:"payment_method" binding:"required,oneof=credit paypal"`
	CardNumber    string `json:"card_number" binding:"required_if=PaymentMethod credit"`
	ExpiryDate    string `json:"expiry_date" binding:"required_if=PaymentMethod credit"`
	CVV           string `json:"cvv" binding:"required_if=PaymentMethod credit"`
	NameOnCard    string `json:"name_on_card" binding:"required_if=PaymentMethod credit"`
}

func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap := h.ledger.Snapshot()
	if len(snap.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		return
	}

	orderID := uuid.NewString()
	h.log.Info("order placed",
		zap.String("order_id", orderID),
		zap.Int("total_quantity", snap.TotalQuantity),
		zap.Float64("total_amount", snap.TotalAmount))

	h.ledger.Clear()

	c.JSON(http.StatusCreated, gin.H{
		"order_id":             orderID,
		"total_quantity":       snap.TotalQuantity,
		"total_amount":         snap.TotalAmount,
		"total_amount_display": currency.FormatPrice(snap.TotalAmount),
	})
}
