// Package cart owns the shopping cart line items and their derived totals.
package cart

import (
	"sync"

	"storefront/internal/currency"
	"storefront/internal/models"
)

// LineItem aggregates all units of one product in the cart. UnitPrice and
// Stock are snapshots taken when the product was first added.
type LineItem struct {
	ProductID int64   `json:"product_id"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"unit_price"`
	Thumbnail string  `json:"thumbnail"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
	Stock     int64   `json:"stock"`
}

// Snapshot is a read-only view of the ledger for the display layer.
// Totals are always the reduction over the current items.
type Snapshot struct {
	Items         []LineItem `json:"items"`
	TotalQuantity int        `json:"total_quantity"`
	TotalAmount   float64    `json:"total_amount"`
}

// Ledger is the exclusive owner of cart state. All mutations are atomic
// with respect to line-total recomputation.
type Ledger struct {
	mu    sync.Mutex
	items []LineItem
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// AddItem merges the product into the cart: an existing line item has its
// quantity incremented, otherwise a new line item is appended in insertion
// order. The unit price is normalized to cents once, at add time, so
// repeated adds never compound rounding. Quantities below one are ignored.
func (l *Ledger) AddItem(product models.Product, quantity int) {
	if quantity <= 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].ProductID == product.ID {
			l.items[i].Quantity += quantity
			l.items[i].LineTotal = currency.Fix(l.items[i].UnitPrice * float64(l.items[i].Quantity))
			return
		}
	}

	unitPrice := currency.Fix(product.Price)
	l.items = append(l.items, LineItem{
		ProductID: product.ID,
		Title:     product.Title,
		UnitPrice: unitPrice,
		Thumbnail: product.Thumbnail,
		Quantity:  quantity,
		LineTotal: currency.Fix(unitPrice * float64(quantity)),
		Stock:     product.Stock,
	})
}

// RemoveItem deletes the line item for the given product. Removing an
// absent product is a no-op.
func (l *Ledger) RemoveItem(productID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].ProductID == productID {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the quantity for a line item. Requests outside
// [1, stock] are ignored; the UI clamps too, but the ledger enforces the
// bound regardless.
func (l *Ledger) UpdateQuantity(productID int64, quantity int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].ProductID != productID {
			continue
		}
		if quantity < 1 || int64(quantity) > l.items[i].Stock {
			return
		}
		l.items[i].Quantity = quantity
		l.items[i].LineTotal = currency.Fix(l.items[i].UnitPrice * float64(quantity))
		return
	}
}

// Clear empties the cart.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
}

// Snapshot copies the current items and derives the totals by summation.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	items := make([]LineItem, len(l.items))
	copy(items, l.items)

	snap := Snapshot{Items: items}
	for _, item := range items {
		snap.TotalQuantity += item.Quantity
		snap.TotalAmount += item.LineTotal
	}
	return snap
}
