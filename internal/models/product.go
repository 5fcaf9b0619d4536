package models

// Product is a catalog product as normalized by the query engine:
// the price has already been converted to a two-decimal USD amount.
type Product struct {
	ID                 int64    `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description,omitempty"`
	Category           string   `json:"category"`
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discount_percentage"`
	Rating             float64  `json:"rating"`
	Stock              int64    `json:"stock"`
	Brand              string   `json:"brand,omitempty"`
	Thumbnail          string   `json:"thumbnail"`
	Images             []string `json:"images,omitempty"`
}

// Category is a catalog category label. Upstream serves categories
// either as plain strings or as labeled objects; both are folded into
// this shape at the gateway boundary.
type Category struct {
	Slug        string `json:"slug"`
	DisplayName string `json:"display_name"`
}
