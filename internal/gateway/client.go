// Package gateway is the HTTP client for the remote product catalog API.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"storefront/internal/models"
)

// ErrNotFound is returned when a requested product does not exist upstream.
var ErrNotFound = errors.New("product not found")

// ProductRecord is a raw product as served by the upstream API. Prices are
// in the upstream's native scale; normalization happens in the query engine.
type ProductRecord struct {
	ID                 int64    `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discountPercentage"`
	Rating             float64  `json:"rating"`
	Stock              int64    `json:"stock"`
	Brand              string   `json:"brand"`
	Thumbnail          string   `json:"thumbnail"`
	Images             []string `json:"images"`
}

type productListResponse struct {
	Products []ProductRecord `json:"products"`
	Total    int             `json:"total"`
}

type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	log     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	settings := gobreaker.Settings{
		Name: "catalog-gateway",
		// Missing products are a normal outcome, not an upstream outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
		log:     log,
	}
}

// SearchProducts runs the upstream text search.
func (c *Client) SearchProducts(ctx context.Context, term string) ([]ProductRecord, error) {
	body, err := c.get(ctx, "/products/search?q="+url.QueryEscape(term))
	if err != nil {
		return nil, err
	}
	var resp productListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return resp.Products, nil
}

// ListProducts fetches up to limit products in a single call.
func (c *Client) ListProducts(ctx context.Context, limit int) ([]ProductRecord, error) {
	body, err := c.get(ctx, fmt.Sprintf("/products?limit=%d", limit))
	if err != nil {
		return nil, err
	}
	var resp productListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode product list: %w", err)
	}
	return resp.Products, nil
}

// GetProduct fetches a single product by id. Returns ErrNotFound for
// unknown ids.
func (c *Client) GetProduct(ctx context.Context, id int64) (*ProductRecord, error) {
	body, err := c.get(ctx, fmt.Sprintf("/products/%d", id))
	if err != nil {
		return nil, err
	}
	var record ProductRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}
	return &record, nil
}

// ListCategories fetches the category list. The upstream has served this
// both as plain strings and as {slug, name} objects; both shapes decode
// into models.Category.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	body, err := c.get(ctx, "/products/categories")
	if err != nil {
		return nil, err
	}
	return decodeCategories(body)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			c.log.Warn("catalog gateway request failed",
				zap.String("path", path), zap.Error(err))
			return nil, fmt.Errorf("catalog gateway unreachable: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			c.log.Warn("catalog gateway returned error status",
				zap.String("path", path), zap.Int("status", resp.StatusCode))
			return nil, fmt.Errorf("catalog gateway responded %s", resp.Status)
		}

		return io.ReadAll(resp.Body)
	})
}

var titleCaser = cases.Title(language.AmericanEnglish)

func decodeCategories(body []byte) ([]models.Category, error) {
	var labeled []struct {
		Slug string `json:"slug"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &labeled); err == nil {
		categories := make([]models.Category, 0, len(labeled))
		for _, c := range labeled {
			categories = append(categories, models.Category{
				Slug:        c.Slug,
				DisplayName: c.Name,
			})
		}
		return categories, nil
	}

	// Older upstream versions serve bare slugs.
	var slugs []string
	if err := json.Unmarshal(body, &slugs); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	categories := make([]models.Category, 0, len(slugs))
	for _, slug := range slugs {
		categories = append(categories, models.Category{
			Slug:        slug,
			DisplayName: titleCaser.String(strings.ReplaceAll(slug, "-", " ")),
		})
	}
	return categories, nil
}
