// Package catalog serves the immutable product catalog the app ships with.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bansalKrishna311/tryo/internal/domain"
	apperrors "github.com/bansalKrishna311/tryo/pkg/errors"
)

//go:embed catalog.json
var defaultCatalog []byte

type record struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	Price         string `json:"price"`
	Image         string `json:"image"`
	Description   string `json:"description"`
	Discount      string `json:"discount"`
	OriginalPrice string `json:"originalPrice"`
}

// Catalog is an ordered, read-only product list. It is safe for concurrent
// use because nothing mutates it after construction.
type Catalog struct {
	products   []domain.Product
	byID       map[string]int
	categories []string
}

// New returns the built-in catalog.
func New() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Parse builds a catalog from a JSON array of product records. Ids must be
// present and unique.
func Parse(data []byte) (*Catalog, error) {
	var recs []record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{
		products: make([]domain.Product, 0, len(recs)),
		byID:     make(map[string]int, len(recs)),
	}
	seenCategory := make(map[string]bool)
	for i, r := range recs {
		id := strings.TrimSpace(r.ID)
		if id == "" {
			return nil, fmt.Errorf("parse catalog: product %d has no id", i)
		}
		if _, dup := c.byID[id]; dup {
			return nil, fmt.Errorf("parse catalog: duplicate product id %s", id)
		}
		c.byID[id] = len(c.products)
		c.products = append(c.products, domain.Product{
			ID:            id,
			Name:          r.Name,
			DisplayPrice:  r.Price,
			Image:         r.Image,
			Category:      r.Category,
			Description:   r.Description,
			Discount:      r.Discount,
			OriginalPrice: r.OriginalPrice,
		})
		if r.Category != "" && !seenCategory[r.Category] {
			seenCategory[r.Category] = true
			c.categories = append(c.categories, r.Category)
		}
	}
	return c, nil
}

// List returns every product in catalog order.
func (c *Catalog) List() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get looks up a product by id.
func (c *Catalog) Get(id string) (domain.Product, error) {
	i, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return domain.Product{}, apperrors.NotFound("product", id)
	}
	return c.products[i], nil
}

// ByCategory returns the products in category, matched case-insensitively.
func (c *Catalog) ByCategory(category string) []domain.Product {
	var out []domain.Product
	for _, p := range c.products {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the distinct categories in order of first appearance.
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *Catalog) Len() int { return len(c.products) }
