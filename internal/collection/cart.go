package collection

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/bansalKrishna311/tryo/internal/codec"
	"github.com/bansalKrishna311/tryo/internal/domain"
	"github.com/bansalKrishna311/tryo/internal/price"
	"github.com/bansalKrishna311/tryo/internal/store"
)

// CartEngine adds quantity arithmetic on top of Engine.
type CartEngine struct {
	*Engine[domain.CartItem]
	maxQuantity int
}

// NewCartEngine creates the cart engine. maxQuantity outside [1, MaxQuantity]
// falls back to domain.MaxQuantity.
func NewCartEngine(s store.Store, publisher Publisher, logger *slog.Logger, maxQuantity int) *CartEngine {
	if maxQuantity < 1 || maxQuantity > domain.MaxQuantity {
		maxQuantity = domain.MaxQuantity
	}
	return &CartEngine{
		Engine:      NewEngine("cart", s, codec.Cart(maxQuantity), publisher, logger),
		maxQuantity: maxQuantity,
	}
}

// MaxQuantity returns the per-line quantity cap.
func (e *CartEngine) MaxQuantity() int { return e.maxQuantity }

// Upsert adds delta to the line for p. A new line gets quantity min(delta,
// max) and a unit price normalized from p's display price. An existing line
// is clamped to [0, max] and removed at 0. A zero delta, or a non-positive
// delta for a product not in the cart, is a no-op.
func (e *CartEngine) Upsert(ctx context.Context, key string, p domain.Product, delta int) (Result[domain.CartItem], error) {
	delta = max(-e.maxQuantity, min(delta, e.maxQuantity))

	return e.Mutate(ctx, key, Mutation[domain.CartItem]{
		Op:        "upsert",
		ProductID: p.ID,
		Apply: func(c *domain.Cart) error {
			if delta == 0 {
				return noop("quantity delta is zero")
			}

			i := c.Index(p.ID)
			if i < 0 {
				if delta < 0 {
					return noop("product %s is not in the cart", p.ID)
				}
				unit, ok := price.Normalize(ctx, p.DisplayPrice)
				c.Items = append(c.Items, domain.CartItem{
					Product:      p,
					UnitPrice:    unit,
					Quantity:     delta,
					PriceFlagged: !ok,
				})
				return nil
			}

			current := c.Items[i].Quantity
			q := domain.ClampQuantity(current+delta, e.maxQuantity)
			switch {
			case q == current:
				return noop("quantity already %d", q)
			case q == 0:
				c.RemoveAt(i)
			default:
				c.Items[i].Quantity = q
			}
			return nil
		},
		Attrs: quantityAttr(p.ID),
	})
}

// SetQuantity replaces the quantity of an existing line. Quantities outside
// [1, max] and unknown products are rejected as no-ops.
func (e *CartEngine) SetQuantity(ctx context.Context, key, productID string, quantity int) (Result[domain.CartItem], error) {
	return e.Mutate(ctx, key, Mutation[domain.CartItem]{
		Op:        "set_quantity",
		ProductID: productID,
		Apply: func(c *domain.Cart) error {
			if quantity < 1 || quantity > e.maxQuantity {
				return noop("quantity %d outside [1, %d]", quantity, e.maxQuantity)
			}
			i := c.Index(productID)
			if i < 0 {
				return noop("product %s is not in the cart", productID)
			}
			if c.Items[i].Quantity == quantity {
				return noop("quantity already %d", quantity)
			}
			c.Items[i].Quantity = quantity
			return nil
		},
		Attrs: quantityAttr(productID),
	})
}

func quantityAttr(productID string) func(domain.Cart) []any {
	return func(c domain.Cart) []any {
		q := 0
		if i := c.Index(productID); i >= 0 {
			q = c.Items[i].Quantity
		}
		return []any{slog.Int("quantity", q)}
	}
}

// Total is the sum of unit price × quantity. Lines whose price failed to
// normalize contribute 0.
func Total(c domain.Cart) decimal.Decimal {
	return domain.Summarize(c).Total
}
