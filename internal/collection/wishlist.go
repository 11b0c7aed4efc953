package collection

import (
	"context"
	"log/slog"

	"github.com/bansalKrishna311/tryo/internal/codec"
	"github.com/bansalKrishna311/tryo/internal/domain"
	"github.com/bansalKrishna311/tryo/internal/store"
)

// WishlistEngine adds membership toggling on top of Engine.
type WishlistEngine struct {
	*Engine[domain.WishlistItem]
}

func NewWishlistEngine(s store.Store, publisher Publisher, logger *slog.Logger) *WishlistEngine {
	return &WishlistEngine{Engine: NewEngine("wishlist", s, codec.Wishlist(), publisher, logger)}
}

// Toggle adds p if absent and removes it if present. member reports whether
// p is in the returned snapshot.
func (e *WishlistEngine) Toggle(ctx context.Context, key string, p domain.Product) (res Result[domain.WishlistItem], member bool, err error) {
	res, err = e.Mutate(ctx, key, Mutation[domain.WishlistItem]{
		Op:        "toggle",
		ProductID: p.ID,
		Apply: func(c *domain.Wishlist) error {
			if i := c.Index(p.ID); i >= 0 {
				c.RemoveAt(i)
				return nil
			}
			c.Items = append(c.Items, domain.WishlistItem{Product: p})
			return nil
		},
		Attrs: func(c domain.Wishlist) []any {
			return []any{slog.Bool("member", c.Contains(p.ID))}
		},
	})
	return res, res.Snapshot.Contains(p.ID), err
}
