package codec

import (
	"encoding/json"

	"github.com/bansalKrishna311/tryo/internal/domain"
)

// Wishlist returns the codec for wishlist collections. Ids are unique; the
// first occurrence wins.
func Wishlist() Codec[domain.WishlistItem] {
	return elementCodec[domain.WishlistItem, productWire]{
		encode: func(it domain.WishlistItem) productWire { return toProductWire(it.Product) },
		decode: func(raw json.RawMessage, _ bool) (domain.WishlistItem, string) {
			f, reason := parseFields(raw)
			if reason != "" {
				return domain.WishlistItem{}, reason
			}
			p, reason := f.product()
			return domain.WishlistItem{Product: p}, reason
		},
		unique: true,
	}
}
