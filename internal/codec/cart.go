package codec

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/bansalKrishna311/tryo/internal/domain"
	"github.com/bansalKrishna311/tryo/internal/price"
)

type cartWire struct {
	productWire
	UnitPrice    string `json:"unit_price"`
	Quantity     int    `json:"quantity"`
	PriceFlagged bool   `json:"price_flagged,omitempty"`
}

// Cart returns the codec for cart collections. Ids are unique; the first
// occurrence wins. A legacy element without a quantity counts as 1, and stored
// quantities above maxQuantity are clamped to it.
func Cart(maxQuantity int) Codec[domain.CartItem] {
	return elementCodec[domain.CartItem, cartWire]{
		encode: encodeCartItem,
		decode: func(raw json.RawMessage, legacy bool) (domain.CartItem, string) {
			return decodeCartItem(raw, legacy, maxQuantity)
		},
		unique: true,
	}
}

func encodeCartItem(it domain.CartItem) cartWire {
	return cartWire{
		productWire:  toProductWire(it.Product),
		UnitPrice:    it.UnitPrice.String(),
		Quantity:     it.Quantity,
		PriceFlagged: it.PriceFlagged,
	}
}

func decodeCartItem(raw json.RawMessage, legacy bool, maxQuantity int) (domain.CartItem, string) {
	var it domain.CartItem
	f, reason := parseFields(raw)
	if reason != "" {
		return it, reason
	}
	if it.Product, reason = f.product(); reason != "" {
		return it, reason
	}

	switch {
	case f.has("quantity"):
		if it.Quantity, reason = f.quantity(maxQuantity); reason != "" {
			return it, reason
		}
	case legacy:
		it.Quantity = 1
	default:
		return it, "missing quantity"
	}

	if up, err := decimal.NewFromString(f.str("unit_price")); err == nil && !up.IsNegative() {
		it.UnitPrice = up
		it.PriceFlagged = f.boolean("price_flagged")
		return it, ""
	}
	up, ok := price.Parse(it.Product.DisplayPrice)
	it.UnitPrice = up
	it.PriceFlagged = !ok
	return it, ""
}
