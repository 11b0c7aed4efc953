package domain

import "github.com/shopspring/decimal"

// MaxQuantity is the upper bound for a cart line quantity.
const MaxQuantity = 99

// CartItem is one cart line. UnitPrice is normalized once when the line is
// created; PriceFlagged marks a display price that could not be parsed.
type CartItem struct {
	Product      Product         `json:"product"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	PriceFlagged bool            `json:"price_flagged,omitempty"`
}

func (i CartItem) ProductID() string { return i.Product.ID }

// LineTotal is UnitPrice × Quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the cart collection.
type Cart = Collection[CartItem]

// Summary holds the derived totals returned with every cart snapshot.
type Summary struct {
	Total         decimal.Decimal `json:"total"`
	ItemCount     int             `json:"item_count"`
	DistinctItems int             `json:"distinct_items"`
	FlaggedItems  []string        `json:"flagged_items,omitempty"`
}

// Summarize computes the cart total. Lines with a flagged price or a
// non-positive quantity contribute 0; flagged lines are listed by product id.
func Summarize(c Cart) Summary {
	s := Summary{Total: decimal.Zero, DistinctItems: c.Len()}
	for _, it := range c.Items {
		if it.PriceFlagged {
			s.FlaggedItems = append(s.FlaggedItems, it.Product.ID)
		}
		if it.Quantity <= 0 {
			continue
		}
		s.ItemCount += it.Quantity
		if it.PriceFlagged || it.UnitPrice.IsNegative() {
			continue
		}
		s.Total = s.Total.Add(it.LineTotal())
	}
	return s
}

// ClampQuantity bounds q to [0, limit]. A limit outside [1, MaxQuantity]
// means MaxQuantity.
func ClampQuantity(q, limit int) int {
	if limit < 1 || limit > MaxQuantity {
		limit = MaxQuantity
	}
	return max(0, min(q, limit))
}
