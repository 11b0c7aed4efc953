package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bansalKrishna311/tryo/internal/collection"
	"github.com/bansalKrishna311/tryo/internal/domain"
)

// --- Response views ---

type cartLineView struct {
	Product      domain.Product  `json:"product"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	LineTotal    decimal.Decimal `json:"line_total"`
	PriceFlagged bool            `json:"price_flagged,omitempty"`
}

type cartView struct {
	Items         []cartLineView  `json:"items"`
	Total         decimal.Decimal `json:"total"`
	ItemCount     int             `json:"item_count"`
	DistinctItems int             `json:"distinct_items"`
	FlaggedItems  []string        `json:"flagged_items,omitempty"`
	Outcome       string          `json:"outcome,omitempty"`
	Reason        string          `json:"reason,omitempty"`
}

type wishlistView struct {
	Items   []domain.Product `json:"items"`
	Count   int              `json:"count"`
	Member  *bool            `json:"member,omitempty"`
	Outcome string           `json:"outcome,omitempty"`
	Reason  string           `json:"reason,omitempty"`
}

type historyEntryView struct {
	Product    domain.Product `json:"product"`
	RecordedAt *time.Time     `json:"recorded_at,omitempty"`
}

type historyView struct {
	Entries  []historyEntryView `json:"entries"`
	Capacity int                `json:"capacity"`
	Outcome  string             `json:"outcome,omitempty"`
	Reason   string             `json:"reason,omitempty"`
}

type catalogView struct {
	Products   []domain.Product `json:"products"`
	Categories []string         `json:"categories"`
}

type onboardingView struct {
	Seen bool `json:"seen"`
}

type feedbackView struct {
	ID          string    `json:"id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func newCartView(c domain.Cart) cartView {
	s := domain.Summarize(c)
	v := cartView{
		Items:         make([]cartLineView, 0, c.Len()),
		Total:         s.Total,
		ItemCount:     s.ItemCount,
		DistinctItems: s.DistinctItems,
		FlaggedItems:  s.FlaggedItems,
	}
	for _, it := range c.Items {
		line := it.LineTotal()
		if it.PriceFlagged {
			line = decimal.Zero
		}
		v.Items = append(v.Items, cartLineView{
			Product:      it.Product,
			UnitPrice:    it.UnitPrice,
			Quantity:     it.Quantity,
			LineTotal:    line,
			PriceFlagged: it.PriceFlagged,
		})
	}
	return v
}

func cartResultView(res collection.Result[domain.CartItem]) cartView {
	v := newCartView(res.Snapshot)
	v.Outcome, v.Reason = string(res.Outcome), res.Reason
	return v
}

func newWishlistView(w domain.Wishlist) wishlistView {
	v := wishlistView{Items: make([]domain.Product, 0, w.Len()), Count: w.Len()}
	for _, it := range w.Items {
		v.Items = append(v.Items, it.Product)
	}
	return v
}

func wishlistResultView(res collection.Result[domain.WishlistItem]) wishlistView {
	v := newWishlistView(res.Snapshot)
	v.Outcome, v.Reason = string(res.Outcome), res.Reason
	return v
}

func newHistoryView(h domain.History, capacity int) historyView {
	v := historyView{Entries: make([]historyEntryView, 0, h.Len()), Capacity: capacity}
	for _, e := range h.Items {
		ev := historyEntryView{Product: e.Product}
		if !e.RecordedAt.IsZero() {
			at := e.RecordedAt
			ev.RecordedAt = &at
		}
		v.Entries = append(v.Entries, ev)
	}
	return v
}
