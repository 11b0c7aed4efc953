package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func line(id string, price int64, qty int) CartItem {
	return CartItem{Product: Product{ID: id}, UnitPrice: decimal.NewFromInt(price), Quantity: qty}
}

// ============================================================================
// Summarize Tests
// ============================================================================

func TestSummarize_Total(t *testing.T) {
	c := Cart{Items: []CartItem{line("1", 100, 2), line("2", 50, 1)}}

	s := Summarize(c)
	assert.True(t, s.Total.Equal(decimal.NewFromInt(250)), "total = %s", s.Total)
	assert.Equal(t, 3, s.ItemCount)
	assert.Equal(t, 2, s.DistinctItems)
	assert.Empty(t, s.FlaggedItems)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(NewCollection[CartItem]())
	assert.True(t, s.Total.IsZero())
	assert.Zero(t, s.ItemCount)
	assert.Zero(t, s.DistinctItems)
}

func TestSummarize_FlaggedLineContributesZero(t *testing.T) {
	bad := line("3", 0, 4)
	bad.PriceFlagged = true
	c := Cart{Items: []CartItem{line("1", 100, 1), bad}}

	s := Summarize(c)
	assert.True(t, s.Total.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, []string{"3"}, s.FlaggedItems)
	assert.Equal(t, 5, s.ItemCount)
}

func TestSummarize_DecimalPrices(t *testing.T) {
	a := CartItem{Product: Product{ID: "a"}, UnitPrice: decimal.RequireFromString("0.1"), Quantity: 3}
	s := Summarize(Cart{Items: []CartItem{a}})
	assert.Equal(t, "0.3", s.Total.String())
}

func TestClampQuantity(t *testing.T) {
	assert.Equal(t, 0, ClampQuantity(-4, MaxQuantity))
	assert.Equal(t, 7, ClampQuantity(7, MaxQuantity))
	assert.Equal(t, MaxQuantity, ClampQuantity(150, MaxQuantity))
	assert.Equal(t, 10, ClampQuantity(50, 10))
	assert.Equal(t, MaxQuantity, ClampQuantity(150, 0))
	assert.Equal(t, MaxQuantity, ClampQuantity(150, 500))
}

// ============================================================================
// Collection Tests
// ============================================================================

func TestCollection_IndexAndContains(t *testing.T) {
	c := Wishlist{Items: []WishlistItem{{Product: Product{ID: "1"}}, {Product: Product{ID: "2"}}}}
	assert.Equal(t, 1, c.Index("2"))
	assert.Equal(t, -1, c.Index("9"))
	assert.True(t, c.Contains("1"))
	assert.False(t, c.Contains("9"))
}

func TestCollection_CloneIsIndependent(t *testing.T) {
	orig := Cart{Items: []CartItem{line("1", 10, 1)}}
	cp := orig.Clone()
	cp.Items[0].Quantity = 5
	cp.Items = append(cp.Items, line("2", 1, 1))

	assert.Equal(t, 1, orig.Items[0].Quantity)
	assert.Equal(t, 1, orig.Len())
	assert.Equal(t, 2, cp.Len())
}

func TestCollection_RemoveAtPreservesOrder(t *testing.T) {
	c := Cart{Items: []CartItem{line("1", 1, 1), line("2", 1, 1), line("3", 1, 1)}}
	c.RemoveAt(1)
	assert.Equal(t, []string{"1", "3"}, []string{c.Items[0].ProductID(), c.Items[1].ProductID()})
}

func TestNewCollection_NonNilItems(t *testing.T) {
	h := NewCollection[HistoryEntry]()
	assert.NotNil(t, h.Items)
	assert.Zero(t, h.Len())
}
