package domain

// WishlistItem is a saved product with no quantity.
type WishlistItem struct {
	Product Product `json:"product"`
}

func (i WishlistItem) ProductID() string { return i.Product.ID }

type Wishlist = Collection[WishlistItem]
