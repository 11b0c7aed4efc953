package domain

import "slices"

// Item is anything stored in a Collection. ProductID is the identity used for
// lookups; uniqueness is enforced by the operations that build the collection.
type Item interface {
	ProductID() string
}

// Collection is an ordered sequence of items in insertion order.
type Collection[T Item] struct {
	Items []T `json:"items"`
}

// NewCollection returns an empty collection with a non-nil item slice.
func NewCollection[T Item]() Collection[T] {
	return Collection[T]{Items: []T{}}
}

func (c Collection[T]) Len() int {
	return len(c.Items)
}

// Index returns the position of the first item for productID, or -1.
func (c Collection[T]) Index(productID string) int {
	return slices.IndexFunc(c.Items, func(it T) bool { return it.ProductID() == productID })
}

func (c Collection[T]) Contains(productID string) bool {
	return c.Index(productID) >= 0
}

// Clone returns a copy whose item slice can be modified independently.
func (c Collection[T]) Clone() Collection[T] {
	items := make([]T, len(c.Items))
	copy(items, c.Items)
	return Collection[T]{Items: items}
}

// RemoveAt deletes the item at i, preserving the order of the rest.
func (c *Collection[T]) RemoveAt(i int) {
	c.Items = slices.Delete(c.Items, i, i+1)
}
