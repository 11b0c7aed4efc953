package domain

import "time"

// DefaultHistoryCapacity is the number of try-on entries kept.
const DefaultHistoryCapacity = 5

// HistoryEntry records one try-on of a product. The same product may appear
// more than once.
type HistoryEntry struct {
	Product    Product   `json:"product"`
	RecordedAt time.Time `json:"recorded_at"`
}

func (e HistoryEntry) ProductID() string { return e.Product.ID }

// History is most-recent-first.
type History = Collection[HistoryEntry]
