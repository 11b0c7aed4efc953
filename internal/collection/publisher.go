package collection

import "context"

// ChangeEvent describes one applied mutation.
type ChangeEvent struct {
	Collection string `json:"collection"`
	Key        string `json:"key"`
	Op         string `json:"op"`
	ProductID  string `json:"product_id,omitempty"`
	Size       int    `json:"size"`
}

// Publisher receives applied mutations. Publish errors are logged and never
// fail the mutation.
type Publisher interface {
	PublishCollectionChanged(ctx context.Context, ev ChangeEvent) error
}

type nopPublisher struct{}

func (nopPublisher) PublishCollectionChanged(context.Context, ChangeEvent) error { return nil }
