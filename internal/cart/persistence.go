package cart

import (
	"context"

	"lotdesk/internal/model"
)

// Persistence is the durable storage capability behind the cart store.
// Implementations are best-effort: the store logs and swallows their
// failures rather than surfacing them to callers.
type Persistence interface {
	// Save stores the full serialized cart for one buyer.
	Save(ctx context.Context, owner string, items []model.CartItem) error

	// Load returns the persisted cart for one buyer, empty when none
	// exists.
	Load(ctx context.Context, owner string) ([]model.CartItem, error)
}

// NopPersistence discards saves and loads nothing. Used in server contexts
// where carts are ephemeral and in tests.
type NopPersistence struct{}

func (NopPersistence) Save(ctx context.Context, owner string, items []model.CartItem) error {
	return nil
}

func (NopPersistence) Load(ctx context.Context, owner string) ([]model.CartItem, error) {
	return nil, nil
}
