package cart

import (
	"context"
	"sync"

	"lotdesk/internal/model"

	"github.com/rs/zerolog"
)

// Service hands out per-buyer cart stores, loading each buyer's persisted
// cart the first time it is touched. The store itself is the only mutation
// surface; the service never reaches into another store's items.
type Service struct {
	mu      sync.Mutex
	stores  map[string]*Store
	persist Persistence
	logger  zerolog.Logger
}

// NewService creates a cart service over the given persistence backend.
func NewService(persist Persistence, logger zerolog.Logger) *Service {
	return &Service{
		stores:  make(map[string]*Store),
		persist: persist,
		logger:  logger.With().Str("service", "cart").Logger(),
	}
}

// StoreFor returns the buyer's cart store, creating it from persisted state
// on first access. Load failures degrade to an empty cart.
func (s *Service) StoreFor(ctx context.Context, buyerID string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	if store, ok := s.stores[buyerID]; ok {
		return store
	}

	seed, err := s.persist.Load(ctx, buyerID)
	if err != nil {
		s.logger.Warn().Err(err).Str("buyer_id", buyerID).Msg("failed to load persisted cart, starting empty")
		seed = nil
	}

	store := NewStore(buyerID, seed, s.persist, s.logger)
	s.stores[buyerID] = store
	return store
}

// Upsert adds or replaces a cart item for the buyer.
func (s *Service) Upsert(ctx context.Context, buyerID string, item model.CartItem) {
	s.StoreFor(ctx, buyerID).Upsert(ctx, item)
}

// Remove deletes the (productID, variantID) entry from the buyer's cart.
func (s *Service) Remove(ctx context.Context, buyerID, productID, variantID string) {
	s.StoreFor(ctx, buyerID).Remove(ctx, productID, variantID)
}

// Clear empties the buyer's cart.
func (s *Service) Clear(ctx context.Context, buyerID string) {
	s.StoreFor(ctx, buyerID).Clear(ctx)
}

// Items returns the buyer's cart contents.
func (s *Service) Items(ctx context.Context, buyerID string) []model.CartItem {
	return s.StoreFor(ctx, buyerID).Items()
}

// Totals returns the buyer's cart summary.
func (s *Service) Totals(ctx context.Context, buyerID string) model.CartTotals {
	return s.StoreFor(ctx, buyerID).Totals()
}
