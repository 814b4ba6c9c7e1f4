package cart

import (
	"context"
	"sync"

	"lotdesk/internal/model"

	"github.com/rs/zerolog"
)

// Store holds one buyer's offer cart: the ordered set of (product, variant)
// pairs the buyer intends to offer on. All writes go through Upsert, Remove
// and Clear; readers never mutate returned slices.
//
// Every mutation persists the full serialized set best-effort. Persistence
// failures are logged and swallowed: the in-memory set stays authoritative
// for the session.
type Store struct {
	mu      sync.Mutex
	owner   string
	items   []model.CartItem
	persist Persistence
	logger  zerolog.Logger
}

// NewStore creates a cart store for one buyer, seeded with previously
// persisted items.
func NewStore(owner string, seed []model.CartItem, persist Persistence, logger zerolog.Logger) *Store {
	items := make([]model.CartItem, len(seed))
	copy(items, seed)
	return &Store{
		owner:   owner,
		items:   items,
		persist: persist,
		logger:  logger.With().Str("component", "cart-store").Str("buyer_id", owner).Logger(),
	}
}

// Upsert inserts the item, or replaces the existing entry sharing its
// (productID, variantID) key in place so position is preserved.
func (s *Store) Upsert(ctx context.Context, item model.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == item.ProductID && s.items[i].VariantID == item.VariantID {
			s.items[i] = item
			s.save(ctx)
			return
		}
	}
	s.items = append(s.items, item)
	s.save(ctx)
}

// Remove deletes all entries matching both keys. Idempotent: removing an
// absent entry is not an error.
func (s *Store) Remove(ctx context.Context, productID, variantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, item := range s.items {
		if item.ProductID == productID && item.VariantID == variantID {
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	s.save(ctx)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = s.items[:0]
	s.save(ctx)
}

// Items returns a copy of the cart contents in insertion order.
func (s *Store) Items() []model.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]model.CartItem, len(s.items))
	copy(items, s.items)
	return items
}

// Totals derives the cart summary. Average price is zero when the cart
// holds no units.
func (s *Store) Totals() model.CartTotals {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := model.CartTotals{ItemCount: len(s.items)}
	for _, item := range s.items {
		t.TotalUnits += item.Quantity
		t.TotalValue += float64(item.Quantity) * item.UnitPrice
	}
	if t.TotalUnits > 0 {
		t.AvgPricePerUnit = t.TotalValue / float64(t.TotalUnits)
	}
	return t
}

// save is called with the mutex held.
func (s *Store) save(ctx context.Context) {
	snapshot := make([]model.CartItem, len(s.items))
	copy(snapshot, s.items)

	if err := s.persist.Save(ctx, s.owner, snapshot); err != nil {
		s.logger.Warn().Err(err).Int("item_count", len(snapshot)).Msg("failed to persist cart, in-memory state kept")
	}
}
