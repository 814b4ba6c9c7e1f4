package reconcile

import (
	"context"
	"sync"

	"lotdesk/internal/model"

	"github.com/rs/zerolog"
)

// CatalogSource supplies the two reads a draft needs. Both calls degrade to
// an empty slice on failure (see the catalog package), so opening a draft
// never errors on fetch problems; the draft just starts empty.
type CatalogSource interface {
	// FetchVariants returns all purchasable variants for a listing.
	FetchVariants(ctx context.Context, listingID string) []model.Variant

	// FetchOfferLines returns the buyer's submitted offer lines, origin
	// always BuyerSelection.
	FetchOfferLines(ctx context.Context, offerID string) []model.LineItem
}

// Manager owns the active reconciliation sessions, at most one per buyer
// offer. The external backend enforces the same rule across instances; the
// manager enforces it within this process.
type Manager struct {
	mu     sync.Mutex
	drafts map[string]*Draft

	source CatalogSource
	logger zerolog.Logger
}

// NewManager creates a draft session manager backed by the given catalog
// source.
func NewManager(source CatalogSource, logger zerolog.Logger) *Manager {
	return &Manager{
		drafts: make(map[string]*Draft),
		source: source,
		logger: logger.With().Str("component", "draft-manager").Logger(),
	}
}

// Open starts a reconciliation session for one buyer offer. The offer lines
// and the listing's variants are fetched concurrently; neither fetch is
// guaranteed to finish first, and the draft accepts edits only once both
// have resolved. Open blocks until then.
func (m *Manager) Open(ctx context.Context, offerID, listingID string) (*Draft, error) {
	m.mu.Lock()
	if _, exists := m.drafts[offerID]; exists {
		m.mu.Unlock()
		m.logger.Warn().Str("offer_id", offerID).Msg("session already open for offer")
		return nil, model.ErrSessionHeld
	}
	draft := NewDraft(offerID, listingID, m.logger)
	m.drafts[offerID] = draft
	m.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		draft.SetOfferLines(m.source.FetchOfferLines(ctx, offerID))
	}()

	go func() {
		defer wg.Done()
		draft.SetVariants(m.source.FetchVariants(ctx, listingID))
	}()

	wg.Wait()

	m.logger.Info().
		Str("offer_id", offerID).
		Str("listing_id", listingID).
		Int("offer_lines", len(draft.Lines())).
		Int("variants", len(draft.Variants())).
		Msg("draft session opened")

	return draft, nil
}

// Get returns the open draft for an offer, if any.
func (m *Manager) Get(offerID string) (*Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	draft, ok := m.drafts[offerID]
	if !ok {
		return nil, model.ErrDraftNotFound
	}
	return draft, nil
}

// Discard drops the in-memory draft for an offer. No compensating action is
// needed against the backend: nothing has been sent yet on cancel, and on
// success the order already exists. Idempotent.
func (m *Manager) Discard(offerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, offerID)
}
