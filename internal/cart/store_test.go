package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"lotdesk/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPersistence captures every save and can be told to fail.
type recordingPersistence struct {
	mu    sync.Mutex
	saves [][]model.CartItem
	fail  error
}

func (p *recordingPersistence) Save(ctx context.Context, owner string, items []model.CartItem) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.saves = append(p.saves, items)
	return nil
}

func (p *recordingPersistence) Load(ctx context.Context, owner string) ([]model.CartItem, error) {
	return nil, nil
}

func (p *recordingPersistence) saveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.saves)
}

func item(productID, variantID string, qty int, price float64) model.CartItem {
	return model.CartItem{
		ProductID:   productID,
		VariantID:   variantID,
		SKU:         productID + "/" + variantID,
		DisplayName: variantID,
		Quantity:    qty,
		UnitPrice:   price,
	}
}

func TestStore_UpsertReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	store := NewStore("buyer-1", nil, NopPersistence{}, zerolog.Nop())

	store.Upsert(ctx, item("p-1", "v-1", 5, 1.00))
	store.Upsert(ctx, item("p-1", "v-2", 3, 2.00))

	// Re-upserting the first key keeps exactly one entry, in its original
	// position, with the latest values.
	store.Upsert(ctx, item("p-1", "v-1", 9, 1.50))

	items := store.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "v-1", items[0].VariantID)
	assert.Equal(t, 9, items[0].Quantity)
	assert.Equal(t, 1.50, items[0].UnitPrice)
	assert.Equal(t, "v-2", items[1].VariantID)
}

func TestStore_UpsertIdempotenceOverSequences(t *testing.T) {
	ctx := context.Background()
	store := NewStore("buyer-1", nil, NopPersistence{}, zerolog.Nop())

	for qty := 1; qty <= 10; qty++ {
		store.Upsert(ctx, item("p-1", "v-1", qty, 1.00))
	}

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 10, items[0].Quantity)
}

func TestStore_RemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewStore("buyer-1", nil, NopPersistence{}, zerolog.Nop())

	store.Upsert(ctx, item("p-1", "v-1", 5, 1.00))
	store.Remove(ctx, "p-1", "v-1")
	assert.Empty(t, store.Items())

	// Absent entry: no error, no change.
	store.Remove(ctx, "p-1", "v-1")
	store.Remove(ctx, "p-404", "v-404")
	assert.Empty(t, store.Items())
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := NewStore("buyer-1", nil, NopPersistence{}, zerolog.Nop())

	store.Upsert(ctx, item("p-1", "v-1", 5, 1.00))
	store.Upsert(ctx, item("p-2", "v-2", 3, 2.00))
	store.Clear(ctx)

	assert.Empty(t, store.Items())
	assert.Equal(t, model.CartTotals{}, store.Totals())
}

func TestStore_Totals(t *testing.T) {
	ctx := context.Background()
	store := NewStore("buyer-1", nil, NopPersistence{}, zerolog.Nop())

	store.Upsert(ctx, item("p-1", "v-1", 10, 2.00))
	store.Upsert(ctx, item("p-2", "v-2", 5, 3.00))

	totals := store.Totals()
	assert.Equal(t, 2, totals.ItemCount)
	assert.Equal(t, 15, totals.TotalUnits)
	assert.InDelta(t, 35.00, totals.TotalValue, 1e-9)
	assert.InDelta(t, 35.00/15.0, totals.AvgPricePerUnit, 1e-9)
}

func TestStore_TotalsEmptyCart(t *testing.T) {
	store := NewStore("buyer-1", nil, NopPersistence{}, zerolog.Nop())

	totals := store.Totals()
	assert.Zero(t, totals.AvgPricePerUnit, "average is zero, not NaN, with no units")
}

func TestStore_EveryMutationPersists(t *testing.T) {
	ctx := context.Background()
	persist := &recordingPersistence{}
	store := NewStore("buyer-1", nil, persist, zerolog.Nop())

	store.Upsert(ctx, item("p-1", "v-1", 5, 1.00))
	store.Remove(ctx, "p-1", "v-1")
	store.Clear(ctx)

	assert.Equal(t, 3, persist.saveCount())
}

func TestStore_PersistenceFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	persist := &recordingPersistence{fail: errors.New("disk full")}
	store := NewStore("buyer-1", nil, persist, zerolog.Nop())

	// No panic, no error surface; the in-memory set stays authoritative.
	store.Upsert(ctx, item("p-1", "v-1", 5, 1.00))
	require.Len(t, store.Items(), 1)

	store.Remove(ctx, "p-1", "v-1")
	assert.Empty(t, store.Items())
}

func TestService_LoadsPersistedCartOnFirstAccess(t *testing.T) {
	ctx := context.Background()

	seedStore := &seededPersistence{items: []model.CartItem{item("p-1", "v-1", 4, 2.50)}}
	service := NewService(seedStore, zerolog.Nop())

	items := service.Items(ctx, "buyer-1")
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)

	// Same store instance on subsequent access.
	service.Upsert(ctx, "buyer-1", item("p-2", "v-2", 1, 1.00))
	assert.Len(t, service.Items(ctx, "buyer-1"), 2)
}

func TestService_LoadFailureDegradesToEmpty(t *testing.T) {
	ctx := context.Background()

	service := NewService(&seededPersistence{loadErr: errors.New("backend down")}, zerolog.Nop())
	assert.Empty(t, service.Items(ctx, "buyer-1"))
}

func TestService_BuyersAreIsolated(t *testing.T) {
	ctx := context.Background()
	service := NewService(NopPersistence{}, zerolog.Nop())

	service.Upsert(ctx, "buyer-1", item("p-1", "v-1", 5, 1.00))
	service.Upsert(ctx, "buyer-2", item("p-9", "v-9", 1, 9.00))

	assert.Len(t, service.Items(ctx, "buyer-1"), 1)
	assert.Equal(t, "v-9", service.Items(ctx, "buyer-2")[0].VariantID)
	assert.Equal(t, 5, service.Totals(ctx, "buyer-1").TotalUnits)
}

// seededPersistence serves a fixed cart on load.
type seededPersistence struct {
	items   []model.CartItem
	loadErr error
}

func (p *seededPersistence) Save(ctx context.Context, owner string, items []model.CartItem) error {
	return nil
}

func (p *seededPersistence) Load(ctx context.Context, owner string) ([]model.CartItem, error) {
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	return p.items, nil
}
