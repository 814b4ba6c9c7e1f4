package cart

import (
	"context"
	"path/filepath"
	"testing"

	"lotdesk/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBolt(t *testing.T) *BoltPersistence {
	t.Helper()

	p, err := NewBoltPersistence(filepath.Join(t.TempDir(), "carts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestBoltPersistence_RoundTrip(t *testing.T) {
	ctx := context.Background()
	p := newBolt(t)

	items := []model.CartItem{
		item("p-1", "v-1", 5, 1.25),
		item("p-2", "v-2", 2, 3.00),
	}
	require.NoError(t, p.Save(ctx, "buyer-1", items))

	loaded, err := p.Load(ctx, "buyer-1")
	require.NoError(t, err)
	assert.Equal(t, items, loaded)
}

func TestBoltPersistence_LoadUnknownBuyer(t *testing.T) {
	ctx := context.Background()
	p := newBolt(t)

	loaded, err := p.Load(ctx, "buyer-404")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestBoltPersistence_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	p := newBolt(t)

	require.NoError(t, p.Save(ctx, "buyer-1", []model.CartItem{item("p-1", "v-1", 5, 1.00)}))
	require.NoError(t, p.Save(ctx, "buyer-1", []model.CartItem{}))

	loaded, err := p.Load(ctx, "buyer-1")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestBoltPersistence_BuyersAreIsolated(t *testing.T) {
	ctx := context.Background()
	p := newBolt(t)

	require.NoError(t, p.Save(ctx, "buyer-1", []model.CartItem{item("p-1", "v-1", 5, 1.00)}))
	require.NoError(t, p.Save(ctx, "buyer-2", []model.CartItem{item("p-9", "v-9", 1, 9.00)}))

	loaded, err := p.Load(ctx, "buyer-1")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "v-1", loaded[0].VariantID)
}

func TestStoreSurvivesRestartViaBolt(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "carts.db")

	p, err := NewBoltPersistence(path)
	require.NoError(t, err)

	store := NewStore("buyer-1", nil, p, zerolog.Nop())
	store.Upsert(ctx, item("p-1", "v-1", 7, 2.00))
	require.NoError(t, p.Close())

	// New process: reopen the file and seed a fresh store from it.
	p2, err := NewBoltPersistence(path)
	require.NoError(t, err)
	defer p2.Close()

	seed, err := p2.Load(ctx, "buyer-1")
	require.NoError(t, err)

	store2 := NewStore("buyer-1", seed, p2, zerolog.Nop())
	items := store2.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].Quantity)
}
