package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lotdesk/internal/model"

	bolt "github.com/boltdb/bolt"
)

const cartBucket = "carts"

// BoltPersistence stores carts in an embedded BoltDB file, one record per
// buyer. No external process is required, which suits single-node
// deployments and local development.
type BoltPersistence struct {
	db *bolt.DB
}

// NewBoltPersistence opens (or creates) the database file at path and
// ensures the carts bucket exists.
func NewBoltPersistence(path string) (*BoltPersistence, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cart database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(cartBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cart bucket: %w", err)
	}

	return &BoltPersistence{db: db}, nil
}

// Close releases the database file lock.
func (p *BoltPersistence) Close() error {
	return p.db.Close()
}

// Save stores the full serialized cart for one buyer, replacing any
// previous record.
func (p *BoltPersistence) Save(ctx context.Context, owner string, items []model.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to serialize cart: %w", err)
	}

	return p.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(cartBucket)).Put([]byte(owner), data)
	})
}

// Load returns the persisted cart for one buyer, empty when none exists.
func (p *BoltPersistence) Load(ctx context.Context, owner string) ([]model.CartItem, error) {
	var items []model.CartItem

	err := p.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(cartBucket)).Get([]byte(owner))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &items)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	return items, nil
}
