package repository

import (
	"context"
	"fmt"

	"lotdesk/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// variantRepository implements the VariantRepository interface using PostgreSQL.
type variantRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewVariantRepository creates a new PostgreSQL-backed variant repository.
func NewVariantRepository(pool *pgxpool.Pool, logger zerolog.Logger) VariantRepository {
	return &variantRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "variant").Logger(),
	}
}

// GetByListing retrieves all purchasable variants for a listing.
func (r *variantRepository) GetByListing(ctx context.Context, listingID string) ([]model.Variant, error) {
	query := `
		SELECT variant_id, listing_id, sku, display_name, available_quantity, retail_price, offer_price
		FROM listing_variants
		WHERE listing_id = $1
		ORDER BY sku
	`

	rows, err := r.pool.Query(ctx, query, listingID)
	if err != nil {
		r.logger.Error().Err(err).
			Str("listing_id", listingID).
			Msg("failed to query listing variants")
		return nil, fmt.Errorf("failed to query listing variants: %w", err)
	}
	defer rows.Close()

	var variants []model.Variant
	for rows.Next() {
		var v model.Variant
		err := rows.Scan(&v.VariantID, &v.ListingID, &v.SKU, &v.DisplayName, &v.AvailableQuantity, &v.RetailPrice, &v.OfferPrice)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan variant row")
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		variants = append(variants, v)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating variant rows")
		return nil, fmt.Errorf("error iterating variants: %w", err)
	}

	return variants, nil
}

// GetByID retrieves a single variant by its ID.
func (r *variantRepository) GetByID(ctx context.Context, variantID string) (*model.Variant, error) {
	query := `
		SELECT variant_id, listing_id, sku, display_name, available_quantity, retail_price, offer_price
		FROM listing_variants
		WHERE variant_id = $1
	`

	var v model.Variant
	err := r.pool.QueryRow(ctx, query, variantID).Scan(
		&v.VariantID, &v.ListingID, &v.SKU, &v.DisplayName, &v.AvailableQuantity, &v.RetailPrice, &v.OfferPrice,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("variant_id", variantID).Msg("variant not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("variant_id", variantID).Msg("failed to query variant")
		return nil, fmt.Errorf("failed to query variant: %w", err)
	}

	return &v, nil
}
