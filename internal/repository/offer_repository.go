package repository

import (
	"context"
	"fmt"

	"lotdesk/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// offerRepository implements the OfferRepository interface using PostgreSQL.
type offerRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOfferRepository creates a new PostgreSQL-backed offer repository.
func NewOfferRepository(pool *pgxpool.Pool, logger zerolog.Logger) OfferRepository {
	return &offerRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "offer").Logger(),
	}
}

// GetOfferLines retrieves the submitted offer lines for one buyer offer.
// Available quantities are joined in from the catalog; a variant that has
// since left the catalog yields a line with no availability ceiling.
func (r *offerRepository) GetOfferLines(ctx context.Context, offerID string) ([]model.LineItem, error) {
	query := `
		SELECT oi.id, oi.variant_id, oi.sku, oi.display_name, oi.quantity, oi.unit_price, oi.retail_price,
		       lv.available_quantity
		FROM offer_items oi
		LEFT JOIN listing_variants lv ON lv.variant_id = oi.variant_id
		WHERE oi.offer_id = $1
		ORDER BY oi.id
	`

	rows, err := r.pool.Query(ctx, query, offerID)
	if err != nil {
		r.logger.Error().Err(err).
			Str("offer_id", offerID).
			Msg("failed to query offer items")
		return nil, fmt.Errorf("failed to query offer items: %w", err)
	}
	defer rows.Close()

	var lines []model.LineItem
	for rows.Next() {
		var line model.LineItem
		err := rows.Scan(
			&line.SourceOfferItemID,
			&line.VariantID,
			&line.SKU,
			&line.DisplayName,
			&line.RequestedQuantity,
			&line.UnitPrice,
			&line.RetailPrice,
			&line.AvailableQuantity,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan offer item row")
			return nil, fmt.Errorf("failed to scan offer item: %w", err)
		}
		line.Origin = model.OriginBuyerSelection
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating offer item rows")
		return nil, fmt.Errorf("error iterating offer items: %w", err)
	}

	return lines, nil
}
