// Package catalog exposes read-only access to listing variants and buyer
// offer lines with degrading semantics: any fetch failure is logged and
// surfaced as an empty result, so callers treat "nothing there" and "fetch
// failed" identically. The repositories underneath keep ordinary error
// returns; only this layer swallows.
package catalog

import (
	"context"

	"lotdesk/internal/model"
	"lotdesk/internal/repository"

	"github.com/rs/zerolog"
)

// Accessor wraps the variant and offer repositories.
type Accessor struct {
	variants repository.VariantRepository
	offers   repository.OfferRepository
	logger   zerolog.Logger
}

// NewAccessor creates a catalog accessor over the given repositories.
func NewAccessor(variants repository.VariantRepository, offers repository.OfferRepository, logger zerolog.Logger) *Accessor {
	return &Accessor{
		variants: variants,
		offers:   offers,
		logger:   logger.With().Str("component", "catalog-accessor").Logger(),
	}
}

// FetchVariants returns all purchasable variants for a listing, or an empty
// slice when the lookup fails.
func (a *Accessor) FetchVariants(ctx context.Context, listingID string) []model.Variant {
	variants, err := a.variants.GetByListing(ctx, listingID)
	if err != nil {
		a.logger.Warn().Err(err).Str("listing_id", listingID).Msg("variant fetch failed, returning empty")
		return []model.Variant{}
	}
	if variants == nil {
		return []model.Variant{}
	}
	return variants
}

// FetchOfferLines returns the buyer's submitted offer lines, origin always
// BuyerSelection, or an empty slice when the lookup fails.
func (a *Accessor) FetchOfferLines(ctx context.Context, offerID string) []model.LineItem {
	lines, err := a.offers.GetOfferLines(ctx, offerID)
	if err != nil {
		a.logger.Warn().Err(err).Str("offer_id", offerID).Msg("offer line fetch failed, returning empty")
		return []model.LineItem{}
	}
	if lines == nil {
		return []model.LineItem{}
	}
	return lines
}
