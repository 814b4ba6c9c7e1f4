package repository

import (
	"context"

	"lotdesk/internal/model"
)

// VariantRepository defines read access to the listing-variant catalog.
type VariantRepository interface {
	// GetByListing retrieves all purchasable variants for a listing.
	GetByListing(ctx context.Context, listingID string) ([]model.Variant, error)

	// GetByID retrieves a single variant by its ID.
	GetByID(ctx context.Context, variantID string) (*model.Variant, error)
}

// OfferRepository defines read access to buyer offer records.
type OfferRepository interface {
	// GetOfferLines retrieves the submitted offer lines for one buyer
	// offer, with available quantities joined in from the catalog.
	GetOfferLines(ctx context.Context, offerID string) ([]model.LineItem, error)
}
