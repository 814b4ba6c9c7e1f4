package model

import (
	"strings"

	"github.com/google/uuid"
)

// LineOrigin tags where a draft line came from. Buyer-selected lines diff
// into updates, seller additions diff into adds (see reconcile package).
type LineOrigin string

const (
	OriginBuyerSelection LineOrigin = "BUYER_SELECTION"
	OriginSellerAddition LineOrigin = "SELLER_ADDITION"
)

// tempIDPrefix marks line identifiers minted locally for seller additions.
// These ids must never reach the accept endpoint.
const tempIDPrefix = "local-"

// NewTemporaryID mints a local identifier for a freshly added seller line.
func NewTemporaryID() string {
	return tempIDPrefix + uuid.NewString()
}

// IsTemporaryID reports whether id was minted locally and must be stripped
// before submission.
func IsTemporaryID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}

// LineItem is a single variant within a draft order.
type LineItem struct {
	VariantID         string     `json:"variantId"`
	SKU               string     `json:"sku"`
	DisplayName       string     `json:"displayName"`
	RequestedQuantity int        `json:"requestedQuantity"`
	UnitPrice         float64    `json:"unitPrice"`
	RetailPrice       *float64   `json:"retailPrice,omitempty"`
	AvailableQuantity *int       `json:"availableQuantity,omitempty"`
	Origin            LineOrigin `json:"origin"`
	SourceOfferItemID string     `json:"sourceOfferItemId,omitempty"`
}

// Variant is a purchasable catalog variant for a listing.
type Variant struct {
	VariantID         string   `json:"variantId" db:"variant_id"`
	ListingID         string   `json:"listingId" db:"listing_id"`
	SKU               string   `json:"sku" db:"sku"`
	DisplayName       string   `json:"displayName" db:"display_name"`
	AvailableQuantity int      `json:"availableQuantity" db:"available_quantity"`
	RetailPrice       *float64 `json:"retailPrice,omitempty" db:"retail_price"`
	OfferPrice        float64  `json:"offerPrice" db:"offer_price"`
}

// Line converts a catalog variant into a seller-addition draft line carrying
// a temporary id.
func (v Variant) Line() LineItem {
	avail := v.AvailableQuantity
	return LineItem{
		VariantID:         v.VariantID,
		SKU:               v.SKU,
		DisplayName:       v.DisplayName,
		RequestedQuantity: 0,
		UnitPrice:         v.OfferPrice,
		RetailPrice:       v.RetailPrice,
		AvailableQuantity: &avail,
		Origin:            OriginSellerAddition,
		SourceOfferItemID: NewTemporaryID(),
	}
}
