package reconcile

import (
	"math"
	"sort"

	"lotdesk/internal/model"

	"github.com/rs/zerolog"
)

// priceTolerance is one cent. Used only to decide whether a price moved for
// diagnostic logging; emitted actions never depend on it because updates are
// unconditional.
const priceTolerance = 0.01

// BuildModifications computes the edit script that transforms the buyer's
// original offer into the seller's edited working set.
//
// Removals come first: every original line whose source id no longer appears
// in current becomes a RemoveProduct carrying only the source id. Then each
// current line yields either an AddProduct (seller additions, with locally
// minted ids stripped) or an unconditional UpdateExisting (buyer selections,
// changed or not). A zero quantity is a valid update, never an implicit
// removal. The backend applies the whole list as one atomic batch, so output
// order carries no meaning.
func BuildModifications(original map[string]model.LineItem, current []model.LineItem, logger zerolog.Logger) []model.Modification {
	mods := make([]model.Modification, 0, len(original)+len(current))

	surviving := make(map[string]bool, len(current))
	for _, line := range current {
		if line.SourceOfferItemID != "" {
			surviving[line.SourceOfferItemID] = true
		}
	}

	removedIDs := make([]string, 0)
	for id := range original {
		if !surviving[id] {
			removedIDs = append(removedIDs, id)
		}
	}
	sort.Strings(removedIDs)
	for _, id := range removedIDs {
		mods = append(mods, model.RemoveProduct{SourceOfferItemID: id})
	}

	for _, line := range current {
		if line.Origin == model.OriginSellerAddition {
			add := model.AddProduct{
				VariantID:    line.VariantID,
				Quantity:     line.RequestedQuantity,
				PricePerUnit: line.UnitPrice,
			}
			if line.SourceOfferItemID != "" && !model.IsTemporaryID(line.SourceOfferItemID) {
				add.SourceOfferItemID = line.SourceOfferItemID
			}
			mods = append(mods, add)
			continue
		}

		orig, ok := original[line.SourceOfferItemID]
		if !ok {
			// A buyer line without a matching snapshot entry should not
			// happen; skip rather than fabricate original values.
			logger.Warn().
				Str("source_offer_item_id", line.SourceOfferItemID).
				Str("sku", line.SKU).
				Msg("buyer line missing from original snapshot, skipped")
			continue
		}

		if orig.RequestedQuantity != line.RequestedQuantity || priceChanged(orig.UnitPrice, line.UnitPrice) {
			logger.Debug().
				Str("source_offer_item_id", line.SourceOfferItemID).
				Str("sku", line.SKU).
				Int("original_quantity", orig.RequestedQuantity).
				Int("new_quantity", line.RequestedQuantity).
				Float64("original_price", orig.UnitPrice).
				Float64("new_price", line.UnitPrice).
				Msg("buyer line changed")
		}

		mods = append(mods, model.UpdateExisting{
			SourceOfferItemID: line.SourceOfferItemID,
			VariantID:         line.VariantID,
			OriginalQuantity:  orig.RequestedQuantity,
			OriginalPrice:     orig.UnitPrice,
			NewQuantity:       line.RequestedQuantity,
			NewPrice:          line.UnitPrice,
		})
	}

	return mods
}

// priceChanged reports whether two prices differ by at least one cent.
func priceChanged(a, b float64) bool {
	return math.Abs(a-b) >= priceTolerance
}
