package reconcile

import (
	"fmt"
	"sync"

	"lotdesk/internal/model"

	"github.com/rs/zerolog"
)

// Draft is the working state of one reconciliation session: the immutable
// snapshot of the buyer's offer plus the seller's edited view. A draft is
// owned by a single session; its mutex only guards against racing HTTP
// handlers, not concurrent sessions (the session manager and the external
// backend enforce one session per offer).
type Draft struct {
	mu sync.Mutex

	offerID   string
	listingID string

	original map[string]model.LineItem
	current  []model.LineItem
	variants []model.Variant

	offerLoaded    bool
	variantsLoaded bool
	inFlight       bool

	logger zerolog.Logger
}

// NewDraft creates an empty draft for one buyer offer. Edits are rejected
// until both the offer lines and the catalog variants have been loaded; the
// two fetches may resolve in either order.
func NewDraft(offerID, listingID string, logger zerolog.Logger) *Draft {
	return &Draft{
		offerID:   offerID,
		listingID: listingID,
		original:  make(map[string]model.LineItem),
		logger:    logger.With().Str("draft", offerID).Logger(),
	}
}

// OfferID returns the buyer offer this draft reconciles.
func (d *Draft) OfferID() string { return d.offerID }

// ListingID returns the listing whose catalog backs this draft.
func (d *Draft) ListingID() string { return d.listingID }

// SetOfferLines installs the buyer's submitted offer as the immutable
// snapshot and seeds the working set with a copy of it.
func (d *Draft) SetOfferLines(lines []model.LineItem) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.original = make(map[string]model.LineItem, len(lines))
	d.current = make([]model.LineItem, 0, len(lines))
	for _, line := range lines {
		line.Origin = model.OriginBuyerSelection
		d.original[line.SourceOfferItemID] = line
		d.current = append(d.current, line)
	}
	d.offerLoaded = true
}

// SetVariants installs the catalog variants available for additions.
func (d *Draft) SetVariants(variants []model.Variant) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.variants = variants
	d.variantsLoaded = true
}

// Initialized reports whether both fetches have resolved.
func (d *Draft) Initialized() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.offerLoaded && d.variantsLoaded
}

// AddLine appends a seller addition for the given catalog variant. The new
// line carries a temporary id and starts at the variant's offer price with
// zero quantity.
func (d *Draft) AddLine(variantID string) (model.LineItem, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.editable(); err != nil {
		return model.LineItem{}, err
	}

	for _, line := range d.current {
		if line.VariantID == variantID {
			return model.LineItem{}, model.ErrDuplicateVariant
		}
	}

	for _, v := range d.variants {
		if v.VariantID == variantID {
			line := v.Line()
			d.current = append(d.current, line)
			return line, nil
		}
	}

	return model.LineItem{}, fmt.Errorf("variant %s not in catalog for listing %s", variantID, d.listingID)
}

// UpdateLine sets the quantity and unit price of the line identified by its
// draft-line id. Zero quantity is allowed: it zeroes out the row without
// removing it. Negative values are rejected.
func (d *Draft) UpdateLine(lineID string, quantity int, unitPrice float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.editable(); err != nil {
		return err
	}
	if quantity < 0 {
		return model.ErrInvalidQuantity
	}
	if unitPrice < 0 {
		return model.ErrInvalidPrice
	}

	for i := range d.current {
		if d.current[i].SourceOfferItemID == lineID {
			d.current[i].RequestedQuantity = quantity
			d.current[i].UnitPrice = unitPrice
			return nil
		}
	}
	return model.ErrLineNotFound
}

// RemoveLine deletes the line identified by its draft-line id from the
// working set. Buyer lines removed here surface as RemoveProduct actions in
// the diff; seller additions simply disappear.
func (d *Draft) RemoveLine(lineID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.editable(); err != nil {
		return err
	}

	for i := range d.current {
		if d.current[i].SourceOfferItemID == lineID {
			d.current = append(d.current[:i], d.current[i+1:]...)
			return nil
		}
	}
	return model.ErrLineNotFound
}

// Lines returns a copy of the working set.
func (d *Draft) Lines() []model.LineItem {
	d.mu.Lock()
	defer d.mu.Unlock()

	lines := make([]model.LineItem, len(d.current))
	copy(lines, d.current)
	return lines
}

// Variants returns a copy of the catalog variants loaded for this draft.
func (d *Draft) Variants() []model.Variant {
	d.mu.Lock()
	defer d.mu.Unlock()

	variants := make([]model.Variant, len(d.variants))
	copy(variants, d.variants)
	return variants
}

// Summary recomputes totals over the current working set.
func (d *Draft) Summary() Summary {
	return Summarize(d.Lines())
}

// Warnings lists advisory problems with the working set, currently lines
// whose requested quantity exceeds the catalog's available quantity. These
// never block submission.
func (d *Draft) Warnings() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	var warnings []string
	for _, line := range d.current {
		if line.AvailableQuantity != nil && line.RequestedQuantity > *line.AvailableQuantity {
			warnings = append(warnings, fmt.Sprintf(
				"%s: requested %d exceeds available %d",
				line.SKU, line.RequestedQuantity, *line.AvailableQuantity))
		}
	}
	return warnings
}

// Modifications diffs the working set against the original snapshot.
func (d *Draft) Modifications() ([]model.Modification, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.offerLoaded || !d.variantsLoaded {
		return nil, model.ErrDraftNotReady
	}
	return BuildModifications(d.original, d.current, d.logger), nil
}

// BeginSubmit marks the draft as having a submission in flight. Further
// edits and submissions are rejected until EndSubmit.
func (d *Draft) BeginSubmit() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.offerLoaded || !d.variantsLoaded {
		return model.ErrDraftNotReady
	}
	if d.inFlight {
		return model.ErrDraftInFlight
	}
	d.inFlight = true
	return nil
}

// EndSubmit clears the in-flight flag after a failed or abandoned
// submission. Successful submissions discard the draft instead.
func (d *Draft) EndSubmit() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inFlight = false
}

// editable is called with the mutex held.
func (d *Draft) editable() error {
	if !d.offerLoaded || !d.variantsLoaded {
		return model.ErrDraftNotReady
	}
	if d.inFlight {
		return model.ErrDraftInFlight
	}
	return nil
}
