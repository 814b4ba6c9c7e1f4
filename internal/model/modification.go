package model

import "encoding/json"

// ModificationKind discriminates the members of the Modification union on
// the wire.
type ModificationKind string

const (
	KindAddProduct     ModificationKind = "ADD_PRODUCT"
	KindUpdateExisting ModificationKind = "UPDATE_EXISTING"
	KindRemoveProduct  ModificationKind = "REMOVE_PRODUCT"
)

// Modification is one entry of the edit script sent to the accept endpoint.
// It is a sealed union: AddProduct, UpdateExisting and RemoveProduct are the
// only members, each carrying exactly the fields its kind requires.
type Modification interface {
	Kind() ModificationKind
}

// AddProduct introduces a variant the buyer did not select. SourceOfferItemID
// is set only when the line maps to a real offer item; locally minted ids are
// stripped before the action is built.
type AddProduct struct {
	VariantID         string  `json:"variantId"`
	Quantity          int     `json:"quantity"`
	PricePerUnit      float64 `json:"pricePerUnit"`
	SourceOfferItemID string  `json:"sourceOfferItemId,omitempty"`
}

func (AddProduct) Kind() ModificationKind { return KindAddProduct }

// UpdateExisting restates a buyer-selected line, changed or not. The backend
// treats an unchanged update as an idempotent confirmation.
type UpdateExisting struct {
	SourceOfferItemID string  `json:"sourceOfferItemId"`
	VariantID         string  `json:"variantId"`
	OriginalQuantity  int     `json:"originalQuantity"`
	OriginalPrice     float64 `json:"originalPrice"`
	NewQuantity       int     `json:"newQuantity"`
	NewPrice          float64 `json:"newPrice"`
}

func (UpdateExisting) Kind() ModificationKind { return KindUpdateExisting }

// RemoveProduct drops a buyer-selected line. Only the source id is carried.
type RemoveProduct struct {
	SourceOfferItemID string `json:"sourceOfferItemId"`
}

func (RemoveProduct) Kind() ModificationKind { return KindRemoveProduct }

// MarshalJSON emits the member's fields plus a type discriminator.
func (a AddProduct) MarshalJSON() ([]byte, error) {
	type alias AddProduct
	return json.Marshal(struct {
		Type ModificationKind `json:"type"`
		alias
	}{Type: KindAddProduct, alias: alias(a)})
}

// MarshalJSON emits the member's fields plus a type discriminator.
func (u UpdateExisting) MarshalJSON() ([]byte, error) {
	type alias UpdateExisting
	return json.Marshal(struct {
		Type ModificationKind `json:"type"`
		alias
	}{Type: KindUpdateExisting, alias: alias(u)})
}

// MarshalJSON emits the member's fields plus a type discriminator.
func (r RemoveProduct) MarshalJSON() ([]byte, error) {
	type alias RemoveProduct
	return json.Marshal(struct {
		Type ModificationKind `json:"type"`
		alias
	}{Type: KindRemoveProduct, alias: alias(r)})
}
