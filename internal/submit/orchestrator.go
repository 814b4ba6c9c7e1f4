package submit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lotdesk/internal/events"
	"lotdesk/internal/model"
	"lotdesk/internal/reconcile"

	"github.com/rs/zerolog"
)

// errTypeNotAuthorized is the backend's tag for authorization failures.
// These are rewritten into a friendlier message before reaching the seller.
const errTypeNotAuthorized = "NOT_AUTHORIZED"

const notAuthorizedMessage = "You are not authorized to accept this offer. Check that you are signed in to the selling account that owns the listing."

// ValidationError blocks a submission locally, before anything is sent to
// the backend. Problems are per-line, suitable for inline display.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "draft failed validation: " + strings.Join(e.Problems, "; ")
}

// Orchestrator validates a draft, assembles the accept request, dispatches
// it and interprets the tri-state outcome. It also owns the take-all fast
// path, which bypasses the diff entirely.
type Orchestrator struct {
	manager *reconcile.Manager
	source  reconcile.CatalogSource
	client  AcceptClient
	events  events.Publisher
	logger  zerolog.Logger
}

// NewOrchestrator creates a submission orchestrator.
func NewOrchestrator(
	manager *reconcile.Manager,
	source reconcile.CatalogSource,
	client AcceptClient,
	publisher events.Publisher,
	logger zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		manager: manager,
		source:  source,
		client:  client,
		events:  publisher,
		logger:  logger.With().Str("service", "submit").Logger(),
	}
}

// SubmitInput carries the non-line metadata of a submission.
type SubmitInput struct {
	OfferID           string `json:"offerId"`
	ShippingAddressID string `json:"shippingAddressId"`
	BillingAddressID  string `json:"billingAddressId"`
	SellerMessage     string `json:"sellerMessage"`
	OrderNotes        string `json:"orderNotes"`
}

// Submit diffs the open draft for the offer and sends the resulting batch
// to the accept endpoint.
//
// Outcomes: a *ValidationError or transport error return leaves the draft
// intact for retry; a result with Success=false carries the backend's
// errors, draft likewise retained; a result with Success=true carries the
// new order id and the draft is discarded.
func (o *Orchestrator) Submit(ctx context.Context, in SubmitInput) (*model.SubmitResult, error) {
	draft, err := o.manager.Get(in.OfferID)
	if err != nil {
		return nil, err
	}

	if err := draft.BeginSubmit(); err != nil {
		return nil, err
	}

	if problems := validateLines(draft.Lines()); len(problems) > 0 {
		draft.EndSubmit()
		o.logger.Warn().
			Str("offer_id", in.OfferID).
			Strs("problems", problems).
			Msg("draft failed pre-submission validation")
		return nil, &ValidationError{Problems: problems}
	}

	mods, err := draft.Modifications()
	if err != nil {
		draft.EndSubmit()
		return nil, err
	}

	req := o.buildRequest(in, mods)
	summary := draft.Summary()

	resp, err := o.client.Submit(ctx, req)
	if err != nil {
		draft.EndSubmit()
		return nil, fmt.Errorf("submission failed: %w", err)
	}

	if !resp.Success || len(resp.Errors) > 0 {
		draft.EndSubmit()
		result := &model.SubmitResult{
			Success: false,
			Message: resp.Message,
			Errors:  rewriteErrors(resp),
		}
		o.logger.Warn().
			Str("offer_id", in.OfferID).
			Strs("errors", result.Errors).
			Msg("accept endpoint rejected submission")
		return result, nil
	}

	o.manager.Discard(in.OfferID)
	o.events.PublishOrderAccepted(ctx, events.OrderAccepted{
		OrderID:    resp.OrderID,
		OfferID:    in.OfferID,
		TotalUnits: summary.TotalUnits,
		TotalValue: summary.TotalValue,
		AcceptedAt: time.Now(),
	})

	o.logger.Info().
		Str("offer_id", in.OfferID).
		Str("order_id", resp.OrderID).
		Int("modification_count", len(mods)).
		Int("total_units", summary.TotalUnits).
		Float64("total_value", summary.TotalValue).
		Msg("offer accepted, order created")

	return &model.SubmitResult{
		Success: true,
		OrderID: resp.OrderID,
		Message: resp.Message,
	}, nil
}

// TakeAllInput carries the metadata of a take-all submission.
type TakeAllInput struct {
	OfferID           string `json:"offerId"`
	ListingID         string `json:"listingId"`
	ShippingAddressID string `json:"shippingAddressId"`
	BillingAddressID  string `json:"billingAddressId"`
	SellerMessage     string `json:"sellerMessage"`
	OrderNotes        string `json:"orderNotes"`
}

// TakeAll accepts the offer against the entire catalog: one AddProduct per
// listed variant at its catalog quantity and offer price, as its own atomic
// request. No draft or diff is involved; an open draft for the offer is
// consumed on success.
func (o *Orchestrator) TakeAll(ctx context.Context, in TakeAllInput) (*model.SubmitResult, error) {
	variants := o.source.FetchVariants(ctx, in.ListingID)
	if len(variants) == 0 {
		return nil, &ValidationError{Problems: []string{"no variants available for this listing"}}
	}

	mods := TakeAllActions(variants)
	req := o.buildRequest(in.submitMeta(), mods)

	resp, err := o.client.Submit(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("take-all submission failed: %w", err)
	}

	if !resp.Success || len(resp.Errors) > 0 {
		result := &model.SubmitResult{
			Success: false,
			Message: resp.Message,
			Errors:  rewriteErrors(resp),
		}
		o.logger.Warn().
			Str("offer_id", in.OfferID).
			Strs("errors", result.Errors).
			Msg("accept endpoint rejected take-all")
		return result, nil
	}

	o.manager.Discard(in.OfferID)

	units, value := TakeAllTotals(variants)
	o.events.PublishOrderAccepted(ctx, events.OrderAccepted{
		OrderID:    resp.OrderID,
		OfferID:    in.OfferID,
		TotalUnits: units,
		TotalValue: value,
		AcceptedAt: time.Now(),
	})

	o.logger.Info().
		Str("offer_id", in.OfferID).
		Str("order_id", resp.OrderID).
		Int("variant_count", len(variants)).
		Int("total_units", units).
		Float64("total_value", value).
		Msg("take-all accepted, order created")

	return &model.SubmitResult{
		Success: true,
		OrderID: resp.OrderID,
		Message: resp.Message,
	}, nil
}

// buildRequest assembles the accept request. Optional strings are trimmed
// and omitted entirely when empty.
func (o *Orchestrator) buildRequest(in SubmitInput, mods []model.Modification) *model.AcceptRequest {
	return &model.AcceptRequest{
		OfferID:           in.OfferID,
		AutoAccept:        true,
		ShippingAddressID: in.ShippingAddressID,
		BillingAddressID:  in.BillingAddressID,
		Modifications:     mods,
		SellerMessage:     strings.TrimSpace(in.SellerMessage),
		OrderNotes:        strings.TrimSpace(in.OrderNotes),
	}
}

func (in TakeAllInput) submitMeta() SubmitInput {
	return SubmitInput{
		OfferID:           in.OfferID,
		ShippingAddressID: in.ShippingAddressID,
		BillingAddressID:  in.BillingAddressID,
		SellerMessage:     in.SellerMessage,
		OrderNotes:        in.OrderNotes,
	}
}

// validateLines rejects seller additions with non-positive quantity or
// price. Buyer-origin lines are exempt: a zeroed buyer line is a legitimate
// update, not an error.
func validateLines(lines []model.LineItem) []string {
	var problems []string
	for _, line := range lines {
		if line.Origin != model.OriginSellerAddition {
			continue
		}
		if line.RequestedQuantity <= 0 {
			problems = append(problems, fmt.Sprintf("%s: quantity must be greater than zero", line.SKU))
		}
		if line.UnitPrice <= 0 {
			problems = append(problems, fmt.Sprintf("%s: price per unit must be greater than zero", line.SKU))
		}
	}
	return problems
}

// rewriteErrors surfaces the backend's error list verbatim, except for
// authorization failures which get a friendlier message.
func rewriteErrors(resp *model.AcceptResponse) []string {
	if resp.ErrorType == errTypeNotAuthorized {
		return []string{notAuthorizedMessage}
	}
	if len(resp.Errors) > 0 {
		return resp.Errors
	}
	if resp.Message != "" {
		return []string{resp.Message}
	}
	return []string{"the offer could not be accepted"}
}

// TakeAllActions builds the take-all edit script: one AddProduct per
// catalog variant at its listed quantity and offer price.
func TakeAllActions(variants []model.Variant) []model.Modification {
	mods := make([]model.Modification, len(variants))
	for i, v := range variants {
		mods[i] = model.AddProduct{
			VariantID:    v.VariantID,
			Quantity:     v.AvailableQuantity,
			PricePerUnit: v.OfferPrice,
		}
	}
	return mods
}

// TakeAllTotals computes the units and value of a take-all submission.
func TakeAllTotals(variants []model.Variant) (units int, value float64) {
	for _, v := range variants {
		units += v.AvailableQuantity
		value += float64(v.AvailableQuantity) * v.OfferPrice
	}
	return units, value
}
