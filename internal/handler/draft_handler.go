package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"lotdesk/internal/model"
	"lotdesk/internal/reconcile"
	"lotdesk/internal/submit"

	"github.com/rs/zerolog"
)

// DraftHandler handles reconciliation-session HTTP requests.
type DraftHandler struct {
	manager      *reconcile.Manager
	orchestrator *submit.Orchestrator
	logger       zerolog.Logger
}

// NewDraftHandler creates a new draft handler.
func NewDraftHandler(manager *reconcile.Manager, orchestrator *submit.Orchestrator, logger zerolog.Logger) *DraftHandler {
	return &DraftHandler{
		manager:      manager,
		orchestrator: orchestrator,
		logger:       logger.With().Str("handler", "draft").Logger(),
	}
}

// ServeHTTP routes draft requests:
//
//	POST   /api/drafts                            open a session
//	GET    /api/drafts/{offerID}                  session state
//	DELETE /api/drafts/{offerID}                  cancel and discard
//	POST   /api/drafts/{offerID}/lines            add a seller line
//	PUT    /api/drafts/{offerID}/lines/{lineID}   update quantity/price
//	DELETE /api/drafts/{offerID}/lines/{lineID}   remove a line
//	POST   /api/drafts/{offerID}/submit           diff and submit
//	POST   /api/drafts/{offerID}/take-all         take-all fast path
func (h *DraftHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/drafts"), "/")
	segments := strings.Split(rest, "/")

	switch {
	case rest == "" && r.Method == http.MethodPost:
		h.open(w, r)
	case len(segments) == 1 && rest != "" && r.Method == http.MethodGet:
		h.get(w, r, segments[0])
	case len(segments) == 1 && rest != "" && r.Method == http.MethodDelete:
		h.cancel(w, r, segments[0])
	case len(segments) == 2 && segments[1] == "lines" && r.Method == http.MethodPost:
		h.addLine(w, r, segments[0])
	case len(segments) == 3 && segments[1] == "lines" && r.Method == http.MethodPut:
		h.updateLine(w, r, segments[0], segments[2])
	case len(segments) == 3 && segments[1] == "lines" && r.Method == http.MethodDelete:
		h.removeLine(w, r, segments[0], segments[2])
	case len(segments) == 2 && segments[1] == "submit" && r.Method == http.MethodPost:
		h.submit(w, r, segments[0])
	case len(segments) == 2 && segments[1] == "take-all" && r.Method == http.MethodPost:
		h.takeAll(w, r, segments[0])
	default:
		writeError(w, http.StatusNotFound, "not found", h.logger)
	}
}

// draftView is the response shape for session reads and edits.
type draftView struct {
	OfferID     string            `json:"offerId"`
	ListingID   string            `json:"listingId"`
	Initialized bool              `json:"initialized"`
	Lines       []model.LineItem  `json:"lines"`
	Variants    []model.Variant   `json:"variants"`
	Summary     reconcile.Summary `json:"summary"`
	Warnings    []string          `json:"warnings,omitempty"`
}

func viewOf(draft *reconcile.Draft) draftView {
	lines := draft.Lines()
	if lines == nil {
		lines = []model.LineItem{}
	}
	variants := draft.Variants()
	if variants == nil {
		variants = []model.Variant{}
	}
	return draftView{
		OfferID:     draft.OfferID(),
		ListingID:   draft.ListingID(),
		Initialized: draft.Initialized(),
		Lines:       lines,
		Variants:    variants,
		Summary:     draft.Summary(),
		Warnings:    draft.Warnings(),
	}
}

type openDraftRequest struct {
	OfferID   string `json:"offerId"`
	ListingID string `json:"listingId"`
}

func (h *DraftHandler) open(w http.ResponseWriter, r *http.Request) {
	var req openDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	if req.OfferID == "" || req.ListingID == "" {
		writeError(w, http.StatusBadRequest, "offerId and listingId are required", h.logger)
		return
	}

	draft, err := h.manager.Open(r.Context(), req.OfferID, req.ListingID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, viewOf(draft))
}

func (h *DraftHandler) get(w http.ResponseWriter, r *http.Request, offerID string) {
	draft, err := h.manager.Get(offerID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(draft))
}

func (h *DraftHandler) cancel(w http.ResponseWriter, r *http.Request, offerID string) {
	h.manager.Discard(offerID)
	w.WriteHeader(http.StatusNoContent)
}

type addLineRequest struct {
	VariantID string `json:"variantId"`
}

func (h *DraftHandler) addLine(w http.ResponseWriter, r *http.Request, offerID string) {
	var req addLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	if req.VariantID == "" {
		writeError(w, http.StatusBadRequest, "variantId is required", h.logger)
		return
	}

	draft, err := h.manager.Get(offerID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	if _, err := draft.AddLine(req.VariantID); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, viewOf(draft))
}

type updateLineRequest struct {
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

func (h *DraftHandler) updateLine(w http.ResponseWriter, r *http.Request, offerID, lineID string) {
	var req updateLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	draft, err := h.manager.Get(offerID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	if err := draft.UpdateLine(lineID, req.Quantity, req.UnitPrice); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, viewOf(draft))
}

func (h *DraftHandler) removeLine(w http.ResponseWriter, r *http.Request, offerID, lineID string) {
	draft, err := h.manager.Get(offerID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	if err := draft.RemoveLine(lineID); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, viewOf(draft))
}

type submitRequest struct {
	ShippingAddressID string `json:"shippingAddressId"`
	BillingAddressID  string `json:"billingAddressId"`
	SellerMessage     string `json:"sellerMessage"`
	OrderNotes        string `json:"orderNotes"`
}

func (h *DraftHandler) submit(w http.ResponseWriter, r *http.Request, offerID string) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	if req.ShippingAddressID == "" || req.BillingAddressID == "" {
		writeError(w, http.StatusBadRequest, "shippingAddressId and billingAddressId are required", h.logger)
		return
	}

	result, err := h.orchestrator.Submit(r.Context(), submit.SubmitInput{
		OfferID:           offerID,
		ShippingAddressID: req.ShippingAddressID,
		BillingAddressID:  req.BillingAddressID,
		SellerMessage:     req.SellerMessage,
		OrderNotes:        req.OrderNotes,
	})
	if err != nil {
		h.submitError(w, err)
		return
	}

	if !result.Success {
		// Structured rejection: the draft is retained for correction.
		writeJSON(w, http.StatusConflict, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type takeAllRequest struct {
	ListingID         string `json:"listingId"`
	ShippingAddressID string `json:"shippingAddressId"`
	BillingAddressID  string `json:"billingAddressId"`
	SellerMessage     string `json:"sellerMessage"`
	OrderNotes        string `json:"orderNotes"`
}

func (h *DraftHandler) takeAll(w http.ResponseWriter, r *http.Request, offerID string) {
	var req takeAllRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	if req.ListingID == "" || req.ShippingAddressID == "" || req.BillingAddressID == "" {
		writeError(w, http.StatusBadRequest, "listingId, shippingAddressId and billingAddressId are required", h.logger)
		return
	}

	result, err := h.orchestrator.TakeAll(r.Context(), submit.TakeAllInput{
		OfferID:           offerID,
		ListingID:         req.ListingID,
		ShippingAddressID: req.ShippingAddressID,
		BillingAddressID:  req.BillingAddressID,
		SellerMessage:     req.SellerMessage,
		OrderNotes:        req.OrderNotes,
	})
	if err != nil {
		h.submitError(w, err)
		return
	}

	if !result.Success {
		writeJSON(w, http.StatusConflict, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// submitError distinguishes transport failures from local validation and
// domain errors. Transport failures surface as a generic 502; the draft
// stays intact for retry.
func (h *DraftHandler) submitError(w http.ResponseWriter, err error) {
	if strings.Contains(err.Error(), "submission failed") {
		h.logger.Error().Err(err).Msg("accept endpoint unreachable")
		writeError(w, http.StatusBadGateway, "submission failed, please retry", h.logger)
		return
	}
	writeDomainError(w, err, h.logger)
}
