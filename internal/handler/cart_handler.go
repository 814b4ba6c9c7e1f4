package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"lotdesk/internal/cart"
	"lotdesk/internal/model"

	"github.com/rs/zerolog"
)

// buyerHeader identifies the buyer whose cart a request touches. Real
// authentication lives in the marketplace gateway; this service trusts the
// header it forwards.
const buyerHeader = "X-Buyer-ID"

// CartHandler handles offer-cart HTTP requests.
type CartHandler struct {
	service *cart.Service
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service *cart.Service, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// ServeHTTP routes cart requests:
//
//	GET    /api/cart                                  cart contents and totals
//	DELETE /api/cart                                  clear
//	PUT    /api/cart/items                            upsert one item
//	DELETE /api/cart/items/{productID}/{variantID}    remove one item
func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	buyerID := r.Header.Get(buyerHeader)
	if buyerID == "" {
		writeError(w, http.StatusBadRequest, "missing "+buyerHeader+" header", h.logger)
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/cart"), "/")
	segments := strings.Split(rest, "/")

	switch {
	case rest == "" && r.Method == http.MethodGet:
		h.get(w, r, buyerID)
	case rest == "" && r.Method == http.MethodDelete:
		h.clear(w, r, buyerID)
	case rest == "items" && r.Method == http.MethodPut:
		h.upsert(w, r, buyerID)
	case len(segments) == 3 && segments[0] == "items" && r.Method == http.MethodDelete:
		h.remove(w, r, buyerID, segments[1], segments[2])
	default:
		writeError(w, http.StatusNotFound, "not found", h.logger)
	}
}

// cartView is the response shape for cart reads.
type cartView struct {
	Items  []model.CartItem `json:"items"`
	Totals model.CartTotals `json:"totals"`
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request, buyerID string) {
	items := h.service.Items(r.Context(), buyerID)
	if items == nil {
		items = []model.CartItem{}
	}
	writeJSON(w, http.StatusOK, cartView{
		Items:  items,
		Totals: h.service.Totals(r.Context(), buyerID),
	})
}

func (h *CartHandler) upsert(w http.ResponseWriter, r *http.Request, buyerID string) {
	var item model.CartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if item.ProductID == "" || item.VariantID == "" {
		writeError(w, http.StatusBadRequest, "productId and variantId are required", h.logger)
		return
	}
	if item.Quantity < 0 || item.UnitPrice < 0 {
		writeError(w, http.StatusBadRequest, "quantity and unitPrice must not be negative", h.logger)
		return
	}

	h.service.Upsert(r.Context(), buyerID, item)
	writeJSON(w, http.StatusOK, cartView{
		Items:  h.service.Items(r.Context(), buyerID),
		Totals: h.service.Totals(r.Context(), buyerID),
	})
}

func (h *CartHandler) remove(w http.ResponseWriter, r *http.Request, buyerID, productID, variantID string) {
	h.service.Remove(r.Context(), buyerID, productID, variantID)
	writeJSON(w, http.StatusOK, cartView{
		Items:  h.service.Items(r.Context(), buyerID),
		Totals: h.service.Totals(r.Context(), buyerID),
	})
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request, buyerID string) {
	h.service.Clear(r.Context(), buyerID)
	writeJSON(w, http.StatusOK, cartView{
		Items:  []model.CartItem{},
		Totals: h.service.Totals(r.Context(), buyerID),
	})
}
