package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lotdesk/internal/cart"
	"lotdesk/internal/catalog"
	"lotdesk/internal/events"
	"lotdesk/internal/handler"
	"lotdesk/internal/model"
	"lotdesk/internal/reconcile"
	"lotdesk/internal/repository"
	"lotdesk/internal/router"
	"lotdesk/internal/submit"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// acceptedRequest is the wire shape of a dispatched accept request, with the
// tagged-union modifications kept as raw maps.
type acceptedRequest struct {
	OfferID       string                   `json:"offerId"`
	AutoAccept    bool                     `json:"autoAccept"`
	Modifications []map[string]interface{} `json:"modifications"`
}

// setupTestServer wires the full stack against the test database and a fake
// marketplace accept endpoint. The returned requests slice records every
// accept request the server dispatched.
func setupTestServer(t *testing.T, testDB *TestDB) (http.Handler, *[]acceptedRequest) {
	t.Helper()

	logger := zerolog.Nop()

	var accepted []acceptedRequest
	acceptSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req acceptedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		accepted = append(accepted, req)
		json.NewEncoder(w).Encode(model.AcceptResponse{Success: true, OrderID: "order-int-1"})
	}))
	t.Cleanup(acceptSrv.Close)

	variantRepo := repository.NewVariantRepository(testDB.Pool, logger)
	offerRepo := repository.NewOfferRepository(testDB.Pool, logger)
	accessor := catalog.NewAccessor(variantRepo, offerRepo, logger)

	cartService := cart.NewService(cart.NopPersistence{}, logger)
	manager := reconcile.NewManager(accessor, logger)
	acceptClient := submit.NewHTTPAcceptClient(acceptSrv.URL, "accept-key", 5*time.Second, logger)
	orchestrator := submit.NewOrchestrator(manager, accessor, acceptClient, events.NopPublisher{}, logger)

	cartHandler := handler.NewCartHandler(cartService, logger)
	draftHandler := handler.NewDraftHandler(manager, orchestrator, logger)

	return router.New(cartHandler, draftHandler, "test-api-key", logger), &accepted
}

func doJSON(t *testing.T, server http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-API-Key", "test-api-key")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func TestAPI_Auth_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server, _ := setupTestServer(t, testDB)

	t.Run("Rejects missing API key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Health check bypasses auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCartAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server, _ := setupTestServer(t, testDB)
	buyer := map[string]string{"X-Buyer-ID": "buyer-1"}

	t.Run("Cart lifecycle", func(t *testing.T) {
		w := doJSON(t, server, http.MethodPut, "/api/cart/items", model.CartItem{
			ProductID: "L001", VariantID: "V001", SKU: "SKU-RED-M", Quantity: 10, UnitPrice: 2.00,
		}, buyer)
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, server, http.MethodGet, "/api/cart", nil, buyer)
		require.Equal(t, http.StatusOK, w.Code)

		var view struct {
			Items  []model.CartItem `json:"items"`
			Totals model.CartTotals `json:"totals"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&view))
		require.Len(t, view.Items, 1)
		assert.Equal(t, 10, view.Totals.TotalUnits)

		w = doJSON(t, server, http.MethodDelete, "/api/cart/items/L001/V001", nil, buyer)
		require.Equal(t, http.StatusOK, w.Code)
	})
}

func TestDraftAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server, accepted := setupTestServer(t, testDB)

	CleanupDB(t, testDB.Pool)
	SeedCatalog(t, testDB.Pool)

	t.Run("Open, edit and submit a draft end to end", func(t *testing.T) {
		w := doJSON(t, server, http.MethodPost, "/api/drafts", map[string]string{
			"offerId":   "OFFER1",
			"listingId": "L001",
		}, nil)
		require.Equal(t, http.StatusCreated, w.Code)

		var view struct {
			Initialized bool             `json:"initialized"`
			Lines       []model.LineItem `json:"lines"`
			Variants    []model.Variant  `json:"variants"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&view))
		assert.True(t, view.Initialized)
		require.Len(t, view.Lines, 3)
		assert.Len(t, view.Variants, 2)

		// Drop the delisted line, adjust the first one.
		w = doJSON(t, server, http.MethodDelete, "/api/drafts/OFFER1/lines/OI003", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, server, http.MethodPut, "/api/drafts/OFFER1/lines/OI001", map[string]interface{}{
			"quantity":  8,
			"unitPrice": 2.00,
		}, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, server, http.MethodPost, "/api/drafts/OFFER1/submit", map[string]string{
			"shippingAddressId": "ship-1",
			"billingAddressId":  "bill-1",
		}, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var result model.SubmitResult
		require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
		assert.True(t, result.Success)
		assert.Equal(t, "order-int-1", result.OrderID)

		// The dispatched batch carries one removal and two updates.
		require.Len(t, *accepted, 1)
		req := (*accepted)[0]
		assert.Equal(t, "OFFER1", req.OfferID)
		assert.True(t, req.AutoAccept)
		assert.Len(t, req.Modifications, 3)

		// The draft is consumed: reads now miss.
		w = doJSON(t, server, http.MethodGet, "/api/drafts/OFFER1", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
