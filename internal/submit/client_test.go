package submit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lotdesk/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func acceptRequest() *model.AcceptRequest {
	return &model.AcceptRequest{
		OfferID:           "offer-1",
		AutoAccept:        true,
		ShippingAddressID: "addr-ship",
		BillingAddressID:  "addr-bill",
		Modifications: []model.Modification{
			model.RemoveProduct{SourceOfferItemID: "oi-2"},
			model.UpdateExisting{SourceOfferItemID: "oi-1", VariantID: "v-1", OriginalQuantity: 10, OriginalPrice: 2, NewQuantity: 8, NewPrice: 1.8},
			model.AddProduct{VariantID: "v-9", Quantity: 4, PricePerUnit: 7.25},
		},
		SellerMessage: "deal",
	}
}

func TestHTTPAcceptClient_Success(t *testing.T) {
	var received map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(model.AcceptResponse{Success: true, OrderID: "order-42", Message: "accepted"})
	}))
	defer server.Close()

	client := NewHTTPAcceptClient(server.URL, "secret", 5*time.Second, zerolog.Nop())

	resp, err := client.Submit(context.Background(), acceptRequest())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "order-42", resp.OrderID)

	// The modification list goes out as a tagged union.
	mods, ok := received["modifications"].([]interface{})
	require.True(t, ok)
	require.Len(t, mods, 3)

	first := mods[0].(map[string]interface{})
	assert.Equal(t, "REMOVE_PRODUCT", first["type"])
	assert.Equal(t, "oi-2", first["sourceOfferItemId"])
	assert.NotContains(t, first, "quantity", "removals carry only the source id")

	second := mods[1].(map[string]interface{})
	assert.Equal(t, "UPDATE_EXISTING", second["type"])
	assert.Equal(t, float64(8), second["newQuantity"])

	third := mods[2].(map[string]interface{})
	assert.Equal(t, "ADD_PRODUCT", third["type"])
	assert.NotContains(t, third, "sourceOfferItemId", "temporary/absent ids are omitted")

	assert.True(t, received["autoAccept"].(bool))
	assert.Equal(t, "deal", received["sellerMessage"])
	assert.NotContains(t, received, "orderNotes", "empty optional strings are omitted")
}

func TestHTTPAcceptClient_StructuredRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(model.AcceptResponse{Success: false, Errors: []string{"offer expired"}})
	}))
	defer server.Close()

	client := NewHTTPAcceptClient(server.URL, "", 5*time.Second, zerolog.Nop())

	resp, err := client.Submit(context.Background(), acceptRequest())
	require.NoError(t, err, "a structured rejection is not a transport failure")
	assert.False(t, resp.Success)
	assert.Equal(t, []string{"offer expired"}, resp.Errors)
}

func TestHTTPAcceptClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewHTTPAcceptClient(server.URL, "", 1*time.Second, zerolog.Nop())

	_, err := client.Submit(context.Background(), acceptRequest())
	assert.Error(t, err)
}

func TestHTTPAcceptClient_UnparseableReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer server.Close()

	client := NewHTTPAcceptClient(server.URL, "", 5*time.Second, zerolog.Nop())

	_, err := client.Submit(context.Background(), acceptRequest())
	assert.Error(t, err)
}
