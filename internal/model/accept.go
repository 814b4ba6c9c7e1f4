package model

// AcceptRequest is the single transactional batch sent to the external
// accept endpoint. The backend applies all modifications atomically.
type AcceptRequest struct {
	OfferID           string         `json:"offerId"`
	AutoAccept        bool           `json:"autoAccept"`
	ShippingAddressID string         `json:"shippingAddressId"`
	BillingAddressID  string         `json:"billingAddressId"`
	Modifications     []Modification `json:"modifications"`
	SellerMessage     string         `json:"sellerMessage,omitempty"`
	OrderNotes        string         `json:"orderNotes,omitempty"`
}

// AcceptResponse is the structured reply from the accept endpoint.
type AcceptResponse struct {
	Success   bool     `json:"success"`
	OrderID   string   `json:"orderId,omitempty"`
	Message   string   `json:"message,omitempty"`
	ErrorType string   `json:"errorType,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

// SubmitResult is the orchestrator's interpretation of an accept attempt.
// Exactly one of the three outcomes holds: success with an order id,
// structured rejection with user-facing errors, or neither when transport
// failed (the caller sees an error instead).
type SubmitResult struct {
	Success bool     `json:"success"`
	OrderID string   `json:"orderId,omitempty"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}
