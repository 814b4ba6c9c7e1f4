package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeMissingField     = "MISSING_FIELD"
	ErrCodeInvalidQuantity  = "INVALID_QUANTITY"
	ErrCodeInvalidPrice     = "INVALID_PRICE"
	ErrCodeDuplicateVariant = "DUPLICATE_VARIANT"
	ErrCodeLineNotFound     = "LINE_NOT_FOUND"
	ErrCodeDraftNotReady    = "DRAFT_NOT_READY"
	ErrCodeDraftNotFound    = "DRAFT_NOT_FOUND"
	ErrCodeDraftInFlight    = "DRAFT_IN_FLIGHT"
	ErrCodeSessionHeld      = "SESSION_HELD"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidQuantity  = NewDomainError(ErrCodeInvalidQuantity, "Quantity must not be negative")
	ErrInvalidPrice     = NewDomainError(ErrCodeInvalidPrice, "Price per unit must not be negative")
	ErrDuplicateVariant = NewDomainError(ErrCodeDuplicateVariant, "Variant already present in the draft")
	ErrLineNotFound     = NewDomainError(ErrCodeLineNotFound, "Line item not found in the draft")
	ErrDraftNotReady    = NewDomainError(ErrCodeDraftNotReady, "Draft is still loading offer and catalog data")
	ErrDraftNotFound    = NewDomainError(ErrCodeDraftNotFound, "No open draft for this offer")
	ErrDraftInFlight    = NewDomainError(ErrCodeDraftInFlight, "A submission for this draft is already in flight")
	ErrSessionHeld      = NewDomainError(ErrCodeSessionHeld, "Another reconciliation session is open for this offer")
)
