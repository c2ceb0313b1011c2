package types

// SuccessEnvelope wraps every successful JSON response body.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// StockWarning is the non-fatal payload attached to material mutations when
// the requested quantity exceeds what is currently available. The operation
// still succeeds; overselling is a business decision surfaced to the caller.
type StockWarning struct {
	Message           string `json:"message"`
	AvailableQuantity int    `json:"available_quantity"`
	RequestedQuantity int    `json:"requested_quantity"`
}
