package models

// ErrorResponse is the proxy's error body, shaped like the upstream
// payment API's errors so existing clients can parse it.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}
