package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/bendiy/authnet-go/mapper"
	"github.com/bendiy/authnet-go/models"
	"github.com/bendiy/authnet-go/services/payment"
	"github.com/bendiy/authnet-go/services/payment/authorizenet"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeError maps the gateway error taxonomy onto HTTP statuses:
// authentication 401, rate limit 429, declined transactions 402, gateway
// validation 400, transport and malformed upstream replies 502.
func writeError(w http.ResponseWriter, err error) {
	var gw *authorizenet.Error
	if errors.As(err, &gw) {
		status := http.StatusBadGateway
		switch gw.Type {
		case authorizenet.ErrorTypeAuthentication:
			status = http.StatusUnauthorized
		case authorizenet.ErrorTypeRateLimit:
			status = http.StatusTooManyRequests
		case authorizenet.ErrorTypeTransaction:
			status = http.StatusPaymentRequired
		case authorizenet.ErrorTypeInvalidRequest:
			status = http.StatusBadRequest
		}
		writeJSON(w, status, models.ErrorResponse{
			Error: models.ErrorDetail{
				Type:    string(gw.Type),
				Code:    gw.Code,
				Message: gw.Message,
			},
		})
		return
	}

	if errors.Is(err, payment.ErrInvalidRefund) || errors.Is(err, payment.ErrListUnsupported) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Type:    "invalid_request_error",
				Message: err.Error(),
			},
		})
		return
	}

	log.Printf("Unhandled error: %v", err)
	writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
		Error: models.ErrorDetail{
			Type:    "api_error",
			Message: "An internal error occurred.",
		},
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Type:    "invalid_request_error",
				Message: "Invalid JSON request body.",
			},
		})
		return false
	}
	return true
}

func decodeRecord(w http.ResponseWriter, r *http.Request) (mapper.Record, bool) {
	var rec mapper.Record
	if !decodeBody(w, r, &rec) {
		return nil, false
	}
	if rec == nil {
		rec = mapper.Record{}
	}
	return rec, true
}
