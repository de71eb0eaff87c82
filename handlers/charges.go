package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bendiy/authnet-go/models"
	"github.com/bendiy/authnet-go/services/payment"
)

type ChargeHandler struct {
	svc *payment.Service
}

func NewChargeHandler(svc *payment.Service) *ChargeHandler {
	return &ChargeHandler{svc: svc}
}

func (h *ChargeHandler) Create(w http.ResponseWriter, r *http.Request) {
	charge, ok := decodeRecord(w, r)
	if !ok {
		return
	}

	resp, err := h.svc.Charges.Create(r.Context(), charge)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ChargeHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	charge, err := h.svc.Charges.Retrieve(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, charge)
}

func (h *ChargeHandler) Capture(w http.ResponseWriter, r *http.Request) {
	var params models.CaptureParams
	if !decodeBody(w, r, &params) {
		return
	}

	resp, err := h.svc.Charges.Capture(r.Context(), mux.Vars(r)["id"], params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ChargeHandler) Refund(w http.ResponseWriter, r *http.Request) {
	var params models.RefundParams
	if !decodeBody(w, r, &params) {
		return
	}

	resp, err := h.svc.Charges.Refund(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ChargeHandler) List(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Charges.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
