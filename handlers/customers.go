package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bendiy/authnet-go/models"
	"github.com/bendiy/authnet-go/services/payment"
)

type CustomerHandler struct {
	svc *payment.Service
}

func NewCustomerHandler(svc *payment.Service) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	customer, ok := decodeRecord(w, r)
	if !ok {
		return
	}

	resp, err := h.svc.Customers.Create(r.Context(), customer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CustomerHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	customer, err := h.svc.Customers.Retrieve(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// Update takes the customer body and forces its id from the URL so a
// payload cannot redirect the update to another profile.
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	customer, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	customer["id"] = mux.Vars(r)["id"]

	resp, err := h.svc.Customers.Update(r.Context(), customer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Customers.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Customers.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CustomerHandler) CreateSource(w http.ResponseWriter, r *http.Request) {
	source, ok := decodeRecord(w, r)
	if !ok {
		return
	}

	resp, err := h.svc.Customers.CreateSource(r.Context(), mux.Vars(r)["id"], source)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CustomerHandler) ListSources(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Customers.ListSources(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CustomerHandler) RetrieveSource(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	source, err := h.svc.Customers.RetrieveSource(r.Context(), vars["id"], vars["srcID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, source)
}

func (h *CustomerHandler) UpdateSource(w http.ResponseWriter, r *http.Request) {
	source, ok := decodeRecord(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	resp, err := h.svc.Customers.UpdateSource(r.Context(), vars["id"], vars["srcID"], source)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CustomerHandler) DeleteSource(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	resp, err := h.svc.Customers.DeleteSource(r.Context(), vars["id"], vars["srcID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CustomerHandler) VerifySource(w http.ResponseWriter, r *http.Request) {
	var params models.VerifySourceParams
	if r.ContentLength > 0 {
		if !decodeBody(w, r, &params) {
			return
		}
	}

	vars := mux.Vars(r)
	resp, err := h.svc.Customers.VerifySource(r.Context(), vars["id"], vars["srcID"], params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
