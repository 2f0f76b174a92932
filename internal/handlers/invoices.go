package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"procurement/models"
)

// SubmitInvoiceHandler обрабатывает POST /api/invoice
func (h *Handler) SubmitInvoiceHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req models.SubmitInvoiceRequest
	if err := readJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	inv, err := h.Flow.SubmitInvoice(r.Context(), u, req)
	h.respond(w, r, http.StatusCreated, inv, err)
}

func (h *Handler) ListInvoicesHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	invoices, err := h.Flow.ListInvoicesForUser(r.Context(), u)
	h.respond(w, r, http.StatusOK, invoices, err)
}

// VerifyInvoiceHandler обрабатывает PUT /api/invoice/{id}/verify
func (h *Handler) VerifyInvoiceHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	inv, err := h.Flow.VerifyInvoice(r.Context(), u, chi.URLParam(r, "id"))
	h.respond(w, r, http.StatusOK, inv, err)
}

func (h *Handler) DisputeInvoiceHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	inv, err := h.Flow.DisputeInvoice(r.Context(), u, chi.URLParam(r, "id"))
	h.respond(w, r, http.StatusOK, inv, err)
}

func (h *Handler) DownloadInvoiceHandler(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, h.Flow.InvoiceDocument)
}
