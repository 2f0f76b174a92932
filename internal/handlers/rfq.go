package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"procurement/models"
)

// CreateRFQHandler обрабатывает POST /api/rfq
func (h *Handler) CreateRFQHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req models.CreateRFQRequest
	if err := readJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	rfq, err := h.Flow.CreateRFQ(r.Context(), u, req)
	h.respond(w, r, http.StatusCreated, rfq, err)
}

// ListOpenRFQsHandler обрабатывает GET /api/rfq
func (h *Handler) ListOpenRFQsHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	rfqs, err := h.Flow.ListOpenRFQs(r.Context(), u)
	h.respond(w, r, http.StatusOK, rfqs, err)
}

// ListOwnedRFQsHandler обрабатывает GET /api/rfq/my-requests
func (h *Handler) ListOwnedRFQsHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	rfqs, err := h.Flow.ListOwnedRFQs(r.Context(), u)
	h.respond(w, r, http.StatusOK, rfqs, err)
}

func (h *Handler) GetRFQHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	rfq, err := h.Flow.GetRFQ(r.Context(), u, chi.URLParam(r, "id"))
	h.respond(w, r, http.StatusOK, rfq, err)
}

func (h *Handler) CloseRFQHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	rfq, err := h.Flow.CloseRFQ(r.Context(), u, chi.URLParam(r, "id"))
	h.respond(w, r, http.StatusOK, rfq, err)
}

func (h *Handler) DeleteRFQHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	if err := h.Flow.DeleteRFQ(r.Context(), u, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "RFQ deleted"})
}
