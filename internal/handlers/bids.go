package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"procurement/models"
)

// SubmitBidHandler обрабатывает POST /api/bid/{rfqId}. Поле total в теле игнорируется.
func (h *Handler) SubmitBidHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req models.SubmitBidRequest
	if err := readJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	bid, err := h.Flow.SubmitBid(r.Context(), u, chi.URLParam(r, "id"), req)
	h.respond(w, r, http.StatusCreated, bid, err)
}

func (h *Handler) ListBidsForRFQHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	bids, err := h.Flow.ListBidsForRFQ(r.Context(), u, chi.URLParam(r, "id"))
	h.respond(w, r, http.StatusOK, bids, err)
}

// RecommendBidHandler обрабатывает PUT /api/bid/rfq/{rfqId}/recommend
func (h *Handler) RecommendBidHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	bid, err := h.Flow.RecommendBestBid(r.Context(), u, chi.URLParam(r, "id"))
	h.respond(w, r, http.StatusOK, bid, err)
}

// SelectBidHandler обрабатывает PUT /api/bid/{bidId}/select и возвращает созданный PO
func (h *Handler) SelectBidHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	po, err := h.Flow.SelectBid(r.Context(), u, chi.URLParam(r, "id"))
	h.respond(w, r, http.StatusOK, po, err)
}

func (h *Handler) RejectBidHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	bid, err := h.Flow.RejectBid(r.Context(), u, chi.URLParam(r, "id"))
	h.respond(w, r, http.StatusOK, bid, err)
}

func (h *Handler) ListAcceptedBidsHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	bids, err := h.Flow.ListAcceptedBids(r.Context(), u)
	h.respond(w, r, http.StatusOK, bids, err)
}

func (h *Handler) ListSelectedBidsHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	bids, err := h.Flow.ListSelectedBidsForSupplier(r.Context(), u)
	h.respond(w, r, http.StatusOK, bids, err)
}

func (h *Handler) ListMyBidsHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	bids, err := h.Flow.ListMyBids(r.Context(), u)
	h.respond(w, r, http.StatusOK, bids, err)
}
