package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"procurement/internal/render"
	"procurement/models"
)

func (h *Handler) ListPOsHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	pos, err := h.Flow.ListPOsForUser(r.Context(), u)
	h.respond(w, r, http.StatusOK, pos, err)
}

func (h *Handler) GetPOHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	po, err := h.Flow.GetPO(r.Context(), u, chi.URLParam(r, "id"))
	h.respond(w, r, http.StatusOK, po, err)
}

func (h *Handler) MarkDeliveredHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	po, err := h.Flow.MarkDelivered(r.Context(), u, chi.URLParam(r, "id"))
	h.respond(w, r, http.StatusOK, po, err)
}

// DownloadPOHandler обрабатывает GET /api/po/{id}/download?format=pdf|xlsx
func (h *Handler) DownloadPOHandler(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, h.Flow.PODocument)
}

type documentSource func(ctx context.Context, actor models.User, id string) (*models.Document, error)

func (h *Handler) download(w http.ResponseWriter, r *http.Request, source documentSource) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	format, err := render.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	doc, err := source(r.Context(), u, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := h.Docs.Render(r.Context(), *doc, format)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+out.Filename)
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(out.Data)
}
