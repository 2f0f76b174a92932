package handlers

import (
	"net/http"

	"procurement/models"
)

// RegisterHandler обрабатывает POST /api/auth/register
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := readJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	resp, err := h.Auth.Register(r.Context(), req)
	h.respond(w, r, http.StatusCreated, resp, err)
}

// LoginHandler обрабатывает POST /api/auth/login
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := readJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	resp, err := h.Auth.Login(r.Context(), req)
	h.respond(w, r, http.StatusOK, resp, err)
}

// ProfileHandler обрабатывает GET /api/auth/profile
func (h *Handler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, u)
}
