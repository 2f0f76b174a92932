package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"procurement/models"
)

// Ограничение размера тела запроса
const maxBodyBytes = 1 << 20

// Handler HTTP обработчики поверх движка процесса закупки
type Handler struct {
	Flow   Workflow
	Auth   Authenticator
	Docs   DocumentRenderer
	Logger *zap.Logger
}

func NewHandler(flow Workflow, auth Authenticator, docs DocumentRenderer, logger *zap.Logger) *Handler {
	return &Handler{Flow: flow, Auth: auth, Docs: docs, Logger: logger}
}

// PingHandler отвечает "ok" для проверки сервера
func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type errorResponse struct {
	Message string `json:"message"`
}

// readJSON читает тело не больше maxBodyBytes и разбирает JSON
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return models.Validation("request body is too large")
		}
		return models.Validation("failed to read request body")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return models.Validation("invalid JSON format")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError внутренние ошибки пишутся в лог, клиент видит общее сообщение
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		if errors.Is(err, context.Canceled) {
			h.Logger.Debug("request canceled", zap.String("path", r.URL.Path))
		} else {
			h.Logger.Error("request failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Error(err))
		}
		msg = "internal server error"
	}
	writeJSON(w, status, errorResponse{Message: msg})
}

// respond общий хвост обработчиков: ошибка или JSON с кодом status
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, v any, err error) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, status, v)
}
