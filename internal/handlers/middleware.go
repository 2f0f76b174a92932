package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"procurement/models"
)

type ctxKey int

const (
	userKey ctxKey = iota
	requestInfoKey
)

// requestInfo заполняется ниже по цепочке и читается логгером запросов
type requestInfo struct {
	userID string
}

// ContextWithUser кладёт аутентифицированного пользователя в контекст
func ContextWithUser(ctx context.Context, u models.User) context.Context {
	if info, ok := ctx.Value(requestInfoKey).(*requestInfo); ok {
		info.userID = u.ID
	}
	return context.WithValue(ctx, userKey, u)
}

func UserFromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok
}

// RequireAuth проверяет заголовок Authorization: Bearer <token>
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			h.writeError(w, r, models.Unauthorized("missing or malformed bearer token"))
			return
		}
		u, err := h.Auth.Authenticate(r.Context(), strings.TrimSpace(token))
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), *u)))
	})
}

// RequestLogger 5xx пишутся как error, 4xx как warn, остальное как info
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			info := &requestInfo{}
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), requestInfoKey, info)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Int("bytes", ww.BytesWritten()),
			}
			if info.userID != "" {
				fields = append(fields, zap.String("user_id", info.userID))
			}
			switch {
			case status >= 500:
				logger.Error("request", fields...)
			case status >= 400:
				logger.Warn("request", fields...)
			default:
				logger.Info("request", fields...)
			}
		})
	}
}

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		h.writeError(w, r, models.Unauthorized("authentication required"))
	}
	return u, ok
}
