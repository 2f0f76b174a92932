package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter все маршруты под /api, кроме ping и входа требуют bearer токен
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(h.Logger))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.PingHandler)

		r.Post("/auth/register", h.RegisterHandler)
		r.Post("/auth/login", h.LoginHandler)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth)

			r.Get("/auth/profile", h.ProfileHandler)

			r.Route("/rfq", func(r chi.Router) {
				r.Post("/", h.CreateRFQHandler)
				r.Get("/", h.ListOpenRFQsHandler)
				r.Get("/my-requests", h.ListOwnedRFQsHandler)
				r.Get("/{id}", h.GetRFQHandler)
				r.Put("/{id}/close", h.CloseRFQHandler)
				r.Delete("/{id}", h.DeleteRFQHandler)
			})

			r.Route("/bid", func(r chi.Router) {
				r.Get("/accepted", h.ListAcceptedBidsHandler)
				r.Get("/selected", h.ListSelectedBidsHandler)
				r.Get("/my-bids", h.ListMyBidsHandler)
				r.Get("/rfq/{id}", h.ListBidsForRFQHandler)
				r.Put("/rfq/{id}/recommend", h.RecommendBidHandler)
				// {id} здесь id RFQ, в select/reject id предложения
				r.Post("/{id}", h.SubmitBidHandler)
				r.Put("/{id}/select", h.SelectBidHandler)
				r.Put("/{id}/reject", h.RejectBidHandler)
			})

			r.Route("/po", func(r chi.Router) {
				r.Get("/", h.ListPOsHandler)
				r.Get("/{id}", h.GetPOHandler)
				r.Put("/{id}/deliver", h.MarkDeliveredHandler)
				r.Get("/{id}/download", h.DownloadPOHandler)
			})

			r.Route("/invoice", func(r chi.Router) {
				r.Post("/", h.SubmitInvoiceHandler)
				r.Get("/", h.ListInvoicesHandler)
				r.Put("/{id}/verify", h.VerifyInvoiceHandler)
				r.Put("/{id}/dispute", h.DisputeInvoiceHandler)
				r.Get("/{id}/download", h.DownloadInvoiceHandler)
			})
		})
	})
	return r
}
