package api

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) RegisterRoutes(r chi.Router) {
	// create rate limiter: 10 requests per second, max burst 20 requests
	rateLimiter := NewRateLimiter(10, 20)

	r.Use(rateLimiter.RateLimit)
	r.Use(Metrics)

	r.Post("/api/v1/operations", h.SubmitOperation)
	r.Get("/api/v1/config", h.GetConfig)
	r.Get("/api/v1/avs/{address}", h.GetAvs)
	r.Get("/api/v1/operator/{address}", h.GetOperator)
	r.Get("/api/v1/ticket/{address}", h.GetTicket)
}
