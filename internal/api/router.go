package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/rustyeddy/papertrade/market"
	"github.com/rustyeddy/papertrade/session"
)

// NewRouter creates and configures the HTTP router
func NewRouter(s *session.Session, prices *market.StaticPrices, allowedOrigins []string, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	if len(allowedOrigins) > 0 {
		r.Use(NewCORS(allowedOrigins).Handler)
	}

	h := &Handler{session: s, prices: prices}

	r.Route("/api", func(r chi.Router) {
		r.Get("/system/health", h.Health)

		r.Route("/account", func(r chi.Router) {
			r.Post("/", h.CreateAccount)
			r.Get("/", h.Summary)
			r.Post("/deposit", h.Deposit)
			r.Post("/withdraw", h.Withdraw)
			r.Post("/buy", h.Buy)
			r.Post("/sell", h.Sell)
			r.Get("/holdings", h.Holdings)
			r.Get("/transactions", h.Transactions)
			r.Get("/pnl", h.ProfitOrLoss)
		})

		r.Route("/prices", func(r chi.Router) {
			r.Get("/", h.Prices)
			r.Get("/{symbol}", h.Quote)
		})
	})

	return r
}
