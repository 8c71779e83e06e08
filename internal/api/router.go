package api

import (
	_ "fxswap/docs"
	"fxswap/internal/swap/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	swagger "github.com/swaggo/http-swagger"
)

func NewRouter(swapHandler *handler.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	// Swagger UI
	router.Get("/swagger/*", swagger.WrapHandler)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/currencies", swapHandler.ListCurrencies)
		r.Post("/swaps", swapHandler.OpenSession)
		r.Route("/swaps/{id}", func(r chi.Router) {
			r.Get("/", swapHandler.GetSession)
			r.Delete("/", swapHandler.CloseSession)
			r.Put("/amount", swapHandler.EditAmount)
			r.Put("/destination", swapHandler.ChangeDestination)
			r.Put("/rate-mode", swapHandler.SelectRateMode)
			r.Post("/submit", swapHandler.Submit)
		})
	})
	return router
}
