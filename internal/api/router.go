package api

import (
	_ "fxsync/docs"
	quotationhandler "fxsync/internal/quotation/handler"
	ratehandler "fxsync/internal/rate/handler"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	swagger "github.com/swaggo/http-swagger"
	"github.com/ulule/limiter/v3"
)

func NewRouter(rateHandler *ratehandler.Handler, quotationHandler *quotationhandler.Handler, metricsHandler http.Handler, lim *limiter.Limiter) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	// Swagger UI
	router.Get("/swagger/*", swagger.WrapHandler)
	router.Method(http.MethodGet, "/metrics", metricsHandler)

	router.Route("/exchange-rates", func(r chi.Router) {
		r.Get("/status", rateHandler.GetStatus)
		r.Get("/currencies", rateHandler.GetCurrencies)
		r.Get("/{fromCurrencyId:[0-9]+}/{toCurrencyId:[0-9]+}", rateHandler.GetByIDs)

		r.Group(func(r chi.Router) {
			r.Use(RateLimit(lim))
			r.Post("/populate-currencies", rateHandler.PopulateCurrencies)
			r.Post("/get-and-store", rateHandler.GetAndStore)
			r.Post("/sync", rateHandler.RunSync)
		})
	})

	router.With(RateLimit(lim)).Post("/sales-quotation-parcels/update-exchange-rates/{salesQuotationId}", quotationHandler.UpdateExchangeRates)
	return router
}
