package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/osteria-vecchia/reservations-api/internal/auth"
)

func RegisterRoutes(r *chi.Mux, authHandler *auth.Handler, reservationHandler *ReservationHandler, adminHandler *AdminHandler) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Public API
	config := huma.DefaultConfig("Reservations API", "1.0.0")
	api := humachi.New(r, config)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	huma.Get(api, "/availability", reservationHandler.HandleAvailability)
	huma.Post(api, "/reservations", reservationHandler.HandleCreate)
	huma.Post(api, "/reservations/cancel", reservationHandler.HandleCancel)

	// Admin API, token-gated on its own sub-router so the middleware wraps
	// every operation registered below.
	adminRouter := chi.NewRouter()
	adminRouter.Use(authHandler.AdminMiddleware)

	adminConfig := huma.DefaultConfig("Reservations Admin API", "1.0.0")
	adminConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearerAuth": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	adminAPI := humachi.New(adminRouter, adminConfig)

	secured := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"bearerAuth": {}}}
	}

	huma.Get(adminAPI, "/reservations/{date}", adminHandler.HandleList, secured)
	huma.Patch(adminAPI, "/reservations/{date}/{id}", adminHandler.HandleUpdate, secured)
	huma.Delete(adminAPI, "/reservations/{date}/{id}", adminHandler.HandleCancel, secured)
	huma.Post(adminAPI, "/blocked-dates", adminHandler.HandleBlockDates, secured)
	huma.Post(adminAPI, "/blocked-slots", adminHandler.HandleBlockSlot, secured)
	huma.Put(adminAPI, "/settings", adminHandler.HandleSaveSettings, secured)

	r.Mount("/admin", adminRouter)
}
