package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/osteria-vecchia/reservations-api/internal/auth"
	"github.com/osteria-vecchia/reservations-api/internal/booking"
	"github.com/osteria-vecchia/reservations-api/internal/config"
	"github.com/osteria-vecchia/reservations-api/internal/database"
	"github.com/osteria-vecchia/reservations-api/internal/handlers"
	"github.com/osteria-vecchia/reservations-api/internal/notifier"
	"github.com/osteria-vecchia/reservations-api/internal/store"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	// Initialize Notifier
	var staffNotifier notifier.Notifier
	discordNotifier, err := notifier.NewDiscordNotifier(cfg.DiscordBotToken, cfg.DiscordNotificationsChannelID)
	if err != nil {
		log.Printf("Discord notifier not initialized: %v", err)
	} else {
		staffNotifier = discordNotifier
	}

	// Initialize Service and Handlers
	svc := booking.NewService(store.New(db), cfg.DefaultSettings(), staffNotifier)
	authHandler := auth.NewHandler(cfg)
	reservationHandler := handlers.NewReservationHandler(svc)
	adminHandler := handlers.NewAdminHandler(svc)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, authHandler, reservationHandler, adminHandler)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
