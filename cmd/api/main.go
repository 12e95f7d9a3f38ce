package main

import (
	"net/http"
	"os"
	"time"

	"pet-adoption-service/internal/adapters/auth/gate"
	"pet-adoption-service/internal/adapters/notify/courier"
	"pet-adoption-service/internal/platform/logger"
	"pet-adoption-service/internal/ports/auth"
	"pet-adoption-service/internal/ports/notify"
	"pet-adoption-service/internal/router"
)

func main() {
	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	log := logger.NewFromEnv()

	// Verifier contra el IAM (Gate). Sin AUTH_BASE_URL => modo dev
	// (headers X-Debug-* arman la identidad).
	var verifier auth.AuthVerifier
	if baseURL := os.Getenv("AUTH_BASE_URL"); baseURL != "" {
		client, err := gate.NewClient(gate.Config{
			BaseURL: baseURL,
			APIKey:  os.Getenv("AUTH_API_KEY"),
			Timeout: 5 * time.Second,
		})
		if err != nil {
			log.Error("gate client init failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		verifier = gate.NewVerifier(client)
	} else {
		log.Warn("AUTH_BASE_URL not set, running in dev auth mode", nil)
	}

	// Relay de notificaciones (Courier). Sin COURIER_BASE_URL se descartan.
	var dispatcher notify.Dispatcher
	if baseURL := os.Getenv("COURIER_BASE_URL"); baseURL != "" {
		d, err := courier.NewDispatcher(courier.Config{
			BaseURL: baseURL,
			APIKey:  os.Getenv("COURIER_API_KEY"),
			Timeout: 5 * time.Second,
		})
		if err != nil {
			log.Error("courier client init failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		dispatcher = d
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Dispatcher:   dispatcher,
		Logger:       log,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
