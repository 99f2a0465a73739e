package main

import (
	"log"
	"net/http"
	"time"

	"darevote/internal/challenge"
	"darevote/internal/config"
	"darevote/internal/game"
	"darevote/internal/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("config: %v", err)
	}

	catalog := challenge.Default()
	store := game.NewStore(game.Options{
		RoundDuration: cfg.RoundDuration,
		GraceWindow:   cfg.GraceWindow,
		Challenges:    catalog,
	})

	router := handlers.NewRouter(store, catalog, handlers.RouterConfig{
		CORSOrigins: cfg.CORSOrigins,
		BaseURL:     cfg.BaseURL,
	})

	// No read or write timeouts: SSE and WebSocket responses stay open.
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("listening on http://localhost%s round=%s grace=%s", cfg.Addr(), cfg.RoundDuration, cfg.GraceWindow)
	if err := server.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
