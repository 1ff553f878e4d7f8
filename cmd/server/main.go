package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"opsconsole/internal/auth"
	"opsconsole/internal/bootstrap"
	"opsconsole/internal/config"
	"opsconsole/internal/handler"
	"opsconsole/internal/middleware"
	docstoreService "opsconsole/internal/service/docstore"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger, closeLog := config.NewLogger(cfg)
	defer closeLog()

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"metadata_backend", cfg.MetadataBackend,
		"object_backend", cfg.ObjectBackend,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	policy, err := config.LoadAccessPolicy(cfg.PolicyFile)
	if err != nil {
		log.Fatalf("Failed to load access policy: %v", err)
	}

	jwtVerifier, err := auth.NewJWTVerifier(ctx, cfg.SupabaseJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	backends, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open backends: %v", err)
	}
	defer backends.Close()

	svcs := docstoreService.SetupServices(backends.Repos, backends.Objects, cfg, policy, logger)
	logger.Info("services initialized")

	mux := handler.NewRouter(svcs, cfg, logger)

	// Order: CORS → Recovery → Auth → Routes
	var h http.Handler = mux
	h = middleware.AuthMiddleware(jwtVerifier, logger)(h)
	h = middleware.Recovery(logger)(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     h,
		ReadTimeout: 60 * time.Second, // uploads
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}
