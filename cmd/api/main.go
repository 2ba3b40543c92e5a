package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/greenledger/greenledger-api/internal/config"
	"github.com/greenledger/greenledger-api/internal/domain/auth"
	"github.com/greenledger/greenledger-api/internal/domain/dashboard"
	"github.com/greenledger/greenledger-api/internal/domain/factor"
	"github.com/greenledger/greenledger-api/internal/domain/ledger"
	"github.com/greenledger/greenledger-api/internal/domain/marketplace"
	"github.com/greenledger/greenledger-api/internal/domain/offset"
	"github.com/greenledger/greenledger-api/internal/domain/user"
	"github.com/greenledger/greenledger-api/internal/middleware"
	"github.com/greenledger/greenledger-api/internal/pkg/database"
	"github.com/greenledger/greenledger-api/internal/pkg/jwt"
	pkgresponse "github.com/greenledger/greenledger-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting GreenLedger API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	factorRepo := factor.NewRepository(db)
	ledgerRepo := ledger.NewRepository(db)
	marketplaceRepo := marketplace.NewRepository(db)
	offsetRepo := offset.NewRepository(db)

	// ---------- Services ----------
	authService := auth.NewService(userRepo, jwtService, cfg.StartingCredits, cfg.StartingWallet)
	factorService := factor.NewService(factorRepo, redis)
	ledgerService := ledger.NewService(ledgerRepo, userRepo, factorService)
	marketplaceService := marketplace.NewService(marketplaceRepo)
	offsetService := offset.NewService(offsetRepo)
	dashboardService := dashboard.NewService(db)

	// Seed reference data so a fresh database serves useful defaults.
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := factorService.Seed(seedCtx); err != nil {
		log.Warn().Err(err).Msg("Failed to seed emission factors")
	}
	if err := offsetService.Seed(seedCtx); err != nil {
		log.Warn().Err(err).Msg("Failed to seed offset programs")
	}
	seedCancel()

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	factorHandler := factor.NewHandler(factorService)
	ledgerHandler := ledger.NewHandler(ledgerService)
	marketplaceHandler := marketplace.NewHandler(marketplaceService)
	offsetHandler := offset.NewHandler(offsetService)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	authMiddleware := middleware.Auth(jwtService)
	adminMiddleware := middleware.RequireAdmin()

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(chimw.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			pkgresponse.OK(w, map[string]string{"message": "pong"})
		})

		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/factors", factorHandler.Routes(authMiddleware, adminMiddleware))
		r.Mount("/activities", ledgerHandler.ActivityRoutes(authMiddleware))
		r.Mount("/emissions", ledgerHandler.EmissionRoutes(authMiddleware))
		r.Mount("/marketplace", marketplaceHandler.Routes(authMiddleware))
		r.Mount("/offset", offsetHandler.Routes(authMiddleware))
		r.Mount("/dashboard", dashboard.Routes(dashboardHandler, authMiddleware))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}
