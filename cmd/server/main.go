package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/mira/skylink/config"
	"github.com/mira/skylink/internal/geocode"
	"github.com/mira/skylink/internal/handler"
	"github.com/mira/skylink/internal/middleware"
	"github.com/mira/skylink/internal/provider"
	"github.com/mira/skylink/internal/repository"
	"github.com/mira/skylink/internal/service"
	"github.com/mira/skylink/pkg/cache"
	"github.com/mira/skylink/pkg/db"
)

func main() {
	// ── Load configuration ──────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// ── Connect to PostgreSQL ───────────────────────────
	pgPool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("failed to connect to PostgreSQL: %v", err)
	}
	defer pgPool.Close()
	log.Println("✓ PostgreSQL connected")

	// ── Connect to Redis ────────────────────────────────
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ── Repositories ────────────────────────────────────
	airportRepo := repository.NewAirportRepository(pgPool)
	flightRepo := repository.NewFlightRepository(pgPool)
	transportRepo := repository.NewTransportRepository(pgPool)
	delayRepo := repository.NewDelayRepository(pgPool, redisClient)

	// ── Destination resolution ──────────────────────────
	// Airport-code fast path first, then a cached geocoder.
	nominatim := geocode.NewNominatimResolver(cfg.Geocoder)
	cached := geocode.NewCachedResolver(redisClient, cfg.Geocoder.CacheTTL, nominatim)
	resolver := geocode.NewCodeFirstResolver(airportRepo, cached)

	// ── Candidate source ────────────────────────────────
	local := provider.NewLocalProvider(flightRepo, transportRepo)
	var source provider.CandidateProvider = local
	if cfg.Engine.UseLiveProviders {
		tokens := provider.NewTokenCache(
			cfg.Amadeus.BaseURL+"/v1/security/oauth2/token",
			cfg.Amadeus.APIKey, cfg.Amadeus.APISecret,
			&http.Client{Timeout: cfg.Amadeus.Timeout},
		)
		journeys := provider.NewNavitiaClient(cfg.Navitia, resolver)
		// Ground transport stays on the local dataset in live mode.
		source = provider.NewAmadeusProvider(cfg.Amadeus, tokens, journeys, airportRepo, local)
		log.Printf("✓ Live candidate source active (configured: %v)", source.Configured())
	}

	// ── Services ────────────────────────────────────────
	alternatesSvc := service.NewAlternatesService(airportRepo, source, resolver, cfg.Engine)
	connectionsSvc := service.NewConnectionService(airportRepo, source, cfg.Engine)
	preferencesSvc := service.NewPreferenceService(source, cfg.Engine)
	riskSvc := service.NewRiskService(delayRepo)

	airportHandler := handler.NewAirportHandler(airportRepo, cfg.Engine.DefaultRadiusKm)
	flightHandler := handler.NewFlightHandler(source)
	searchHandler := handler.NewSearchHandler(alternatesSvc, connectionsSvc, preferencesSvc)
	riskHandler := handler.NewRiskHandler(riskSvc)

	// ── Setup router ────────────────────────────────────
	router := mux.NewRouter()

	// Health check endpoint.
	router.HandleFunc("/health", healthHandler(pgPool, redisClient)).Methods(http.MethodGet)

	// API v1 routes.
	api := router.PathPrefix("/api/v1").Subrouter()
	// Reference data
	api.HandleFunc("/airports", airportHandler.ListAirports).Methods(http.MethodGet)
	api.HandleFunc("/airports/nearby", airportHandler.NearbyAirports).Methods(http.MethodGet)
	api.HandleFunc("/airports/{code}", airportHandler.GetAirport).Methods(http.MethodGet)
	api.HandleFunc("/flights", flightHandler.ListFlights).Methods(http.MethodGet)
	// Journey planning
	api.HandleFunc("/search/alternates", searchHandler.SearchAlternates).Methods(http.MethodPost)
	api.HandleFunc("/search/multimodal", searchHandler.SearchMultiModal).Methods(http.MethodPost)
	api.HandleFunc("/search/preferences", searchHandler.SearchByPreferences).Methods(http.MethodPost)
	api.HandleFunc("/self-transfer-check", riskHandler.CheckSelfTransfer).Methods(http.MethodPost)

	// Middleware chain, outermost first.
	root := middleware.CORS(middleware.RequestLogger(middleware.Recoverer(router)))

	// ── Start HTTP server ───────────────────────────────
	srv := &http.Server{
		Addr:         cfg.Server.ServerAddr(),
		Handler:      root,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in a goroutine so we can listen for shutdown signals.
	go func() {
		log.Printf("🚀 Server listening on %s", cfg.Server.ServerAddr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// ── Graceful shutdown ───────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("⏳ Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("✅ Server gracefully stopped")
}

// HealthResponse represents the /health endpoint response.
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// healthHandler returns an HTTP handler that checks PG and Redis connectivity.
func healthHandler(pgPool *pgxpool.Pool, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:   "ok",
			Services: make(map[string]string),
		}

		if err := db.HealthCheck(r.Context(), pgPool); err != nil {
			resp.Status = "degraded"
			resp.Services["postgres"] = "unhealthy: " + err.Error()
		} else {
			resp.Services["postgres"] = "healthy"
		}

		if err := cache.HealthCheck(r.Context(), redisClient); err != nil {
			resp.Status = "degraded"
			resp.Services["redis"] = "unhealthy: " + err.Error()
		} else {
			resp.Services["redis"] = "healthy"
		}

		w.Header().Set("Content-Type", "application/json")
		if resp.Status != "ok" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(resp)
	}
}
