package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rrens/mika-travel/internal/api"
	"github.com/Rrens/mika-travel/internal/api/handler"
	"github.com/Rrens/mika-travel/internal/config"
	"github.com/Rrens/mika-travel/internal/domain"
	"github.com/Rrens/mika-travel/internal/identity"
	"github.com/Rrens/mika-travel/internal/identity/firebase"
	"github.com/Rrens/mika-travel/internal/llm"
	"github.com/Rrens/mika-travel/internal/logger"
	"github.com/Rrens/mika-travel/internal/repository"
	"github.com/Rrens/mika-travel/internal/repository/memory"
	"github.com/Rrens/mika-travel/internal/repository/redis"
	"github.com/Rrens/mika-travel/internal/security"
	"github.com/Rrens/mika-travel/internal/session"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file - try multiple locations
	envPaths := []string{".env", "../.env", "../../.env"}
	envLoaded := false
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			fmt.Printf("Loaded .env from: %s\n", p)
			envLoaded = true
			break
		}
	}
	if !envLoaded {
		fmt.Println("Warning: .env file not found in any standard location")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	logCloser, err := logger.Setup(cfg.Logging, cfg.IsProduction())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up logging")
	}
	defer logCloser.Close()

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("storage", cfg.Storage.Driver).
		Str("sessions", cfg.Session.Backend).
		Str("auth", cfg.Auth.Provider).
		Msg("Starting Mika travel assistant")

	ctx := context.Background()

	// Initialize storage
	backend, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer backend.Close()

	readiness := map[string]handler.Pinger{"storage": backend}

	// Initialize Redis
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
		readiness["redis"] = redisClient
	}

	store, err := newSessionStore(cfg, redisClient)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize session store")
	}

	// Initialize LLM Router with providers
	llmRouter := newLLMRouter(cfg.LLM)
	chat := llm.NewGenerator(llmRouter, "", cfg.LLM.ChatModel, cfg.LLM.RequestTimeout).
		WithSystemPrompt(cfg.LLM.SystemPrompt)
	planner := llm.NewGenerator(llmRouter, "", cfg.LLM.ItineraryModel, cfg.LLM.RequestTimeout)

	manager := session.NewManager(session.Dependencies{
		Identity: newIdentityGateway(cfg, backend.Users),
		Messages: backend.Messages,
		Trips:    backend.Trips,
		Chat:     chat,
		Planner:  planner,
	})

	deps := api.Dependencies{
		Sessions:  session.NewService(store, manager),
		LLM:       llmRouter,
		Readiness: readiness,
	}
	if redisClient != nil {
		deps.Limiter = redis.NewRateLimiter(
			redisClient,
			cfg.Security.RateLimit.RequestsPerMinute,
			cfg.Security.RateLimit.Burst,
		)
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(cfg, deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func newSessionStore(cfg *config.Config, redisClient *redis.Client) (session.Store, error) {
	if cfg.Session.Backend != config.SessionRedis {
		return memory.NewSessionStore(cfg.Session.TTL), nil
	}

	sealer, err := security.NewSealerFromConfig(cfg.Session.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("invalid session encryption key: %w", err)
	}
	return redis.NewSessionStore(redisClient, sealer, cfg.Session.TTL), nil
}

func newIdentityGateway(cfg *config.Config, users domain.UserRepository) domain.IdentityGateway {
	if cfg.Auth.Provider == config.AuthFirebase {
		log.Info().Msg("Using Firebase identity gateway")
		return firebase.NewGateway(cfg.Auth.Firebase.APIKey, cfg.Auth.Firebase.BaseURL)
	}
	jwtManager := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTokenTTL)
	return identity.NewLocalGateway(users, jwtManager)
}
