package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"havenrp-web/internal/config"
	"havenrp-web/internal/container"
	"havenrp-web/internal/handler"
	"havenrp-web/internal/middleware"
	"havenrp-web/pkg/logger"
)

// Resources holds all resources that need cleanup
type Resources struct {
	container *container.Container
	server    *http.Server
	log       *logger.Logger
	mu        sync.Mutex
	closed    bool
}

// Cleanup gracefully closes all resources
func (r *Resources) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error

	r.log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first to stop accepting new requests
	if r.server != nil {
		r.log.Info("Shutting down HTTP server...")
		if err := r.server.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("Failed to shutdown HTTP server")
			errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
		} else {
			r.log.Info("HTTP server shutdown complete")
		}
	}

	if r.container != nil {
		if err := r.container.Close(); err != nil {
			r.log.WithError(err).Error("Failed to close container resources")
			errs = append(errs, fmt.Errorf("container close: %w", err))
		}
	}

	if len(errs) > 0 {
		r.log.WithField("error_count", len(errs)).Error("Cleanup completed with errors")
		return fmt.Errorf("cleanup completed with %d errors: %v", len(errs), errs)
	}

	r.log.Info("Graceful shutdown completed successfully")
	return nil
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("Starting havenrp-web server")

	// Create dependency injection container
	c, err := container.New(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create container")
	}

	// Setup router
	router := setupRouter(c)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB max header size
	}

	resources := &Resources{
		container: c,
		server:    server,
		log:       log,
	}

	// Setup graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := resources.Cleanup(cleanupCtx); err != nil {
			log.WithError(err).Error("Cleanup completed with errors")
		}
	}()

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Server starting on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server error occurred")
			serverErrChan <- err
		}
	}()

	// Wait for interrupt signal or server error
	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Server failed, initiating shutdown")
	}

	log.Info("Initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := resources.Cleanup(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown completed with errors")
		os.Exit(1)
	}

	log.Info("Application shutdown complete")
}

// setupRouter configures and returns the HTTP router
func setupRouter(c *container.Container) *chi.Mux {
	cfg := c.GetConfig()
	log := c.GetLogger()

	r := chi.NewRouter()

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.AllowedOrigins

	r.Use(middleware.CORS(corsConfig, log))
	r.Use(middleware.RequestID(log))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Create handlers
	healthHandler := handler.NewHealthHandler(c)
	userHandler := handler.NewUserHandler(log)
	councilHandler := handler.NewCouncilHandler(c.Council, c.Admin, log)
	storeHandler := handler.NewStoreHandler(c.Storefront, log)
	discordHandler := handler.NewDiscordHandler(c.Directory, log)
	fivemHandler := handler.NewFivemHandler(c.Fivem, log)

	// Health check (no auth required)
	r.Get("/health", healthHandler.Check)

	r.Route("/api", func(r chi.Router) {
		// Storefront proxy (no auth required)
		r.Route("/store", func(r chi.Router) {
			r.Get("/information", storeHandler.GetInformation)
			r.Get("/categories", storeHandler.ListCategories)
			r.Get("/categories/{id}", storeHandler.GetCategory)
			r.Get("/packages/{id}", storeHandler.GetPackage)
		})

		r.Route("/council/campaigns", func(r chi.Router) {
			// Public reads. The campaign view enriches itself when a valid
			// credential is attached, so auth is optional there.
			r.Get("/", councilHandler.ListCampaigns)
			r.Get("/{id}/nominees", councilHandler.GetNominees)
			r.With(middleware.OptionalAuth(c.Auth, log)).Get("/{id}", councilHandler.GetCampaign)

			// Member participation (auth required)
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(c.Auth, log))

				r.Get("/{id}/my-nomination", councilHandler.GetMyNomination)
				r.Get("/{id}/my-vote", councilHandler.GetMyVote)
				r.Post("/{id}/nominate", councilHandler.Nominate)
				r.Post("/{id}/vote", councilHandler.Vote)
			})

			// Campaign lifecycle (council admin role required)
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(c.Auth, log))
				r.Use(middleware.RequireCouncilAdmin(c.Directory, cfg.CouncilAdminRoleID, log))

				r.Post("/", councilHandler.CreateCampaign)
				r.Patch("/{id}", councilHandler.UpdateCampaign)
				r.Delete("/{id}", councilHandler.DeleteCampaign)
				r.Post("/{id}/phase", councilHandler.SetPhase)
			})
		})

		// Protected routes (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(c.Auth, log))

			r.Route("/user", func(r chi.Router) {
				r.Get("/profile", userHandler.GetProfile)
			})

			r.Route("/discord", func(r chi.Router) {
				r.Get("/users", discordHandler.ListUsers)
				r.Get("/roles", discordHandler.ListRoles)
				r.Get("/roles/{id}", discordHandler.GetMemberRoles)
			})

			r.Route("/fivem", func(r chi.Router) {
				r.Get("/user/{discordId}/characters", fivemHandler.ListCharacters)
				r.Get("/character/{citizenid}", fivemHandler.GetCharacter)
				r.Get("/character/{citizenid}/vehicles", fivemHandler.ListVehicles)
				r.Get("/character/{citizenid}/vehicles/{plate}/inventory", fivemHandler.GetVehicleInventory)
			})
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"type":"not_found","message":"Endpoint not found"}`))
	})

	log.Info("Router configured successfully")
	return r
}
