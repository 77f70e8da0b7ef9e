package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rpupo63/blog-platform-backend/config"
	"github.com/rpupo63/blog-platform-backend/services"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(cfg config.Config, svc *services.Services, verifier services.Verifier, opts ...Option) (Server, error) {
	if verifier == nil {
		return Server{}, fmt.Errorf("an identity verifier is required")
	}

	address := fmt.Sprintf("0.0.0.0:%s", cfg.Port) // Bind to 0.0.0.0 for external access

	// Capture startup time
	startupTime := time.Now()

	opts = append([]Option{withAcceptedOrigins(cfg.AcceptedOrigins), withStartupTime(startupTime)}, opts...)
	handler := NewRouter(svc, verifier, opts...)

	server := &http.Server{
		Addr:         address,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,  // Timeout for reading the entire request
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second, // Timeout for writing the response
		IdleTimeout:  time.Duration(cfg.IdleTimeoutSeconds) * time.Second,  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

// Option customizes the router built by NewRouter.
type Option func(*router)

type router struct {
	acceptedOrigins []string
	imageStore      services.ImageStore
	startupTime     time.Time
}

func withAcceptedOrigins(origins []string) Option {
	return func(r *router) {
		r.acceptedOrigins = origins
	}
}

func withStartupTime(startupTime time.Time) Option {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

// WithImageStore enables POST /upload-image backed by store.
func WithImageStore(store services.ImageStore) Option {
	return func(r *router) {
		r.imageStore = store
	}
}

// NewRouter builds the HTTP handler for every route.
func NewRouter(svc *services.Services, verifier services.Verifier, opts ...Option) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}
	if len(router.acceptedOrigins) == 0 {
		router.acceptedOrigins = []string{"*"}
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RequestID)
	chiRouter.Use(middleware.RealIP)
	chiRouter.Use(HTTPLoggingMiddleware)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   router.acceptedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	var uploader *services.ImageUploader
	if router.imageStore != nil {
		uploader = services.NewImageUploader(router.imageStore)
	}

	// Initialize all handlers
	handlers := initializeHandlers(svc, uploader)

	// Initialize auth middleware
	authMiddleware := newAuthMiddleware(verifier)

	setupRoutes(chiRouter, handlers, authMiddleware)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Dur("uptime", time.Since(s.startupTime)).Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
