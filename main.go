package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	api "github.com/rpupo63/blog-platform-backend/api"
	"github.com/rpupo63/blog-platform-backend/config"
	"github.com/rpupo63/blog-platform-backend/database"
	"github.com/rpupo63/blog-platform-backend/models"
	"github.com/rpupo63/blog-platform-backend/services"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading configuration")
	}
	setupLogger(cfg)
	log.Info().Str("dbType", cfg.DBType).Str("authProvider", cfg.AuthProvider).Msg("Initializing app...")

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	// If generating models, run generation and exit
	if cfg.GenerateModels {
		log.Info().Str("path", cfg.GeneratePath).Msg("Generating query helpers...")
		if err := models.GenerateQueries(db, cfg.GeneratePath); err != nil {
			log.Fatal().Err(err).Msg("Error generating query helpers")
		}
		return
	}

	if err := models.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Error migrating database")
	}

	currentDB := database.New(db)
	if err := currentDB.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("Error testing database connection")
	}

	verifier, err := newVerifier(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing identity verifier")
	}

	serverOpts, err := serverOptions(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing image store")
	}

	server, err := api.NewServer(cfg, services.New(currentDB), verifier, serverOpts...)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	errChannel := make(chan error)
	defer close(errChannel)

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

func setupLogger(cfg config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.LogFormat == "json" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
}

func newVerifier(cfg config.Config) (services.Verifier, error) {
	switch cfg.AuthProvider {
	case config.AuthProviderDescope:
		return services.NewDescopeVerifier(cfg.DescopeProjectID)
	case config.AuthProviderJWT:
		log.Warn().Msg("Using shared-secret JWT verification")
		return services.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer), nil
	default:
		return nil, fmt.Errorf("unsupported auth provider %q", cfg.AuthProvider)
	}
}

// serverOptions mounts the image upload route when an S3 bucket is configured.
func serverOptions(ctx context.Context, cfg config.Config) ([]api.Option, error) {
	if !cfg.ImageUploadsEnabled() {
		log.Info().Msg("S3_BUCKET not set, image uploads disabled")
		return nil, nil
	}
	store, err := services.NewS3ImageStore(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3PublicBaseURL)
	if err != nil {
		return nil, err
	}
	return []api.Option{api.WithImageStore(store)}, nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
