package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	DBTypePostgres = "postgres"
	DBTypeSQLite   = "sqlite"

	AuthProviderDescope = "descope"
	AuthProviderJWT     = "jwt"
)

type Config struct {
	Port                string   `env:"PORT" envDefault:"8080"`
	ReadTimeoutSeconds  int      `env:"READ_TIMEOUT_SECONDS" envDefault:"180"`
	WriteTimeoutSeconds int      `env:"WRITE_TIMEOUT_SECONDS" envDefault:"180"`
	IdleTimeoutSeconds  int      `env:"IDLE_TIMEOUT_SECONDS" envDefault:"180"`
	AcceptedOrigins     []string `env:"ACCEPTED_ORIGINS" envSeparator:"," envDefault:"*"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	DBType              string   `env:"DB_TYPE" envDefault:"postgres"`
	DatabaseURL         string   `env:"DATABASE_URL"`
	DatabaseReplicaURLs []string `env:"DATABASE_REPLICA_URLS" envSeparator:","`
	SQLitePath          string   `env:"SQLITE_PATH" envDefault:"blog.db"`

	AuthProvider     string `env:"AUTH_PROVIDER" envDefault:"descope"`
	DescopeProjectID string `env:"DESCOPE_PROJECT_ID"`
	JWTSecret        string `env:"JWT_SECRET"`
	JWTIssuer        string `env:"JWT_ISSUER"`

	S3Bucket        string `env:"S3_BUCKET"`
	S3Region        string `env:"S3_REGION" envDefault:"us-east-1"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`

	GenerateModels bool   `env:"GENERATE_MODELS" envDefault:"false"`
	GeneratePath   string `env:"GENERATE_PATH" envDefault:"./generated"`

	SSMParameterPath string `env:"SSM_PARAMETER_PATH"`
}

// Load reads .env (if present), overlays SSM parameters when
// SSM_PARAMETER_PATH is set, then parses the environment into a Config.
func Load(ctx context.Context) (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded, using process environment")
	}

	if path := strings.TrimSpace(os.Getenv("SSM_PARAMETER_PATH")); path != "" {
		if err := loadSSMParameters(ctx, path); err != nil {
			return Config{}, fmt.Errorf("load ssm parameters: %w", err)
		}
	}

	return Parse()
}

// Parse builds a Config from the current process environment.
func Parse() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	cfg.AcceptedOrigins = trimAll(cfg.AcceptedOrigins)
	cfg.DatabaseReplicaURLs = trimAll(cfg.DatabaseReplicaURLs)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DBType {
	case DBTypePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DB_TYPE=%s", DBTypePostgres)
		}
	case DBTypeSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when DB_TYPE=%s", DBTypeSQLite)
		}
	default:
		return fmt.Errorf("unsupported DB_TYPE %q", c.DBType)
	}

	switch c.AuthProvider {
	case AuthProviderDescope:
		if c.DescopeProjectID == "" {
			return fmt.Errorf("DESCOPE_PROJECT_ID is required when AUTH_PROVIDER=%s", AuthProviderDescope)
		}
	case AuthProviderJWT:
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when AUTH_PROVIDER=%s", AuthProviderJWT)
		}
	default:
		return fmt.Errorf("unsupported AUTH_PROVIDER %q", c.AuthProvider)
	}
	return nil
}

func (c Config) ImageUploadsEnabled() bool {
	return c.S3Bucket != ""
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
