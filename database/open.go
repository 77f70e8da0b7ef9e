package database

import (
	"fmt"
	stdlog "log"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rpupo63/blog-platform-backend/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// Open connects to the configured database and registers read replicas when
// any are configured.
func Open(cfg config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:         newGormLogger(),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.DBType {
	case config.DBTypePostgres:
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DatabaseURL,
			PreferSimpleProtocol: true,
		}), gormConfig)
	case config.DBTypeSQLite:
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gormConfig)
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DBType)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBType, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.DBType == config.DBTypeSQLite {
		// sqlite allows one writer; a single connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if cfg.DBType == config.DBTypePostgres && len(cfg.DatabaseReplicaURLs) > 0 {
		replicas := make([]gorm.Dialector, 0, len(cfg.DatabaseReplicaURLs))
		for _, dsn := range cfg.DatabaseReplicaURLs {
			replicas = append(replicas, postgres.Open(dsn))
		}
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, fmt.Errorf("register read replicas: %w", err)
		}
		log.Info().Int("replicas", len(replicas)).Msg("Registered read replicas")
	}

	return db, nil
}

func newGormLogger() logger.Interface {
	level := logger.Warn
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		level = logger.Info
	}
	return logger.New(
		stdlog.New(log.Logger, "", 0),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
