package models

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gen"
	"gorm.io/gorm"
)

// All lists every persisted model in dependency order.
func All() []any {
	return []any{
		&User{},
		&BlogPost{},
		&BlogTag{},
		&BlogLike{},
		&SavedBlog{},
		&Comment{},
		&Notification{},
	}
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	migrateDB := db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})
	if err := migrateDB.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("migrate models: %w", err)
	}
	log.Info().Int("models", len(All())).Msg("Database migration completed")
	return nil
}

// GenerateQueries migrates the schema and writes typed query helpers for the
// models to outPath.
func GenerateQueries(db *gorm.DB, outPath string) error {
	if err := Migrate(db); err != nil {
		return err
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(All()...)
	g.Execute()

	log.Info().Str("outPath", outPath).Msg("Query generation complete")
	return nil
}
