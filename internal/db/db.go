// Package db opens the portal database for the configured engine.
package db

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/UnifiedPortal/UnifiedPortal/internal/config"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/dsn"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/models"
)

// Dialector returns the gorm driver for cfg.Engine.
func Dialector(cfg *config.DB) gorm.Dialector {
	if cfg.Engine == config.EngineMySQL {
		return mysql.Open(dsn.MySQL(cfg))
	}

	return postgres.Open(dsn.Postgres(cfg))
}

// Open connects with dialector and migrates all models.
func Open(dialector gorm.Dialector, devMode bool) (*gorm.DB, error) {
	level := logger.Warn
	if devMode {
		level = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	if err = db.AutoMigrate(models.All()...); err != nil {
		return nil, err
	}

	log.Debug().Str("dialect", dialector.Name()).Msg("database migrated")

	return db, nil
}

// IsDuplicate reports a unique constraint violation.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// drivers without error translation
	msg := strings.ToLower(err.Error())

	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate")
}
