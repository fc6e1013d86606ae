// Package daemon wires configuration, database, session storage and the web service.
package daemon

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/UnifiedPortal/UnifiedPortal/internal/config"
	portaldb "github.com/UnifiedPortal/UnifiedPortal/internal/db"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/dsn"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web"
)

// SessionTable is the table the session storage keeps its rows in.
const SessionTable = "sessions"

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start serves HTTP until a shutdown signal arrives.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New opens the database, seeds the bootstrap account and builds the web service.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, web.ErrNilDependency
	}

	db, err := portaldb.Open(portaldb.Dialector(&cfg.DB), cfg.DevMode)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err = Seed(ctx, cfg, db); err != nil {
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	svc, err := web.New(ctx, cfg, db, SessionStorage(&cfg.DB), prometheus.NewRegistry())
	if err != nil {
		return nil, err
	}

	log.Info().Str("engine", cfg.DB.Engine).Int("port", cfg.Webserver.Port).Msg("daemon initialized")

	return &Daemon{cfg: cfg, webService: svc}, nil
}

// SessionStorage returns the fiber session storage for the configured engine.
func SessionStorage(cfg *config.DB) fiber.Storage {
	if cfg.Engine == config.EngineMySQL {
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.MySQL(cfg),
			Table:         SessionTable,
		})
	}

	return sessionpostgres.New(sessionpostgres.Config{
		ConnectionURI: dsn.Postgres(cfg),
		Table:         SessionTable,
	})
}
