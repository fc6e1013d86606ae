package web

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/UnifiedPortal/UnifiedPortal/internal/access"
	"github.com/UnifiedPortal/UnifiedPortal/internal/auth"
	"github.com/UnifiedPortal/UnifiedPortal/internal/catalog"
	"github.com/UnifiedPortal/UnifiedPortal/internal/config"
	fiberlog "github.com/UnifiedPortal/UnifiedPortal/internal/logger/adapter/fiber"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/handler"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/handler/admin/requests"
	oidchandler "github.com/UnifiedPortal/UnifiedPortal/internal/web/handler/auth/oidc"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/handler/dashboard"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/handler/login"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/handler/logout"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/handler/portal"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/session"
)

const (
	// CheckAlivePath answers 200 while serving and 503 while shutting down.
	CheckAlivePath = "/checkalive"
	// MetricsPath exposes Prometheus metrics.
	MetricsPath = "/metrics"
)

// ErrNilDependency is returned by New when config, db or session storage is missing.
var ErrNilDependency = errors.New("config, db and session storage are required")

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	deps         *handler.Deps
	unsubscribe  func()
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for SIGINT or SIGTERM and shuts down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown flips /checkalive to 503, waits ShutDownTime seconds and stops fiber.
func (s *Service) Shutdown() {
	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	s.alive.Store(false)

	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	if s.unsubscribe != nil {
		s.unsubscribe()
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		if err := s.App.Shutdown(); err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// Sessions returns the session manager, e.g. to subscribe to sign-in events.
func (s *Service) Sessions() *session.Manager {
	return s.deps.Sessions
}

// New creates the web service. reg receives the workflow metrics and is served on
// /metrics together with the default registry.
func New(
	ctx context.Context,
	cfg *config.Config,
	db *gorm.DB,
	storage fiber.Storage,
	reg *prometheus.Registry,
) (*Service, error) {
	if cfg == nil || db == nil || storage == nil {
		return nil, ErrNilDependency
	}

	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	sessions, err := session.NewManager(storage, session.Config{
		CookieName: cfg.Webserver.Session.CookieName,
		Expiry:     cfg.Webserver.Session.ExpiryTime,
		Insecure:   cfg.DevMode,
	})
	if err != nil {
		return nil, err
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          templateEngine(cfg),
		},
	)

	s := &Service{
		cfg: cfg,
		App: app,
		deps: &handler.Deps{
			Config:   cfg,
			DB:       db,
			Sessions: sessions,
			Access:   access.New(db, access.NewMetrics(reg)),
			Auth:     auth.NewService(ctx, &cfg.Auth, db),
		},
	}
	s.alive.Store(true)
	s.unsubscribe = sessions.Subscribe(sessionEvents(reg))

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(fiberlog.New(fiberlog.Config{
		Config:         cfg.Log,
		CheckAliveURI:  CheckAlivePath,
		PrincipalLocal: handler.LocalUserID,
	}))

	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
			},
		),
	)

	app.Get(CheckAlivePath, s.checkAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(
		prometheus.Gatherers{reg, prometheus.DefaultGatherer},
		promhttp.HandlerOpts{},
	)))

	for _, h := range []handler.Service{
		&portal.Handler,
		&login.Handler,
		&logout.Handler,
		&oidchandler.Handler,
		&dashboard.Handler,
		&requests.Handler,
	} {
		if err = h.Init(app, s.deps); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

func templateEngine(cfg *config.Config) *html.Engine {
	engine := html.NewFileSystem(http.FS(templateEmbedFS{embeddedTemplates}), ".gohtml")

	// in dev mode, use local filesystem for templates
	if cfg.DevMode {
		engine = html.New("./internal/web/templates", ".gohtml")
		engine.ShouldReload = true

		log.Warn().Msg("dev mode enabled: using local filesystem for templates")
	}

	engine.AddFunc("roleLabel", func(r catalog.Role) string {
		return catalog.RoleLabel(r)
	})
	engine.AddFunc("formatTime", func(t time.Time) string {
		return t.Format("2006-01-02 15:04")
	})

	return engine
}

// sessionEvents logs sign-ins and sign-outs and counts them on reg.
func sessionEvents(reg prometheus.Registerer) func(session.Event) {
	counter := promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
		Name: "portal_session_events_total",
		Help: "Number of sign-in and sign-out events.",
	}, []string{"kind"})

	return func(e session.Event) {
		counter.WithLabelValues(string(e.Kind)).Inc()
		log.Info().Str("event", string(e.Kind)).Str("user", e.Principal.ID).
			Str("source", string(e.Principal.AuthSource)).Msg("session event")
	}
}
