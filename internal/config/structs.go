package config

import (
	"time"

	"github.com/UnifiedPortal/UnifiedPortal/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
	CookieName string
}

// RateLimit bounds how often one principal may submit access requests.
type RateLimit struct {
	Max        int
	Expiration time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode      bool // enable dev mode for development
	DB           DB
	Log          logger.Log
	Title        string
	Webserver    Webserver
	Auth         Auth
	Applications map[string]Application
	Bootstrap    Bootstrap
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool      // disable recover middleware
	Port           int       // listening port for the webserver
	ShutDownTime   int       // wait time for shutdown
	URL            string    // base url for the webserver
	Session        Session   // session settings
	RateLimit      RateLimit // access request submission limit
}

// Application holds the deployment specific settings of one portal application.
// The key in Config.Applications is the canonical application name.
type Application struct {
	Title       string
	Description string
	BaseURL     string // where the landing page links to; empty means this service
}

// Bootstrap describes the local super-admin account seeded on first start.
type Bootstrap struct {
	SuperAdminUsername string
	SuperAdminEmail    string
	SuperAdminPassword string
}
