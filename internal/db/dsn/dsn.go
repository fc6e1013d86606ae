// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/UnifiedPortal/UnifiedPortal/internal/config"
)

// Create builds the Data Source Name for the configured engine.
// The same string is accepted by the gorm driver and the session storage of that engine.
func Create(db *config.DB) string {
	if db.Engine == config.EngineMySQL {
		return MySQL(db)
	}

	return Postgres(db)
}

// MySQL builds a go-sql-driver style DSN.
func MySQL(db *config.DB) string {
	out := fmt.Sprintf("%s:%s@tcp(%s)/%s",
		db.User,
		db.Password,
		net.JoinHostPort(db.Host, strconv.Itoa(db.Port)),
		db.Name,
	)

	if db.Extras != "" {
		out += "?" + db.Extras
	}

	return out
}

// Postgres builds a postgres:// connection URI.
func Postgres(db *config.DB) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(db.User, db.Password),
		Host:     net.JoinHostPort(db.Host, strconv.Itoa(db.Port)),
		Path:     "/" + db.Name,
		RawQuery: db.Extras,
	}

	return u.String()
}
