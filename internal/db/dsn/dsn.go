// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net/url"

	"github.com/opticare/opticare-portal/internal/config"
)

// Create builds the Data Source Name for the configured engine.
func Create(cfg *config.Config) string {
	switch cfg.DB.Engine {
	case config.EnginePostgres:
		return Postgres(cfg)
	case config.EngineSQLite:
		return SQLite(cfg)
	default:
		return MySQL(cfg)
	}
}

// MySQL returns a go-sql-driver/mysql DSN.
func MySQL(cfg *config.Config) string {
	out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.Name,
	)

	if cfg.DB.Extras != "" {
		out += "?" + cfg.DB.Extras
	}

	return out
}

// Postgres returns a postgres URL. Extras are appended as query string.
func Postgres(cfg *config.Config) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.DB.User, cfg.DB.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.DB.Host, cfg.DB.Port),
		Path:     "/" + cfg.DB.Name,
		RawQuery: cfg.DB.Extras,
	}

	return u.String()
}

// SQLite returns the database file, in-memory when no path is set.
func SQLite(cfg *config.Config) string {
	if cfg.DB.Path == "" {
		return ":memory:"
	}

	return cfg.DB.Path
}
