package config

import (
	"time"

	"github.com/opticare/opticare-portal/internal/logger"
)

// Session storage backends.
const (
	SessionStorageMemory   = "memory"
	SessionStorageMySQL    = "mysql"
	SessionStoragePostgres = "postgres"
	SessionStorageRedis    = "redis"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
	Storage    string // memory, mysql, postgres or redis
	Table      string // table name for sql backed session storage
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Redis     Redis
	Identity  Identity
	Routes    Routes
	Log       logger.Log
	Title     string
	Webserver Webserver
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath           bool    // use clean path middleware to allow multi slash requests
	DisableRecover      bool    // disable recover middleware
	Domain              string  // domain name for the webserver
	Port                int     // listening port for the webserver
	ShutDownTime        int     // wait time for shutdown
	URL                 string  // base url for the webserver
	CookieEncryptionKey string  // base64 key for the encryptcookie middleware, empty disables it
	Session             Session // session settings
}

// Identity holds the settings of the external identity provider.
type Identity struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	ProfileRPC     string // rpc returning the current user's profile
	PermissionsRPC string // rpc returning the current user's permissions

	// LoginAttemptsPerMinute throttles login attempts per e-mail address, 0 disables it.
	LoginAttemptsPerMinute int
	LoginBurst             int
}

// Routes optionally replaces the built-in route table. Empty lists keep the defaults.
type Routes struct {
	Public     []string
	Auth       []string
	Protected  []string
	Restricted map[string][]string
}
