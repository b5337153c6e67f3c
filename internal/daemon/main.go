// Package daemon wires the portal together: database, session storage,
// identity client, actions and the web service.
package daemon

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/opticare/opticare-portal/internal/actions"
	"github.com/opticare/opticare-portal/internal/config"
	"github.com/opticare/opticare-portal/internal/db/dsn"
	"github.com/opticare/opticare-portal/internal/db/models"
	"github.com/opticare/opticare-portal/internal/identity"
	"github.com/opticare/opticare-portal/internal/routes"
	"github.com/opticare/opticare-portal/internal/web"
	"github.com/opticare/opticare-portal/internal/web/handler"
	"github.com/opticare/opticare-portal/internal/web/session"
)

// ErrNilConfig is returned by New without a config.
var ErrNilConfig = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service and blocks until it is shut down.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// openDB opens the configured database with the matching gorm driver.
func openDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DB.Engine {
	case config.EnginePostgres:
		dialector = gormpostgres.Open(dsn.Postgres(cfg))
	case config.EngineSQLite:
		dialector = sqlite.Open(dsn.SQLite(cfg))
	default:
		dialector = gormmysql.Open(dsn.MySQL(cfg))
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if cfg.DB.Engine == config.EngineSQLite && dsn.SQLite(cfg) == ":memory:" {
		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			return nil, errors.Wrap(dbErr, "failed to get database handle")
		}

		// every pooled connection would open its own in-memory database
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	if err = db.AutoMigrate(models.All()...); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	if err = seed(db); err != nil {
		return nil, err
	}

	storage, err := session.NewStorage(cfg)
	if err != nil {
		return nil, err
	}

	sessions := session.NewStore(storage, session.Config{
		Expiration: cfg.Webserver.Session.ExpiryTime,
		Secure:     !cfg.DevMode,
		Domain:     cfg.Webserver.Domain,
	})

	client := identity.New(identity.Config{
		BaseURL:        cfg.Identity.BaseURL,
		APIKey:         cfg.Identity.APIKey,
		Timeout:        cfg.Identity.Timeout,
		ProfileRPC:     cfg.Identity.ProfileRPC,
		PermissionsRPC: cfg.Identity.PermissionsRPC,
	})

	limiter := actions.NewLoginLimiter(cfg.Identity.LoginAttemptsPerMinute, cfg.Identity.LoginBurst)

	classifier := routes.NewClassifier(routes.DefaultTable().Override(routes.Table{
		Public:     cfg.Routes.Public,
		Auth:       cfg.Routes.Auth,
		Protected:  cfg.Routes.Protected,
		Restricted: cfg.Routes.Restricted,
	}))

	deps := &handler.Deps{
		Config:   cfg,
		DB:       db,
		Sessions: sessions,
		Actions:  actions.New(client, limiter),
		Routes:   classifier,
	}

	webService, err := web.New(cfg, deps, client, storage)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("db", cfg.DB.Engine).
		Str("sessions", cfg.Webserver.Session.Storage).
		Str("identity", cfg.Identity.BaseURL).
		Msg("daemon initialized")

	return &Daemon{
		cfg:        cfg,
		webService: webService,
	}, nil
}
