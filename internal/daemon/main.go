// Package daemon wires database, session storage, oidc client and web service.
package daemon

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/auth"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/config"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/dsn"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New opens and migrates the database, seeds the default organisation and
// builds the web service.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	gdb, err := db.Open(cfg.DB)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(gdb); err != nil {
		return nil, err
	}

	if err = seed(cfg, gdb); err != nil {
		return nil, err
	}

	storage, err := sessionStorage(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open session storage")
	}

	session.Init(storage, cfg.Webserver.Session.ExpiryTime)

	webService, err := web.New(cfg, gdb, oidcClients(cfg))
	if err != nil {
		return nil, err
	}

	return &Daemon{cfg: cfg, webService: webService}, nil
}

// sessionStorage returns the configured fiber storage. Nil selects the in
// memory storage of the session package.
func sessionStorage(cfg *config.Config) (fiber.Storage, error) {
	sc := cfg.Webserver.Session

	switch sc.Storage {
	case config.SessionStorageMemory:
		return nil, nil //nolint:nilnil
	case config.SessionStorageRedis:
		storage, err := session.NewRedisStorage(sc.Redis)
		if err != nil {
			return nil, err
		}

		return storage, nil
	case config.SessionStorageDB, "":
		switch cfg.DB.Type {
		case config.DBTypeMySQL:
			return sessionmysql.New(sessionmysql.Config{
				ConnectionURI: dsn.MySQL(cfg.DB),
				Table:         sc.Table,
			}), nil
		case config.DBTypePostgres:
			return sessionpostgres.New(sessionpostgres.Config{
				ConnectionURI: dsn.Postgres(cfg.DB),
				Table:         sc.Table,
			}), nil
		default:
			log.Warn().Str("db", cfg.DB.Type).Msg("no session table support for this database, sessions are kept in memory")
			return nil, nil //nolint:nilnil
		}
	default:
		return nil, fmt.Errorf("unknown session storage %q", sc.Storage)
	}
}

// oidcClients returns nil when the oidc backend is off. A provider that can
// not be discovered at startup does not stop the daemon, the holder retries on
// demand.
func oidcClients(cfg *config.Config) *auth.ClientHolder {
	if !cfg.Auth.Has(config.BackendOIDC) {
		return nil
	}

	oidcCfg := cfg.OIDC

	holder := auth.NewClientHolder(func(ctx context.Context) (auth.FlowClient, error) {
		client, err := auth.NewOIDCClient(ctx, &oidcCfg)
		if err != nil {
			return nil, err
		}

		return client, nil
	}, auth.DefaultRetryInterval)

	if _, err := holder.Client(context.Background()); err != nil {
		log.Warn().Err(err).Msg("oidc provider not available at startup, sign in with oidc is hidden until it is")
	}

	return holder
}
