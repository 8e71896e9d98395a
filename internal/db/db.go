// Package db opens the configured database and migrates the models.
package db

import (
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/config"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/dsn"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/models"
	gormadapter "github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/logger/adapter/gorm"
)

const slowQueryThreshold = 500 * time.Millisecond

// ErrUnknownDBType is returned for a db.type outside sqlite, mysql and postgres.
var ErrUnknownDBType = errors.New("unknown database type")

// Dialector returns the gorm dialector for the configured engine.
func Dialector(cfg config.DB) (gorm.Dialector, error) {
	switch cfg.Type {
	case config.DBTypeSQLite:
		if dir := filepath.Dir(cfg.Path); dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil { //nolint:mnd
				return nil, errors.Wrap(err, "failed to create sqlite directory")
			}
		}

		return sqlite.Open(cfg.Path), nil
	case config.DBTypeMySQL:
		return gormmysql.Open(dsn.MySQL(cfg)), nil
	case config.DBTypePostgres:
		return postgres.Open(dsn.Postgres(cfg)), nil
	default:
		return nil, errors.Wrap(ErrUnknownDBType, cfg.Type)
	}
}

// Open connects to the configured database. Unique violations are translated
// to gorm.ErrDuplicatedKey.
func Open(cfg config.DB) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormadapter.New(slowQueryThreshold),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	return db, nil
}

// Migrate creates or updates the tables of all models.
func Migrate(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(models.All()...), "failed to migrate database")
}
