// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net/url"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/config"
)

// MySQL builds the go-sql-driver/mysql DSN from the configuration.
func MySQL(db config.DB) string {
	out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
	)

	if db.Extras != "" {
		out += "?" + db.Extras
	}

	return out
}

// Postgres builds a postgres:// connection URI from the configuration.
func Postgres(db config.DB) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(db.User, db.Password),
		Host:     fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:     "/" + db.Name,
		RawQuery: db.Extras,
	}

	return u.String()
}

// Create builds the DSN for the configured engine. For sqlite it is the file path.
func Create(db config.DB) string {
	switch db.Type {
	case config.DBTypeMySQL:
		return MySQL(db)
	case config.DBTypePostgres:
		return Postgres(db)
	default:
		return db.Path
	}
}
