package config

// Database engines accepted in DB.Type.
const (
	DBTypeSQLite   = "sqlite"
	DBTypeMySQL    = "mysql"
	DBTypePostgres = "postgres"
)

// DB holds the database configuration settings.
type DB struct {
	Type     string `validate:"required,oneof=sqlite mysql postgres"`
	Path     string // sqlite database file
	Extras   string // extra dsn parameters
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}
