package config

// Supported values for DB.Engine.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Engine   string // mysql, postgres or sqlite
	Extras   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Path     string // sqlite database file, ":memory:" for a throwaway database
}

// Redis holds the connection settings for the redis session backend.
type Redis struct {
	Addr     string
	Password string
	DB       int
}
