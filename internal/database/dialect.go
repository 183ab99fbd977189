package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Dialect defines the interface for database-specific operations
type Dialect interface {
	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN returns the data source name for the connection
	DSN(config DialectConfig) string

	// RewriteQuery converts ? placeholders to the driver's bind syntax
	RewriteQuery(query string) string

	// ConfigureConnection applies pool settings and session pragmas
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir names the embedded migrations directory
	MigrationsSubdir() string

	// CreateMigrationsTableQuery returns the SQL to create the migrations tracking table
	CreateMigrationsTableQuery() string

	// IsUniqueViolation reports whether err is a unique constraint failure
	IsUniqueViolation(err error) bool
}

// DialectConfig holds configuration for database connection
type DialectConfig struct {
	// For SQLite
	Path string

	// For PostgreSQL/MySQL
	URL string
}

func rebind(driverName, query string) string {
	return sqlx.Rebind(sqlx.BindType(driverName), query)
}
