package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/mkarpenko/recipebox/internal/config"
	"github.com/mkarpenko/recipebox/internal/logger"
)

// Supported database driver names, matching the database/sql registrations
// of jackc/pgx (stdlib) and mattn/go-sqlite3.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

// DB wraps the raw *sql.DB with everything the repositories need to stay
// driver-agnostic: a squirrel statement builder carrying the right
// placeholder format and an error classifier for the active driver.
type DB struct {
	*sql.DB

	driver     string
	sb         sq.StatementBuilderType
	classifier ErrorClassifier
	logger     *logger.Logger
}

// NewConnect opens a database connection for the configured driver.
// The driver name selects both the database/sql driver and the matching
// placeholder/classifier pair.
func NewConnect(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	switch cfg.Driver {
	case DriverPostgres:
		return NewConnectPostgres(ctx, cfg, log)
	case DriverSQLite:
		return NewConnectSQLite(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

// Builder returns the squirrel statement builder preconfigured with the
// placeholder format of the underlying driver ($1 for PostgreSQL, ? for
// SQLite). All repository queries are built through it.
func (db *DB) Builder() sq.StatementBuilderType {
	return db.sb
}

// Driver returns the database/sql driver name the connection was opened with.
func (db *DB) Driver() string {
	return db.driver
}

// IsUniqueViolation reports whether err represents a unique-constraint
// violation in the dialect of the active driver.
func (db *DB) IsUniqueViolation(err error) bool {
	return db.classifier.IsUniqueViolation(err)
}
