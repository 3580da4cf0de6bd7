package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

// DB wraps *sql.DB so that stores can write '?' placeholders once and run
// them against either dialect.
type DB struct {
	*sql.DB
	dialect Dialect
	dsn     string
}

type Options struct {
	// DatabaseURL selects PostgreSQL when non-empty.
	DatabaseURL string
	// Path is the SQLite file used when DatabaseURL is empty.
	Path string
	// AutoMigrate applies migrations to PostgreSQL as well. SQLite is always
	// migrated.
	AutoMigrate bool
}

func Open(opts Options) (*DB, error) {
	if opts.DatabaseURL != "" {
		return open("pgx", opts.DatabaseURL, postgresDialect{}, opts.AutoMigrate)
	}
	dsn := fmt.Sprintf("file:%s?%s", opts.Path, sqlitePragmas)
	return open("sqlite", dsn, sqliteDialect{}, true)
}

// OpenForTesting returns a migrated in-memory SQLite database private to the
// caller.
func OpenForTesting() (*DB, error) {
	dsn := fmt.Sprintf("file:test_%s?mode=memory&cache=shared&%s", uuid.NewString(), sqlitePragmas)
	return open("sqlite", dsn, sqliteDialect{}, true)
}

func open(driver, dsn string, dialect Dialect, migrateSchema bool) (*DB, error) {
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dialect.Name() == "sqlite" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	d := &DB{DB: conn, dialect: dialect, dsn: dsn}
	if !migrateSchema {
		return d, nil
	}

	if err := d.migrate(driver); err != nil {
		if cerr := conn.Close(); cerr != nil {
			return nil, fmt.Errorf("failed to run migrations: %w (also failed to close db: %v)", err, cerr)
		}
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return d, nil
}

// migrate applies the embedded migrations through a dedicated handle, since
// closing a migrate instance also closes its database.
func (d *DB) migrate(driver string) error {
	conn, err := sql.Open(driver, d.dsn)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}

	src, err := iofs.New(migrationsFS, d.dialect.migrationsDir())
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	target, err := d.dialect.migrationDriver(conn)
	if err != nil {
		_ = src.Close()
		_ = conn.Close()
		return fmt.Errorf("failed to prepare migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, d.dialect.Name(), target)
	if err != nil {
		_ = src.Close()
		_ = target.Close()
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (d *DB) Dialect() Dialect {
	return d.dialect
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.DB.ExecContext(ctx, d.dialect.Rebind(query), args...)
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.DB.QueryContext(ctx, d.dialect.Rebind(query), args...)
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return d.DB.QueryRowContext(ctx, d.dialect.Rebind(query), args...)
}

func (d *DB) IsUniqueViolation(err error) bool {
	return d.dialect.IsUniqueViolation(err)
}

func (d *DB) IsForeignKeyViolation(err error) bool {
	return d.dialect.IsForeignKeyViolation(err)
}
