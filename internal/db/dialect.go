package db

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect isolates everything that differs between the embedded SQLite store
// and an external PostgreSQL database. Exactly one is chosen by Open.
type Dialect interface {
	Name() string
	// Rebind rewrites '?' placeholders into the dialect's bind syntax.
	Rebind(query string) string
	IsUniqueViolation(err error) bool
	IsForeignKeyViolation(err error) bool

	migrationsDir() string
	migrationDriver(conn *sql.DB) (database.Driver, error)
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return "sqlite" }

func (sqliteDialect) Rebind(query string) string { return query }

func (sqliteDialect) IsUniqueViolation(err error) bool {
	return sqliteConstraint(err, int(sqlite3.SQLITE_CONSTRAINT_UNIQUE), "UNIQUE constraint failed")
}

func (sqliteDialect) IsForeignKeyViolation(err error) bool {
	return sqliteConstraint(err, int(sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY), "FOREIGN KEY constraint failed")
}

func (sqliteDialect) migrationsDir() string { return "migrations/sqlite" }

func (sqliteDialect) migrationDriver(conn *sql.DB) (database.Driver, error) {
	return migratesqlite.WithInstance(conn, &migratesqlite.Config{})
}

// sqliteConstraint matches on the extended result code, falling back to the
// message when the driver only reports the primary SQLITE_CONSTRAINT code.
func sqliteConstraint(err error, extended int, msg string) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	if se.Code() == extended {
		return true
	}
	return strings.Contains(se.Error(), msg)
}

type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }

func (postgresDialect) Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (postgresDialect) IsUniqueViolation(err error) bool {
	return pgCode(err) == "23505"
}

func (postgresDialect) IsForeignKeyViolation(err error) bool {
	return pgCode(err) == "23503"
}

func (postgresDialect) migrationsDir() string { return "migrations/postgres" }

func (postgresDialect) migrationDriver(conn *sql.DB) (database.Driver, error) {
	return migratepgx.WithInstance(conn, &migratepgx.Config{})
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
