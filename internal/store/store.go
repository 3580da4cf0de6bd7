package store

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/vbonduro/agenda/internal/db"
	"github.com/vbonduro/agenda/internal/domain"
)

// writeErr translates constraint violations raised by inserts and updates.
func writeErr(d *db.DB, err error) error {
	switch {
	case d.IsUniqueViolation(err):
		return errors.Join(domain.ErrAlreadyExists, err)
	case d.IsForeignKeyViolation(err):
		return errors.Join(domain.ErrInvalidReference, err)
	}
	return err
}

// deleteErr translates a foreign key violation raised by a delete.
func deleteErr(d *db.DB, err error) error {
	if d.IsForeignKeyViolation(err) {
		return errors.Join(domain.ErrInUse, err)
	}
	return err
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Error("failed to close rows", "error", err)
	}
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func idPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
