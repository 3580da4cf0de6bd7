package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vbonduro/agenda/internal/db"
	"github.com/vbonduro/agenda/internal/domain"
)

type AppointmentStore struct {
	db *db.DB
}

func NewAppointmentStore(d *db.DB) *AppointmentStore {
	return &AppointmentStore{db: d}
}

// Create inserts one appointment. It performs no conflict detection; ids that
// reference missing rows yield domain.ErrInvalidReference.
func (s *AppointmentStore) Create(ctx context.Context, f domain.AppointmentFields) (*domain.Appointment, error) {
	a := &domain.Appointment{
		ClientID:     f.ClientID,
		LocationID:   f.LocationID,
		TechnicianID: f.TechnicianID,
		Date:         f.Date,
		Status:       f.Status,
		Notes:        f.Notes,
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO agendamentos (cliente_id, unidade_id, tecnico_id, data, status, observacoes)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id
	`, f.ClientID, f.LocationID, f.TechnicianID, f.Date, f.Status, f.Notes).Scan(&a.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", writeErr(s.db, err))
	}
	return a, nil
}

// appointmentColumns scans an agendamentos row leniently. Databases that were
// not migrated by this service may hold NULL references, NULL text columns or
// dates that are not YYYY-MM-DD.
type appointmentColumns struct {
	clientID, locationID, technicianID sql.NullInt64
	status, notes                      sql.NullString
	date                               any
}

func (c *appointmentColumns) dest(a *domain.Appointment) []any {
	return []any{&a.ID, &c.clientID, &c.locationID, &c.technicianID, &c.date, &c.status, &c.notes}
}

// fill copies the scanned columns into a. NULLs become zero values. The
// returned error only reports an unparsable date; every other column is
// filled regardless.
func (c *appointmentColumns) fill(a *domain.Appointment) error {
	a.ClientID = c.clientID.Int64
	a.LocationID = c.locationID.Int64
	a.TechnicianID = c.technicianID.Int64
	a.Status = c.status.String
	a.Notes = c.notes.String
	if c.date == nil {
		return errors.New("missing date")
	}
	return a.Date.Scan(c.date)
}

// GetByID returns nil, nil for unknown ids. A row whose date cannot be parsed
// is returned with a zero Date.
func (s *AppointmentStore) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	a := &domain.Appointment{}
	var cols appointmentColumns
	err := s.db.QueryRowContext(ctx, `
		SELECT id, cliente_id, unidade_id, tecnico_id, data, status, observacoes
		FROM agendamentos WHERE id = ?
	`, id).Scan(cols.dest(a)...)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	if err := cols.fill(a); err != nil {
		slog.Warn("appointment has an invalid date", "id", a.ID, "error", err)
		a.Date = domain.Date{}
	}
	return a, nil
}

// List returns appointments joined with client, location and technician names,
// ordered by date. A non-nil technicianID restricts the result to that
// technician. Rows whose date cannot be parsed are logged and skipped.
func (s *AppointmentStore) List(ctx context.Context, technicianID *int64) ([]domain.AppointmentRow, error) {
	query := `
		SELECT a.id, a.cliente_id, a.unidade_id, a.tecnico_id, a.data, a.status, a.observacoes,
		       c.nome, u.nome, t.nome
		FROM agendamentos a
		LEFT JOIN clientes c ON a.cliente_id = c.id
		LEFT JOIN unidades u ON a.unidade_id = u.id
		LEFT JOIN tecnicos t ON a.tecnico_id = t.id`
	var args []any
	if technicianID != nil {
		query += ` WHERE a.tecnico_id = ?`
		args = append(args, *technicianID)
	}
	query += ` ORDER BY a.data ASC, a.id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer closeRows(rows)

	var out []domain.AppointmentRow
	for rows.Next() {
		var (
			r                                domain.AppointmentRow
			cols                             appointmentColumns
			client, location, technicianName sql.NullString
		)
		dest := append(cols.dest(&r.Appointment), &client, &location, &technicianName)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		if err := cols.fill(&r.Appointment); err != nil {
			slog.Warn("skipping appointment with an invalid date", "id", r.ID, "error", err)
			continue
		}
		r.ClientName = client.String
		r.LocationName = location.String
		r.TechnicianName = technicianName.String
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating appointments: %w", err)
	}
	return out, nil
}

// Update overwrites every mutable column except the date. Unknown ids are not
// an error.
func (s *AppointmentStore) Update(ctx context.Context, id int64, f domain.AppointmentFields) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE agendamentos
		SET cliente_id = ?, unidade_id = ?, tecnico_id = ?, status = ?, observacoes = ?
		WHERE id = ?
	`, f.ClientID, f.LocationID, f.TechnicianID, f.Status, f.Notes, id)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", writeErr(s.db, err))
	}
	return nil
}

func (s *AppointmentStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM agendamentos WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}

// HasConflict reports whether technicianID already has an appointment on date.
func (s *AppointmentStore) HasConflict(ctx context.Context, technicianID int64, date domain.Date) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM agendamentos WHERE tecnico_id = ? AND data = ?
	`, technicianID, date).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check conflict: %w", err)
	}
	return n > 0, nil
}

// VisitSummary counts appointments per technician, by technician name.
func (s *AppointmentStore) VisitSummary(ctx context.Context) ([]domain.VisitSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.nome, COUNT(a.id)
		FROM agendamentos a
		JOIN tecnicos t ON a.tecnico_id = t.id
		GROUP BY t.nome
		ORDER BY t.nome ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize visits: %w", err)
	}
	defer closeRows(rows)

	var out []domain.VisitSummary
	for rows.Next() {
		var v domain.VisitSummary
		if err := rows.Scan(&v.Technician, &v.TotalVisits); err != nil {
			return nil, fmt.Errorf("failed to scan visit summary: %w", err)
		}
		out = append(out, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating visit summary: %w", err)
	}
	return out, nil
}
