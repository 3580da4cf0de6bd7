package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vbonduro/agenda/internal/db"
	"github.com/vbonduro/agenda/internal/domain"
)

type LocationStore struct {
	db *db.DB
}

func NewLocationStore(d *db.DB) *LocationStore {
	return &LocationStore{db: d}
}

func (s *LocationStore) Create(ctx context.Context, name string, clientID int64) (*domain.Location, error) {
	l := &domain.Location{Name: name, ClientID: clientID}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO unidades (nome, cliente_id) VALUES (?, ?) RETURNING id
	`, name, clientID).Scan(&l.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create location: %w", writeErr(s.db, err))
	}
	return l, nil
}

func (s *LocationStore) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	l := &domain.Location{}
	var clientName sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.nome, u.cliente_id, c.nome
		FROM unidades u
		LEFT JOIN clientes c ON u.cliente_id = c.id
		WHERE u.id = ?
	`, id).Scan(&l.ID, &l.Name, &l.ClientID, &clientName)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	l.ClientName = clientName.String
	return l, nil
}

// List returns every location with its owning client's name, grouped by
// client.
func (s *LocationStore) List(ctx context.Context) ([]*domain.Location, error) {
	return s.query(ctx, `
		SELECT u.id, u.nome, u.cliente_id, c.nome
		FROM unidades u
		LEFT JOIN clientes c ON u.cliente_id = c.id
		ORDER BY c.nome ASC, u.nome ASC, u.id ASC
	`)
}

func (s *LocationStore) ListByClient(ctx context.Context, clientID int64) ([]*domain.Location, error) {
	return s.query(ctx, `
		SELECT u.id, u.nome, u.cliente_id, c.nome
		FROM unidades u
		LEFT JOIN clientes c ON u.cliente_id = c.id
		WHERE u.cliente_id = ?
		ORDER BY u.nome ASC, u.id ASC
	`, clientID)
}

func (s *LocationStore) query(ctx context.Context, query string, args ...any) ([]*domain.Location, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer closeRows(rows)

	var locations []*domain.Location
	for rows.Next() {
		l := &domain.Location{}
		var clientName sql.NullString
		if err := rows.Scan(&l.ID, &l.Name, &l.ClientID, &clientName); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		l.ClientName = clientName.String
		locations = append(locations, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locations: %w", err)
	}
	return locations, nil
}

func (s *LocationStore) Update(ctx context.Context, id int64, name string, clientID int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE unidades SET nome = ?, cliente_id = ? WHERE id = ?
	`, name, clientID, id)
	if err != nil {
		return fmt.Errorf("failed to update location: %w", writeErr(s.db, err))
	}
	return nil
}

func (s *LocationStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM unidades WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", deleteErr(s.db, err))
	}
	return nil
}
