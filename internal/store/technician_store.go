package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vbonduro/agenda/internal/db"
	"github.com/vbonduro/agenda/internal/domain"
)

type TechnicianStore struct {
	db *db.DB
}

func NewTechnicianStore(d *db.DB) *TechnicianStore {
	return &TechnicianStore{db: d}
}

func (s *TechnicianStore) Create(ctx context.Context, name string) (*domain.Technician, error) {
	t := &domain.Technician{Name: name}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO tecnicos (nome) VALUES (?) RETURNING id
	`, name).Scan(&t.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create technician: %w", err)
	}
	return t, nil
}

func (s *TechnicianStore) GetByID(ctx context.Context, id int64) (*domain.Technician, error) {
	t := &domain.Technician{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, nome FROM tecnicos WHERE id = ?
	`, id).Scan(&t.ID, &t.Name)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get technician: %w", err)
	}
	return t, nil
}

func (s *TechnicianStore) List(ctx context.Context) ([]*domain.Technician, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, nome FROM tecnicos ORDER BY nome ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}
	defer closeRows(rows)

	var technicians []*domain.Technician
	for rows.Next() {
		t := &domain.Technician{}
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan technician: %w", err)
		}
		technicians = append(technicians, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating technicians: %w", err)
	}
	return technicians, nil
}
