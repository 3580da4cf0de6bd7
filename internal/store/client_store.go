package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vbonduro/agenda/internal/db"
	"github.com/vbonduro/agenda/internal/domain"
)

type ClientStore struct {
	db *db.DB
}

func NewClientStore(d *db.DB) *ClientStore {
	return &ClientStore{db: d}
}

func (s *ClientStore) Create(ctx context.Context, name string) (*domain.Client, error) {
	c := &domain.Client{Name: name}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO clientes (nome) VALUES (?) RETURNING id
	`, name).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", writeErr(s.db, err))
	}
	return c, nil
}

func (s *ClientStore) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	c := &domain.Client{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, nome FROM clientes WHERE id = ?
	`, id).Scan(&c.ID, &c.Name)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return c, nil
}

func (s *ClientStore) List(ctx context.Context) ([]*domain.Client, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, nome FROM clientes ORDER BY nome ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer closeRows(rows)

	var clients []*domain.Client
	for rows.Next() {
		c := &domain.Client{}
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clients: %w", err)
	}
	return clients, nil
}

// Update renames a client. Unknown ids are not an error.
func (s *ClientStore) Update(ctx context.Context, id int64, name string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE clientes SET nome = ? WHERE id = ?
	`, name, id)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", writeErr(s.db, err))
	}
	return nil
}

// Delete removes a client. Unknown ids are not an error; clients still
// referenced by locations, users or appointments yield domain.ErrInUse.
func (s *ClientStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM clientes WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", deleteErr(s.db, err))
	}
	return nil
}
