package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vbonduro/agenda/internal/db"
	"github.com/vbonduro/agenda/internal/domain"
)

type UserStore struct {
	db *db.DB
}

func NewUserStore(d *db.DB) *UserStore {
	return &UserStore{db: d}
}

const userColumns = `u.id, u.nome, u.codigo_acesso, u.tipo, u.cliente_id, c.nome`

// Create inserts a user. A repeated access code yields domain.ErrAlreadyExists.
func (s *UserStore) Create(ctx context.Context, name, accessCode string, role domain.Role, clientID *int64) (*domain.User, error) {
	u := &domain.User{Name: name, AccessCode: accessCode, Role: role, ClientID: clientID}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO usuarios (nome, codigo_acesso, tipo, cliente_id) VALUES (?, ?, ?, ?) RETURNING id
	`, name, accessCode, string(role), nullableID(clientID)).Scan(&u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", writeErr(s.db, err))
	}
	return u, nil
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.queryOne(ctx, `
		SELECT `+userColumns+`
		FROM usuarios u
		LEFT JOIN clientes c ON u.cliente_id = c.id
		WHERE u.id = ?
	`, id)
}

// GetByAccessCode returns the single user holding code, or nil.
func (s *UserStore) GetByAccessCode(ctx context.Context, code string) (*domain.User, error) {
	return s.queryOne(ctx, `
		SELECT `+userColumns+`
		FROM usuarios u
		LEFT JOIN clientes c ON u.cliente_id = c.id
		WHERE u.codigo_acesso = ?
	`, code)
}

func (s *UserStore) queryOne(ctx context.Context, query string, args ...any) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// List returns every user with the name of its client, if any.
func (s *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM usuarios u
		LEFT JOIN clientes c ON u.cliente_id = c.id
		ORDER BY u.nome ASC, u.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer closeRows(rows)

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

func (s *UserStore) Update(ctx context.Context, id int64, name, accessCode string, role domain.Role, clientID *int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE usuarios SET nome = ?, codigo_acesso = ?, tipo = ?, cliente_id = ? WHERE id = ?
	`, name, accessCode, string(role), nullableID(clientID), id)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", writeErr(s.db, err))
	}
	return nil
}

func (s *UserStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM usuarios WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", deleteErr(s.db, err))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(r rowScanner) (*domain.User, error) {
	u := &domain.User{}
	var (
		role       string
		clientID   sql.NullInt64
		clientName sql.NullString
	)
	if err := r.Scan(&u.ID, &u.Name, &u.AccessCode, &role, &clientID, &clientName); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	u.ClientID = idPtr(clientID)
	u.ClientName = clientName.String
	return u, nil
}
