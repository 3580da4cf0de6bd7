package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenForTestingAppliesMigrations(t *testing.T) {
	d, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })

	for _, table := range []string{"clientes", "unidades", "usuarios", "tecnicos", "agendamentos"} {
		var name string
		err := d.QueryRowContext(context.Background(),
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
	assert.Equal(t, "sqlite", d.Dialect().Name())
}

func TestOpenForTestingIsIsolated(t *testing.T) {
	ctx := context.Background()
	a, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	b, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	_, err = a.ExecContext(ctx, "INSERT INTO clientes (nome) VALUES (?)", "Acme")
	require.NoError(t, err)

	var n int
	require.NoError(t, b.QueryRowContext(ctx, "SELECT COUNT(*) FROM clientes").Scan(&n))
	assert.Zero(t, n)
}

func TestOpenFileIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agenda.db")

	first, err := Open(Options{Path: path})
	require.NoError(t, err)
	_, err = first.ExecContext(context.Background(), "INSERT INTO tecnicos (nome) VALUES (?)", "Ana")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(Options{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	var n int
	require.NoError(t, second.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM tecnicos").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSQLiteConstraintClassification(t *testing.T) {
	d, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	ctx := context.Background()

	_, err = d.ExecContext(ctx, "INSERT INTO usuarios (nome, codigo_acesso, tipo) VALUES (?, ?, ?)", "Root", "x1", "admin")
	require.NoError(t, err)

	_, err = d.ExecContext(ctx, "INSERT INTO usuarios (nome, codigo_acesso, tipo) VALUES (?, ?, ?)", "Other", "x1", "admin")
	require.Error(t, err)
	assert.True(t, d.IsUniqueViolation(err))
	assert.False(t, d.IsForeignKeyViolation(err))

	_, err = d.ExecContext(ctx, "INSERT INTO unidades (nome, cliente_id) VALUES (?, ?)", "Sede", 999)
	require.Error(t, err)
	assert.True(t, d.IsForeignKeyViolation(err))
	assert.False(t, d.IsUniqueViolation(err))
}

func TestPostgresRebind(t *testing.T) {
	got := postgresDialect{}.Rebind("UPDATE agendamentos SET status = ?, observacoes = ? WHERE id = ?")
	assert.Equal(t, "UPDATE agendamentos SET status = $1, observacoes = $2 WHERE id = $3", got)
	assert.Equal(t, "SELECT 1", postgresDialect{}.Rebind("SELECT 1"))
}

func TestSQLiteRebindIsIdentity(t *testing.T) {
	q := "SELECT * FROM clientes WHERE id = ?"
	assert.Equal(t, q, sqliteDialect{}.Rebind(q))
}

func TestClassificationIgnoresUnrelatedErrors(t *testing.T) {
	assert.False(t, sqliteDialect{}.IsUniqueViolation(assert.AnError))
	assert.False(t, postgresDialect{}.IsForeignKeyViolation(assert.AnError))
	assert.False(t, postgresDialect{}.IsUniqueViolation(nil))
}
