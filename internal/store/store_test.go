package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vbonduro/agenda/internal/db"
	"github.com/vbonduro/agenda/internal/domain"
)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// fixture seeds one client with one location and one technician.
type fixture struct {
	client     *domain.Client
	location   *domain.Location
	technician *domain.Technician
}

func seed(t *testing.T, d *db.DB, clientName, locationName, technicianName string) fixture {
	t.Helper()
	ctx := context.Background()

	c, err := NewClientStore(d).Create(ctx, clientName)
	require.NoError(t, err)
	l, err := NewLocationStore(d).Create(ctx, locationName, c.ID)
	require.NoError(t, err)
	tech, err := NewTechnicianStore(d).Create(ctx, technicianName)
	require.NoError(t, err)

	return fixture{client: c, location: l, technician: tech}
}

func mustDate(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}
