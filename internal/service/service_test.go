package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vbonduro/agenda/internal/db"
	"github.com/vbonduro/agenda/internal/domain"
	"github.com/vbonduro/agenda/internal/store"
)

type testEnv struct {
	db        *db.DB
	directory *DirectoryService
	schedule  *ScheduleService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	locations := store.NewLocationStore(d)
	return &testEnv{
		db: d,
		directory: NewDirectoryService(
			store.NewClientStore(d),
			locations,
			store.NewUserStore(d),
			store.NewTechnicianStore(d),
			slog.Default(),
		),
		schedule: NewScheduleService(store.NewAppointmentStore(d), locations, slog.Default()),
	}
}

type seeded struct {
	acme, globex         *domain.Client
	acmeSite, globexSite *domain.Location
	ana, bruno           *domain.Technician
}

func (e *testEnv) seed(t *testing.T) seeded {
	t.Helper()
	ctx := context.Background()
	var s seeded
	var err error

	s.acme, err = e.directory.CreateClient(ctx, "Acme")
	require.NoError(t, err)
	s.globex, err = e.directory.CreateClient(ctx, "Globex")
	require.NoError(t, err)
	s.acmeSite, err = e.directory.CreateLocation(ctx, "Matriz", s.acme.ID)
	require.NoError(t, err)
	s.globexSite, err = e.directory.CreateLocation(ctx, "Filial", s.globex.ID)
	require.NoError(t, err)
	s.ana, err = e.directory.CreateTechnician(ctx, "Ana")
	require.NoError(t, err)
	s.bruno, err = e.directory.CreateTechnician(ctx, "Bruno")
	require.NoError(t, err)
	return s
}

func adminViewer() domain.Viewer {
	return domain.Viewer{UserID: 1, Name: "Root", Role: domain.RoleAdmin}
}

func clientViewer(clientID int64) domain.Viewer {
	return domain.Viewer{UserID: 2, Name: "Maria", Role: domain.RoleClient, ClientID: &clientID}
}

func date(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}
