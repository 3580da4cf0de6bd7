package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(id, clientID int64, client, location, status string) AppointmentRow {
	return AppointmentRow{
		Appointment: Appointment{
			ID:           id,
			ClientID:     clientID,
			LocationID:   id * 10,
			TechnicianID: 3,
			Date:         NewDate(2026, time.March, int(id)),
			Status:       status,
			Notes:        "trocar filtro",
		},
		ClientName:     client,
		LocationName:   location,
		TechnicianName: "Carlos",
	}
}

func TestStatusColor(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{StatusPending, "#f1c40f"},
		{StatusConfirmed, "#2ecc71"},
		{StatusCancelled, "#e74c3c"},
		{StatusRescheduled, "#e67e22"},
		{"", DefaultColor},
		{"confirmado", DefaultColor},
		{"CANCELADO", DefaultColor},
		{"Pendente", DefaultColor},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusColor(tt.status))
		})
	}
}

func TestEventTitle(t *testing.T) {
	assert.Equal(t, "Acme - Matriz", EventTitle("Acme", "Matriz"))
	assert.Equal(t, FallbackTitle, EventTitle("Acme", ""))
	assert.Equal(t, FallbackTitle, EventTitle("", "Matriz"))
	assert.Equal(t, FallbackTitle, EventTitle("", ""))
}

func TestNewEvent(t *testing.T) {
	ev := NewEvent(row(7, 2, "Acme", "Matriz", StatusConfirmed))

	assert.EqualValues(t, 7, ev.ID)
	assert.Equal(t, "Acme - Matriz", ev.Title)
	assert.Equal(t, "2026-03-07", ev.Start.String())
	assert.Equal(t, "#2ecc71", ev.BackgroundColor)
	assert.Equal(t, ev.BackgroundColor, ev.BorderColor)
	require.NotNil(t, ev.ExtendedProps)
	assert.Equal(t, EventProps{
		Status:         StatusConfirmed,
		Notes:          "trocar filtro",
		ClientName:     "Acme",
		LocationName:   "Matriz",
		TechnicianName: "Carlos",
		ClientID:       2,
		LocationID:     70,
		TechnicianID:   3,
	}, *ev.ExtendedProps)
}

func TestEventJSONShape(t *testing.T) {
	b, err := json.Marshal(NewEvent(row(1, 2, "Acme", "Matriz", "")))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.EqualValues(t, 1, got["id"])
	assert.Equal(t, "2026-03-01", got["start"])
	assert.Equal(t, DefaultColor, got["backgroundColor"])

	props := got["extendedProps"].(map[string]any)
	for _, key := range []string{"status", "observacoes", "cliente", "unidade", "tecnico", "cliente_id", "unidade_id", "tecnico_id"} {
		assert.Contains(t, props, key)
	}
}

func TestUnavailableEventJSONShape(t *testing.T) {
	b, err := json.Marshal(UnavailableEvent(NewEvent(row(4, 9, "Other", "Site", StatusPending))))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"title": "Data indisponível",
		"start": "2026-03-04",
		"backgroundColor": "#95a5a6",
		"borderColor": "#95a5a6"
	}`, string(b))
}

func TestFilterForClient(t *testing.T) {
	events := NewEvents([]AppointmentRow{
		row(1, 1, "Acme", "Matriz", StatusConfirmed),
		row(2, 2, "Globex", "Filial", StatusCancelled),
		row(3, 1, "Acme", "Filial", StatusPending),
	})

	got := FilterForClient(events, 1)

	require.Len(t, got, 3)
	assert.Equal(t, events[0], got[0])
	assert.Equal(t, events[2], got[2])

	redacted := got[1]
	assert.Zero(t, redacted.ID)
	assert.Nil(t, redacted.ExtendedProps)
	assert.Equal(t, UnavailableTitle, redacted.Title)
	assert.Equal(t, UnavailableColor, redacted.BackgroundColor)
	assert.Equal(t, events[1].Start, redacted.Start)
}

func TestFilterForClientNeverLeaksOtherClients(t *testing.T) {
	var rows []AppointmentRow
	for i := int64(1); i <= 12; i++ {
		rows = append(rows, row(i, i%3+1, "C", "L", StatusConfirmed))
	}
	for _, e := range FilterForClient(NewEvents(rows), 2) {
		if e.ExtendedProps != nil {
			assert.EqualValues(t, 2, e.ExtendedProps.ClientID)
			continue
		}
		assert.Equal(t, UnavailableTitle, e.Title)
		assert.Zero(t, e.ID)
	}
}

func TestVisibleTo(t *testing.T) {
	events := NewEvents([]AppointmentRow{
		row(1, 1, "Acme", "Matriz", StatusConfirmed),
		row(2, 2, "Globex", "Filial", StatusCancelled),
	})

	admin := Viewer{UserID: 1, Role: RoleAdmin}
	assert.Equal(t, events, VisibleTo(events, admin))

	clientID := int64(2)
	client := Viewer{UserID: 2, Role: RoleClient, ClientID: &clientID}
	got := VisibleTo(events, client)
	assert.Nil(t, got[0].ExtendedProps)
	assert.Equal(t, events[1], got[1])

	orphan := Viewer{UserID: 3, Role: RoleClient}
	for _, e := range VisibleTo(events, orphan) {
		assert.Nil(t, e.ExtendedProps)
	}
}

func TestViewerOwnsClient(t *testing.T) {
	id := int64(5)
	assert.True(t, Viewer{Role: RoleClient, ClientID: &id}.OwnsClient(5))
	assert.False(t, Viewer{Role: RoleClient, ClientID: &id}.OwnsClient(6))
	assert.False(t, Viewer{Role: RoleAdmin, ClientID: &id}.OwnsClient(5))
	assert.False(t, Viewer{Role: RoleClient}.OwnsClient(5))
}
