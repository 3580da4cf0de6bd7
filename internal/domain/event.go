package domain

const (
	StatusPending     = "Pendente Conf."
	StatusConfirmed   = "Confirmado"
	StatusCancelled   = "Cancelado"
	StatusRescheduled = "Reagendado"
)

const (
	DefaultColor     = "#3498db"
	UnavailableColor = "#95a5a6"

	FallbackTitle    = "Agendamento"
	UnavailableTitle = "Data indisponível"
)

// statusColors is matched exactly; "confirmado" gets the default color.
var statusColors = map[string]string{
	StatusPending:     "#f1c40f",
	StatusConfirmed:   "#2ecc71",
	StatusCancelled:   "#e74c3c",
	StatusRescheduled: "#e67e22",
}

// Statuses lists the known vocabulary in display order.
var Statuses = []string{StatusPending, StatusConfirmed, StatusCancelled, StatusRescheduled}

func StatusColor(status string) string {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return DefaultColor
}

// Event is the calendar feed representation of an appointment. Placeholder
// events carry neither ID nor ExtendedProps.
type Event struct {
	ID              int64       `json:"id,omitempty"`
	Title           string      `json:"title"`
	Start           Date        `json:"start"`
	BackgroundColor string      `json:"backgroundColor"`
	BorderColor     string      `json:"borderColor"`
	ExtendedProps   *EventProps `json:"extendedProps,omitempty"`
}

type EventProps struct {
	Status         string `json:"status"`
	Notes          string `json:"observacoes"`
	ClientName     string `json:"cliente"`
	LocationName   string `json:"unidade"`
	TechnicianName string `json:"tecnico"`
	ClientID       int64  `json:"cliente_id"`
	LocationID     int64  `json:"unidade_id"`
	TechnicianID   int64  `json:"tecnico_id"`
}

func EventTitle(clientName, locationName string) string {
	if clientName != "" && locationName != "" {
		return clientName + " - " + locationName
	}
	return FallbackTitle
}

func NewEvent(r AppointmentRow) Event {
	color := StatusColor(r.Status)
	return Event{
		ID:              r.ID,
		Title:           EventTitle(r.ClientName, r.LocationName),
		Start:           r.Date,
		BackgroundColor: color,
		BorderColor:     color,
		ExtendedProps: &EventProps{
			Status:         r.Status,
			Notes:          r.Notes,
			ClientName:     r.ClientName,
			LocationName:   r.LocationName,
			TechnicianName: r.TechnicianName,
			ClientID:       r.ClientID,
			LocationID:     r.LocationID,
			TechnicianID:   r.TechnicianID,
		},
	}
}

func NewEvents(rows []AppointmentRow) []Event {
	events := make([]Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, NewEvent(r))
	}
	return events
}

// UnavailableEvent keeps only the day of e.
func UnavailableEvent(e Event) Event {
	return Event{
		Title:           UnavailableTitle,
		Start:           e.Start,
		BackgroundColor: UnavailableColor,
		BorderColor:     UnavailableColor,
	}
}

// FilterForClient passes through the events of clientID and replaces every
// other event with an UnavailableEvent. Order is preserved.
func FilterForClient(events []Event, clientID int64) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if e.ExtendedProps != nil && e.ExtendedProps.ClientID == clientID {
			out = append(out, e)
			continue
		}
		out = append(out, UnavailableEvent(e))
	}
	return out
}

// VisibleTo applies the visibility rules for v: administrators see every
// event; anyone else sees only their own client's events in full.
func VisibleTo(events []Event, v Viewer) []Event {
	if v.IsAdmin() {
		return events
	}
	if v.ClientID == nil {
		return FilterForClient(events, 0)
	}
	return FilterForClient(events, *v.ClientID)
}
