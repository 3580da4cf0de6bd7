package domain

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "cliente"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleClient
}

type Client struct {
	ID   int64  `json:"id"`
	Name string `json:"nome"`
}

type Location struct {
	ID         int64  `json:"id"`
	Name       string `json:"nome"`
	ClientID   int64  `json:"cliente_id"`
	ClientName string `json:"cliente,omitempty"`
}

// User is an account identified solely by its access code. ClientID is nil
// for administrators.
type User struct {
	ID         int64  `json:"id"`
	Name       string `json:"nome"`
	AccessCode string `json:"codigo"`
	Role       Role   `json:"tipo"`
	ClientID   *int64 `json:"cliente_id"`
	ClientName string `json:"cliente,omitempty"`
}

type Technician struct {
	ID   int64  `json:"id"`
	Name string `json:"nome"`
}

type Appointment struct {
	ID           int64
	ClientID     int64
	LocationID   int64
	TechnicianID int64
	Date         Date
	Status       string
	Notes        string
}

// AppointmentFields are the mutable columns of an appointment. Date is ignored
// by updates.
type AppointmentFields struct {
	ClientID     int64
	LocationID   int64
	TechnicianID int64
	Date         Date
	Status       string
	Notes        string
}

// AppointmentRow is an appointment joined with the display names of the rows
// it references. Names are empty when the referenced row is missing.
type AppointmentRow struct {
	Appointment
	ClientName     string
	LocationName   string
	TechnicianName string
}

type VisitSummary struct {
	Technician  string `json:"tecnico"`
	TotalVisits int    `json:"total_visitas"`
}

// Viewer is the identity of the caller, resolved from the session for each
// request.
type Viewer struct {
	UserID   int64
	Name     string
	Role     Role
	ClientID *int64
}

func (v Viewer) IsAdmin() bool {
	return v.Role == RoleAdmin
}

func (v Viewer) IsClient() bool {
	return v.Role == RoleClient
}

// OwnsClient reports whether v is a client-role viewer bound to clientID.
func (v Viewer) OwnsClient(clientID int64) bool {
	return v.IsClient() && v.ClientID != nil && *v.ClientID == clientID
}
