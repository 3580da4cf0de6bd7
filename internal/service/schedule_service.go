package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vbonduro/agenda/internal/domain"
)

// appointmentRepository is the subset of store.AppointmentStore that ScheduleService requires.
type appointmentRepository interface {
	Create(ctx context.Context, f domain.AppointmentFields) (*domain.Appointment, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context, technicianID *int64) ([]domain.AppointmentRow, error)
	Update(ctx context.Context, id int64, f domain.AppointmentFields) error
	Delete(ctx context.Context, id int64) error
	HasConflict(ctx context.Context, technicianID int64, date domain.Date) (bool, error)
	VisitSummary(ctx context.Context) ([]domain.VisitSummary, error)
}

// locationLookup is the subset of store.LocationStore that ScheduleService requires.
type locationLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
}

type ScheduleService struct {
	appointments appointmentRepository
	locations    locationLookup
	logger       *slog.Logger
}

func NewScheduleService(appointments appointmentRepository, locations locationLookup, logger *slog.Logger) *ScheduleService {
	return &ScheduleService{
		appointments: appointments,
		locations:    locations,
		logger:       logger,
	}
}

// ListEvents returns the calendar feed as seen by viewer, optionally limited
// to one technician. Other clients' appointments are reduced to placeholders
// for client viewers.
func (s *ScheduleService) ListEvents(ctx context.Context, viewer domain.Viewer, technicianID *int64) ([]domain.Event, error) {
	rows, err := s.appointments.List(ctx, technicianID)
	if err != nil {
		return nil, err
	}
	return domain.VisibleTo(domain.NewEvents(rows), viewer), nil
}

// CreateAppointment books a visit. It never checks for conflicts. Client
// viewers book for their own client only, always as pending confirmation, and
// only at one of their own locations.
func (s *ScheduleService) CreateAppointment(ctx context.Context, viewer domain.Viewer, f domain.AppointmentFields) (*domain.Appointment, error) {
	if !viewer.IsAdmin() {
		if viewer.ClientID == nil {
			return nil, domain.ErrForbidden
		}
		f.ClientID = *viewer.ClientID
		f.Status = domain.StatusPending

		loc, err := s.locations.GetByID(ctx, f.LocationID)
		if err != nil {
			return nil, err
		}
		if loc == nil || loc.ClientID != f.ClientID {
			return nil, domain.ErrForbidden
		}
	}

	a, err := s.appointments.Create(ctx, f)
	if err != nil {
		return nil, err
	}
	s.logger.Info("appointment created",
		"appointment_id", a.ID,
		"client_id", a.ClientID,
		"technician_id", a.TechnicianID,
		"date", a.Date.String(),
		"by_user", viewer.UserID,
	)
	return a, nil
}

// UpdateAppointment overwrites everything but the date.
func (s *ScheduleService) UpdateAppointment(ctx context.Context, id int64, f domain.AppointmentFields) error {
	if err := s.appointments.Update(ctx, id, f); err != nil {
		return err
	}
	s.logger.Info("appointment updated", "appointment_id", id, "status", f.Status)
	return nil
}

func (s *ScheduleService) DeleteAppointment(ctx context.Context, id int64) error {
	if err := s.appointments.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("appointment deleted", "appointment_id", id)
	return nil
}

// DuplicateAppointment copies appointment id onto date. It returns
// domain.ErrNotFound, inserting nothing, when id does not exist.
func (s *ScheduleService) DuplicateAppointment(ctx context.Context, id int64, date domain.Date) (*domain.Appointment, error) {
	src, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("appointment %d: %w", id, domain.ErrNotFound)
	}

	dup, err := s.appointments.Create(ctx, domain.AppointmentFields{
		ClientID:     src.ClientID,
		LocationID:   src.LocationID,
		TechnicianID: src.TechnicianID,
		Date:         date,
		Status:       src.Status,
		Notes:        src.Notes,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("appointment duplicated", "source_id", id, "appointment_id", dup.ID, "date", date.String())
	return dup, nil
}

// CheckConflict reports whether technicianID is already booked on date. The
// booking path does not call it.
func (s *ScheduleService) CheckConflict(ctx context.Context, technicianID int64, date domain.Date) (bool, error) {
	return s.appointments.HasConflict(ctx, technicianID, date)
}

func (s *ScheduleService) VisitSummary(ctx context.Context) ([]domain.VisitSummary, error) {
	return s.appointments.VisitSummary(ctx)
}
