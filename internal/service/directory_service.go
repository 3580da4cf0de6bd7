package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vbonduro/agenda/internal/domain"
)

// clientRepository is the subset of store.ClientStore that DirectoryService requires.
type clientRepository interface {
	Create(ctx context.Context, name string) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	Update(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
}

// locationRepository is the subset of store.LocationStore that DirectoryService requires.
type locationRepository interface {
	Create(ctx context.Context, name string, clientID int64) (*domain.Location, error)
	List(ctx context.Context) ([]*domain.Location, error)
	ListByClient(ctx context.Context, clientID int64) ([]*domain.Location, error)
	Update(ctx context.Context, id int64, name string, clientID int64) error
	Delete(ctx context.Context, id int64) error
}

// userRepository is the subset of store.UserStore that DirectoryService requires.
type userRepository interface {
	Create(ctx context.Context, name, accessCode string, role domain.Role, clientID *int64) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByAccessCode(ctx context.Context, code string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id int64, name, accessCode string, role domain.Role, clientID *int64) error
	Delete(ctx context.Context, id int64) error
}

// technicianRepository is the subset of store.TechnicianStore that DirectoryService requires.
type technicianRepository interface {
	Create(ctx context.Context, name string) (*domain.Technician, error)
	List(ctx context.Context) ([]*domain.Technician, error)
}

// DirectoryService owns the reference data (clients, locations, users,
// technicians) and access-code authentication.
type DirectoryService struct {
	clients     clientRepository
	locations   locationRepository
	users       userRepository
	technicians technicianRepository
	logger      *slog.Logger
}

func NewDirectoryService(
	clients clientRepository,
	locations locationRepository,
	users userRepository,
	technicians technicianRepository,
	logger *slog.Logger,
) *DirectoryService {
	return &DirectoryService{
		clients:     clients,
		locations:   locations,
		users:       users,
		technicians: technicians,
		logger:      logger,
	}
}

// Authenticate resolves an access code to its user. Unknown codes yield
// domain.ErrInvalidAccessCode.
func (s *DirectoryService) Authenticate(ctx context.Context, code string) (*domain.User, error) {
	if code == "" {
		return nil, domain.ErrInvalidAccessCode
	}
	u, err := s.users.GetByAccessCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	if u == nil {
		return nil, domain.ErrInvalidAccessCode
	}
	return u, nil
}

// CurrentUser re-reads the user behind a live session. It returns nil, nil
// when the user was deleted or its access code no longer matches code.
func (s *DirectoryService) CurrentUser(ctx context.Context, id int64, code string) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	if u == nil || u.AccessCode != code {
		return nil, nil
	}
	return u, nil
}

func (s *DirectoryService) CreateClient(ctx context.Context, name string) (*domain.Client, error) {
	c, err := s.clients.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	s.logger.Info("client created", "client_id", c.ID)
	return c, nil
}

func (s *DirectoryService) ListClients(ctx context.Context) ([]*domain.Client, error) {
	return s.clients.List(ctx)
}

func (s *DirectoryService) UpdateClient(ctx context.Context, id int64, name string) error {
	if err := s.clients.Update(ctx, id, name); err != nil {
		return err
	}
	s.logger.Info("client updated", "client_id", id)
	return nil
}

func (s *DirectoryService) DeleteClient(ctx context.Context, id int64) error {
	if err := s.clients.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("client deleted", "client_id", id)
	return nil
}

func (s *DirectoryService) CreateLocation(ctx context.Context, name string, clientID int64) (*domain.Location, error) {
	l, err := s.locations.Create(ctx, name, clientID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("location created", "location_id", l.ID, "client_id", clientID)
	return l, nil
}

func (s *DirectoryService) ListLocations(ctx context.Context) ([]*domain.Location, error) {
	return s.locations.List(ctx)
}

// ListClientLocations returns the locations of clientID. Client viewers may
// only list their own client's locations.
func (s *DirectoryService) ListClientLocations(ctx context.Context, viewer domain.Viewer, clientID int64) ([]*domain.Location, error) {
	if !viewer.IsAdmin() && !viewer.OwnsClient(clientID) {
		return nil, domain.ErrForbidden
	}
	return s.locations.ListByClient(ctx, clientID)
}

func (s *DirectoryService) UpdateLocation(ctx context.Context, id int64, name string, clientID int64) error {
	if err := s.locations.Update(ctx, id, name, clientID); err != nil {
		return err
	}
	s.logger.Info("location updated", "location_id", id, "client_id", clientID)
	return nil
}

func (s *DirectoryService) DeleteLocation(ctx context.Context, id int64) error {
	if err := s.locations.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("location deleted", "location_id", id)
	return nil
}

func (s *DirectoryService) CreateUser(ctx context.Context, name, code string, role domain.Role, clientID *int64) (*domain.User, error) {
	u, err := s.users.Create(ctx, name, code, role, clientID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user created", "user_id", u.ID, "role", role)
	return u, nil
}

func (s *DirectoryService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *DirectoryService) UpdateUser(ctx context.Context, id int64, name, code string, role domain.Role, clientID *int64) error {
	if err := s.users.Update(ctx, id, name, code, role, clientID); err != nil {
		return err
	}
	s.logger.Info("user updated", "user_id", id, "role", role)
	return nil
}

func (s *DirectoryService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", "user_id", id)
	return nil
}

func (s *DirectoryService) CreateTechnician(ctx context.Context, name string) (*domain.Technician, error) {
	t, err := s.technicians.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	s.logger.Info("technician created", "technician_id", t.ID)
	return t, nil
}

func (s *DirectoryService) ListTechnicians(ctx context.Context) ([]*domain.Technician, error) {
	return s.technicians.List(ctx)
}

// Dashboard bundles the reference data rendered on the admin page.
type Dashboard struct {
	Clients     []*domain.Client
	Locations   []*domain.Location
	Technicians []*domain.Technician
	Users       []*domain.User
}

func (s *DirectoryService) Dashboard(ctx context.Context) (*Dashboard, error) {
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, err
	}
	locations, err := s.locations.List(ctx)
	if err != nil {
		return nil, err
	}
	technicians, err := s.technicians.List(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Clients: clients, Locations: locations, Technicians: technicians, Users: users}, nil
}
