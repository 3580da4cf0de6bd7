package session

import (
	"context"
	"time"

	"github.com/vbonduro/agenda/internal/domain"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Session is the server-side state behind the session cookie. Anonymous
// sessions carry only flashes.
type Session struct {
	UserID   int64       `json:"usuario_id,omitempty"`
	Name     string      `json:"nome,omitempty"`
	Code     string      `json:"codigo,omitempty"`
	Role     domain.Role `json:"tipo,omitempty"`
	ClientID *int64      `json:"cliente_id,omitempty"`
	Flashes  []Flash     `json:"flashes,omitempty"`
}

// ForUser builds the session state recorded at login.
func ForUser(u *domain.User) *Session {
	return &Session{
		UserID:   u.ID,
		Name:     u.Name,
		Code:     u.AccessCode,
		Role:     u.Role,
		ClientID: u.ClientID,
	}
}

// Refresh copies the current identity of u into s and reports whether
// anything changed.
func (s *Session) Refresh(u *domain.User) bool {
	fresh := ForUser(u)
	changed := s.UserID != fresh.UserID || s.Name != fresh.Name || s.Code != fresh.Code ||
		s.Role != fresh.Role || !sameID(s.ClientID, fresh.ClientID)
	s.UserID, s.Name, s.Code, s.Role, s.ClientID = fresh.UserID, fresh.Name, fresh.Code, fresh.Role, fresh.ClientID
	return changed
}

// Revoke drops the identity, keeping pending flashes.
func (s *Session) Revoke() {
	*s = Session{Flashes: s.Flashes}
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *Session) Authenticated() bool {
	return s.UserID != 0
}

func (s *Session) Viewer() domain.Viewer {
	return domain.Viewer{
		UserID:   s.UserID,
		Name:     s.Name,
		Role:     s.Role,
		ClientID: s.ClientID,
	}
}

func (s *Session) AddFlash(category, message string) {
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
}

// PopFlashes returns and clears the pending flashes.
func (s *Session) PopFlashes() []Flash {
	f := s.Flashes
	s.Flashes = nil
	return f
}

// Store persists sessions by id. Get returns nil, nil for unknown or expired
// ids.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, id string, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
