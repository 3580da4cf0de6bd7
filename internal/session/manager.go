package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const CookieName = "agenda_session"

// Manager binds a Store to the session cookie.
type Manager struct {
	store  Store
	ttl    time.Duration
	secure bool
}

func NewManager(store Store, ttl time.Duration, secure bool) *Manager {
	return &Manager{store: store, ttl: ttl, secure: secure}
}

// Load returns the session named by the request cookie together with its id.
// A request without a live session gets an empty session and id "".
func (m *Manager) Load(r *http.Request) (*Session, string, error) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return &Session{}, "", nil
	}
	s, err := m.store.Get(r.Context(), c.Value)
	if err != nil {
		return nil, "", err
	}
	if s == nil {
		return &Session{}, "", nil
	}
	return s, c.Value, nil
}

// Save persists s under id, allocating a new id and cookie when id is "". It
// returns the id in use.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, id string, s *Session) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if err := m.store.Save(ctx, id, s, m.ttl); err != nil {
		return "", err
	}
	m.setCookie(w, id)
	return id, nil
}

// Renew moves s to a fresh id, discarding oldID. Called on login and logout.
func (m *Manager) Renew(ctx context.Context, w http.ResponseWriter, oldID string, s *Session) (string, error) {
	if oldID != "" {
		if err := m.store.Delete(ctx, oldID); err != nil {
			return "", err
		}
	}
	return m.Save(ctx, w, "", s)
}

func (m *Manager) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
