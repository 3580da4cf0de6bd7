package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/agenda/internal/domain"
)

func TestMemoryStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	clientID := int64(7)
	in := &Session{UserID: 1, Name: "Maria", Role: domain.RoleClient, ClientID: &clientID}
	require.NoError(t, store.Save(ctx, "abc", in, time.Hour))

	out, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "Maria", out.Name)
	require.NotNil(t, out.ClientID)
	assert.Equal(t, int64(7), *out.ClientID)

	// the store keeps its own copy
	in.Name = "changed"
	out, err = store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "Maria", out.Name)

	require.NoError(t, store.Delete(ctx, "abc"))
	out, err = store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, "a", &Session{UserID: 1}, time.Minute))
	require.NoError(t, store.Save(ctx, "b", &Session{UserID: 2}, time.Hour))

	now = now.Add(2 * time.Minute)

	out, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, out)

	store.Sweep()
	assert.Equal(t, 1, store.Len())

	out, err = store.Get(ctx, "b")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, int64(2), out.UserID)
}

func TestSession_Flashes(t *testing.T) {
	s := &Session{}
	s.AddFlash("success", "Cliente cadastrado com sucesso!")
	s.AddFlash("danger", "Código de acesso inválido!")

	got := s.PopFlashes()
	require.Len(t, got, 2)
	assert.Equal(t, "success", got[0].Category)
	assert.Empty(t, s.PopFlashes())
}

func TestSession_ForUserAndViewer(t *testing.T) {
	clientID := int64(3)
	s := ForUser(&domain.User{ID: 9, Name: "Cliente", AccessCode: "c1", Role: domain.RoleClient, ClientID: &clientID})

	assert.True(t, s.Authenticated())
	v := s.Viewer()
	assert.True(t, v.IsClient())
	assert.True(t, v.OwnsClient(3))
	assert.False(t, (&Session{}).Authenticated())
}

func TestSession_RefreshAndRevoke(t *testing.T) {
	acme, globex := int64(3), int64(4)
	u := &domain.User{ID: 9, Name: "Cliente", AccessCode: "c1", Role: domain.RoleClient, ClientID: &acme}
	s := ForUser(u)
	s.AddFlash("info", "ok")

	assert.False(t, s.Refresh(u))

	moved := *u
	moved.ClientID = &globex
	assert.True(t, s.Refresh(&moved))
	assert.True(t, s.Viewer().OwnsClient(4))
	assert.False(t, s.Viewer().OwnsClient(3))

	s.Revoke()
	assert.False(t, s.Authenticated())
	assert.Nil(t, s.ClientID)
	require.Len(t, s.Flashes, 1)
}

func TestManager_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(), time.Hour, false)

	// no cookie: fresh anonymous session
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	s, id, err := m.Load(r)
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.False(t, s.Authenticated())

	w := httptest.NewRecorder()
	id, err = m.Save(ctx, w, "", &Session{UserID: 5, Role: domain.RoleAdmin})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, id, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookies[0])
	s, loadedID, err := m.Load(r)
	require.NoError(t, err)
	assert.Equal(t, id, loadedID)
	assert.Equal(t, int64(5), s.UserID)
}

func TestManager_UnknownCookieIsAnonymous(t *testing.T) {
	m := NewManager(NewMemoryStore(), time.Hour, false)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "stale"})

	s, id, err := m.Load(r)
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.False(t, s.Authenticated())
}

func TestManager_RenewIssuesNewID(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := NewManager(store, time.Hour, true)

	oldID, err := m.Save(ctx, httptest.NewRecorder(), "", &Session{})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	newID, err := m.Renew(ctx, w, oldID, &Session{UserID: 1})
	require.NoError(t, err)
	assert.NotEqual(t, oldID, newID)

	old, err := store.Get(ctx, oldID)
	require.NoError(t, err)
	assert.Nil(t, old)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := NewRedisClient(ctx, addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client)
	require.NoError(t, store.Save(ctx, "test-session", &Session{UserID: 4, Name: "Admin"}, time.Minute))

	out, err := store.Get(ctx, "test-session")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "Admin", out.Name)

	require.NoError(t, store.Delete(ctx, "test-session"))
	out, err = store.Get(ctx, "test-session")
	require.NoError(t, err)
	assert.Nil(t, out)
}
