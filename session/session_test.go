package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := NewTokenCodec("secret")
	token, err := codec.Encode("abc", time.Hour)
	require.NoError(t, err)

	id, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "abc", id)

	_, err = NewTokenCodec("other").Decode(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := codec.Encode("abc", -time.Minute)
	require.NoError(t, err)
	_, err = codec.Decode(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_Lifecycle(t *testing.T) {
	m := NewManager(NewMemoryStore(time.Minute), NewTokenCodec("secret"), WithCookieName("sid"))

	rec := httptest.NewRecorder()
	created, err := m.Create(rec, RoleJudge, "Hon. A. Patil")
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/judges", nil)
	req.AddCookie(cookies[0])
	got, err := m.Resolve(req)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, RoleJudge, got.Role)
	assert.Equal(t, "Hon. A. Patil", got.Name)

	out := httptest.NewRecorder()
	m.Destroy(out, req)
	assert.Equal(t, -1, out.Result().Cookies()[0].MaxAge)

	_, err = m.Resolve(req)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManager_ResolveWithoutCookie(t *testing.T) {
	m := NewManager(NewMemoryStore(time.Minute), NewTokenCodec("secret"))
	_, err := m.Resolve(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, ErrNoSession)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "nyaya_session", Value: "garbage"})
	_, err = m.Resolve(req)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
