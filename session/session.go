// Package session keeps server-side login sessions for judges and lawyers.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

var (
	ErrNoSession    = errors.New("session: no session")
	ErrInvalidToken = errors.New("session: invalid token")
)

// Role is who a session belongs to.
type Role string

const (
	RoleJudge  Role = "judge"
	RoleLawyer Role = "lawyer"
)

// Session is the state kept for a logged-in user.
type Session struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store keeps sessions by id.
type Store interface {
	Get(id string) (Session, bool)
	Set(id string, s Session, ttl time.Duration)
	Destroy(id string)
}

// MemoryStore is a process-local Store. Sessions are lost on restart.
type MemoryStore struct {
	items *gocache.Cache
}

// NewMemoryStore creates a store purging expired sessions every cleanup.
func NewMemoryStore(cleanup time.Duration) *MemoryStore {
	return &MemoryStore{items: gocache.New(gocache.NoExpiration, cleanup)}
}

func (m *MemoryStore) Get(id string) (Session, bool) {
	v, ok := m.items.Get(id)
	if !ok {
		return Session{}, false
	}
	s, ok := v.(Session)
	return s, ok
}

func (m *MemoryStore) Set(id string, s Session, ttl time.Duration) {
	m.items.Set(id, s, ttl)
}

func (m *MemoryStore) Destroy(id string) {
	m.items.Delete(id)
}

// TokenCodec signs session ids into cookie values.
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec creates a codec using an HMAC secret.
func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

// Encode signs id with an expiry.
func (c *TokenCodec) Encode(id string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sid": id,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifies a token and returns its session id.
func (c *TokenCodec) Decode(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", ErrInvalidToken
	}
	return sid, nil
}

// Manager ties the store and codec to a cookie.
type Manager struct {
	store      Store
	codec      *TokenCodec
	cookieName string
	ttl        time.Duration
	secure     bool
}

// ManagerOption is a functional option for Manager
type ManagerOption func(*Manager)

// WithCookieName sets the session cookie name.
func WithCookieName(name string) ManagerOption {
	return func(m *Manager) {
		if name != "" {
			m.cookieName = name
		}
	}
}

// WithTTL sets how long sessions live.
func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithSecureCookie marks the cookie Secure.
func WithSecureCookie(secure bool) ManagerOption {
	return func(m *Manager) {
		m.secure = secure
	}
}

// NewManager creates a session manager.
func NewManager(store Store, codec *TokenCodec, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:      store,
		codec:      codec,
		cookieName: "nyaya_session",
		ttl:        8 * time.Hour,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a session and writes its cookie.
func (m *Manager) Create(w http.ResponseWriter, role Role, name string) (Session, error) {
	s := Session{
		ID:        uuid.New().String(),
		Role:      role,
		Name:      name,
		CreatedAt: time.Now(),
	}
	token, err := m.codec.Encode(s.ID, m.ttl)
	if err != nil {
		return Session{}, fmt.Errorf("failed to sign session: %w", err)
	}
	m.store.Set(s.ID, s, m.ttl)

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return s, nil
}

// Resolve returns the session attached to r.
func (m *Manager) Resolve(r *http.Request) (Session, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return Session{}, ErrNoSession
	}
	id, err := m.codec.Decode(cookie.Value)
	if err != nil {
		return Session{}, err
	}
	s, ok := m.store.Get(id)
	if !ok {
		return Session{}, ErrNoSession
	}
	return s, nil
}

// Destroy ends the session attached to r, if any, and clears the cookie.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(m.cookieName); err == nil {
		if id, err := m.codec.Decode(cookie.Value); err == nil {
			m.store.Destroy(id)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
