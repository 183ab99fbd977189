// Package session keeps the logged-in profile in a signed cookie.
//
// A browser holds at most one identity. Load is optimistic: it returns
// whatever was saved. Restore additionally refreshes the profile from the
// store and keeps the saved copy when that fails.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"kelime/internal/models"
	"kelime/internal/security"
)

const (
	CookieName = "kelime_session"
	// UserKey holds the serialized profile
	UserKey  = "kelime_user"
	nonceKey = "csrf_nonce"

	defaultRefreshTimeout = 5 * time.Second
)

// ProfileFetcher reads a profile by id, returning nil when it is absent
type ProfileFetcher interface {
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
}

// Options configures the session cookie
type Options struct {
	Secret         string
	Secure         bool
	MaxAge         time.Duration
	RefreshTimeout time.Duration
}

// Manager saves, loads and clears the identity of a browser session
type Manager struct {
	store          sessions.Store
	profiles       ProfileFetcher
	refreshTimeout time.Duration
	logger         *slog.Logger
}

// NewManager creates a cookie-backed session manager
func NewManager(opts Options, profiles ProfileFetcher, logger *slog.Logger) *Manager {
	cs := sessions.NewCookieStore([]byte(opts.Secret))
	cs.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	cs.MaxAge(int(opts.MaxAge / time.Second))

	timeout := opts.RefreshTimeout
	if timeout <= 0 {
		timeout = defaultRefreshTimeout
	}
	return &Manager{store: cs, profiles: profiles, refreshTimeout: timeout, logger: logger}
}

// get returns the request's session. A cookie that fails to decode, for
// example after a secret rotation, yields a fresh empty session.
func (m *Manager) get(r *http.Request) *sessions.Session {
	sess, err := m.store.Get(r, CookieName)
	if err != nil {
		m.logger.Debug("Discarding undecodable session cookie", slog.Any("error", err))
	}
	return sess
}

// Load returns the saved profile, or nil when nobody is logged in
func (m *Manager) Load(r *http.Request) *models.Profile {
	raw, ok := m.get(r).Values[UserKey].(string)
	if !ok || raw == "" {
		return nil
	}
	var p models.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil || p.ID == "" {
		m.logger.Warn("Ignoring malformed session profile", slog.Any("error", err))
		return nil
	}
	return &p
}

// Save writes p as the session identity and makes sure the session has a
// CSRF nonce
func (m *Manager) Save(w http.ResponseWriter, r *http.Request, p *models.Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode session profile: %w", err)
	}

	sess := m.get(r)
	sess.Values[UserKey] = string(raw)
	if _, ok := sess.Values[nonceKey].(string); !ok {
		sess.Values[nonceKey] = security.GenerateNonce()
	}
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear removes the identity unconditionally
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) error {
	sess := m.get(r)
	delete(sess.Values, UserKey)
	delete(sess.Values, nonceKey)
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Nonce returns the session's CSRF nonce, or "" before login
func (m *Manager) Nonce(r *http.Request) string {
	nonce, _ := m.get(r).Values[nonceKey].(string)
	return nonce
}

// Restore loads the saved profile and refreshes it from the store. Refresh
// failures are logged and the saved profile is returned as is.
func (m *Manager) Restore(ctx context.Context, w http.ResponseWriter, r *http.Request) *models.Profile {
	saved := m.Load(r)
	if saved == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, m.refreshTimeout)
	defer cancel()

	fresh, err := m.profiles.GetProfile(ctx, saved.ID)
	switch {
	case err != nil:
		m.logger.Error("Failed to refresh session profile",
			slog.String("user_id", saved.ID),
			slog.Any("error", err))
		return saved
	case fresh == nil:
		m.logger.Warn("Session profile no longer exists, keeping saved copy",
			slog.String("user_id", saved.ID))
		return saved
	}

	if err := m.Save(w, r, fresh); err != nil {
		m.logger.Error("Failed to save refreshed profile", slog.Any("error", err))
	}
	return fresh
}
