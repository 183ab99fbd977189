package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"kelime/internal/models"
	"kelime/internal/security"
	"kelime/internal/session"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const ProfileContextKey ContextKey = "profile"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	sessions *session.Manager
	csrf     *security.CSRFGenerator
	limiter  *security.RateLimiter
	logger   *slog.Logger
}

// NewMiddleware creates a new middleware instance. A nil limiter disables
// rate limiting.
func NewMiddleware(sessions *session.Manager, csrf *security.CSRFGenerator, limiter *security.RateLimiter, logger *slog.Logger) *Middleware {
	return &Middleware{
		sessions: sessions,
		csrf:     csrf,
		limiter:  limiter,
		logger:   logger,
	}
}

// RequireAuth is middleware that requires a logged-in profile
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile := m.sessions.Load(r)
		if profile == nil {
			respondWithError(w, m.logger, http.StatusUnauthorized, MsgLoginRequired, "", nil)
			return
		}

		ctx := context.WithValue(r.Context(), ProfileContextKey, profile)
		next(w, r.WithContext(ctx))
	}
}

// RequireAdmin is middleware that requires a logged-in admin
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		profile := GetProfileFromContext(r.Context())
		if !profile.IsAdmin() {
			m.logger.Warn("Admin route refused",
				slog.String("user_id", profile.ID),
				slog.String("path", r.URL.Path))
			respondWithError(w, m.logger, http.StatusForbidden, MsgForbidden, "", nil)
			return
		}
		next(w, r)
	})
}

// CSRFProtect rejects requests whose X-CSRF-Token header does not match
// the session nonce
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(security.CSRFHeader)
		if !m.csrf.ValidateToken(m.sessions.Nonce(r), token) {
			respondWithError(w, m.logger, http.StatusForbidden, MsgInvalidCSRF, "", nil)
			return
		}
		next(w, r)
	}
}

// RateLimit limits requests per client IP
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.limiter != nil && !m.limiter.Allow(security.GetClientIP(r)) {
			m.logger.Warn("Rate limit exceeded", slog.String("ip", security.GetClientIP(r)), slog.String("path", r.URL.Path))
			respondWithError(w, m.logger, http.StatusTooManyRequests, MsgTooManyRequests, "", nil)
			return
		}
		next(w, r)
	}
}

// GetProfileFromContext retrieves the profile from the request context
func GetProfileFromContext(ctx context.Context) *models.Profile {
	profile, ok := ctx.Value(ProfileContextKey).(*models.Profile)
	if !ok {
		return nil
	}
	return profile
}
