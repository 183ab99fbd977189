package security

import (
	"net/http"

	"github.com/google/uuid"
)

// GenerateNonce creates a random per-session identifier
func GenerateNonce() string {
	return uuid.New().String()
}

// IsSecureRequest determines if the request arrived over HTTPS, directly or
// through a reverse proxy
func IsSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" {
		return true
	}
	return r.URL.Scheme == "https"
}
