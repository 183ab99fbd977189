package security

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// APIKeyInfo describes the claims of a hosted-store API key
type APIKeyInfo struct {
	// JWT is false for opaque keys, which carry no claims
	JWT       bool
	Role      string
	Issuer    string
	ExpiresAt time.Time
}

// Problems lists reasons the key should not be used by a browser-facing
// service, as of now
func (i APIKeyInfo) Problems(now time.Time) []string {
	var out []string
	if !i.JWT {
		return out
	}
	if i.Role == "service_role" {
		out = append(out, "key has the service_role claim and bypasses row level security")
	}
	if !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt) {
		out = append(out, fmt.Sprintf("key expired at %s", i.ExpiresAt.Format(time.RFC3339)))
	}
	return out
}

// InspectAPIKey reads the claims of a hosted-store key without verifying
// its signature; the signing secret belongs to the hosted service.
func InspectAPIKey(key string) (APIKeyInfo, error) {
	if key == "" {
		return APIKeyInfo{}, fmt.Errorf("api key is empty")
	}
	if strings.Count(key, ".") != 2 {
		return APIKeyInfo{}, nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return APIKeyInfo{}, fmt.Errorf("failed to parse api key: %w", err)
	}

	info := APIKeyInfo{JWT: true}
	if role, ok := claims["role"].(string); ok {
		info.Role = role
	}
	if iss, err := claims.GetIssuer(); err == nil {
		info.Issuer = iss
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}
