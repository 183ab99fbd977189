package security

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	password := "testPassword123"

	hash, err := HashPassword(password)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)
	assert.True(t, IsBcryptHash(hash))

	hash2, err := HashPassword(password)
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2, "salted hashes should differ")
}

func TestCheckPassword(t *testing.T) {
	password := "mySecurePassword"
	hash, err := HashPassword(password)
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{name: "correct password", password: password, hash: hash, want: true},
		{name: "incorrect password", password: "wrongPassword", hash: hash, want: false},
		{name: "empty password", password: "", hash: hash, want: false},
		{name: "plaintext stored value", password: password, hash: password, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckPassword(tt.password, tt.hash))
		})
	}
}

func TestCheckLegacyPassword(t *testing.T) {
	assert.True(t, CheckLegacyPassword("1234", "1234"))
	assert.False(t, CheckLegacyPassword("1234", "12345"))
	assert.False(t, CheckLegacyPassword("", ""))
}

func TestCSRFGenerator(t *testing.T) {
	g := NewCSRFGenerator("secret")

	token, err := g.GenerateToken("nonce-1")
	require.NoError(t, err)

	again, err := g.GenerateToken("nonce-1")
	require.NoError(t, err)
	assert.Equal(t, token, again, "tokens are deterministic per nonce")

	assert.True(t, g.ValidateToken("nonce-1", token))
	assert.False(t, g.ValidateToken("nonce-2", token))
	assert.False(t, g.ValidateToken("nonce-1", ""))
	assert.False(t, NewCSRFGenerator("other").ValidateToken("nonce-1", token))

	_, err = g.GenerateToken("")
	assert.Error(t, err)
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"), "third request in the window is rejected")
	assert.True(t, rl.Allow("5.6.7.8"), "other clients have their own bucket")

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("1.2.3.4"), "bucket refills after the window")

	now = now.Add(5 * time.Minute)
	rl.prune()
	assert.Empty(t, rl.visitors)
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.7:5555"
	assert.Equal(t, "10.0.0.7", GetClientIP(r))

	r.RemoteAddr = "10.0.0.8"
	assert.Equal(t, "10.0.0.8", GetClientIP(r))
}

func TestIsSecureRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "http://example.com/", nil)
	assert.False(t, IsSecureRequest(r))

	r.Header.Set("X-Forwarded-Proto", "https")
	assert.True(t, IsSecureRequest(r))
}

func signKey(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("supabase-secret"))
	require.NoError(t, err)
	return signed
}

func TestInspectAPIKey(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("anon key", func(t *testing.T) {
		key := signKey(t, jwt.MapClaims{"iss": "supabase", "role": "anon", "exp": now.Add(time.Hour).Unix()})
		info, err := InspectAPIKey(key)
		require.NoError(t, err)
		assert.True(t, info.JWT)
		assert.Equal(t, "anon", info.Role)
		assert.Equal(t, "supabase", info.Issuer)
		assert.Empty(t, info.Problems(now))
	})

	t.Run("service role key", func(t *testing.T) {
		key := signKey(t, jwt.MapClaims{"role": "service_role"})
		info, err := InspectAPIKey(key)
		require.NoError(t, err)
		assert.Len(t, info.Problems(now), 1)
	})

	t.Run("expired key", func(t *testing.T) {
		key := signKey(t, jwt.MapClaims{"role": "anon", "exp": now.Add(-time.Hour).Unix()})
		info, err := InspectAPIKey(key)
		require.NoError(t, err)
		assert.Len(t, info.Problems(now), 1)
	})

	t.Run("opaque key", func(t *testing.T) {
		info, err := InspectAPIKey("sb_publishable_abc123")
		require.NoError(t, err)
		assert.False(t, info.JWT)
		assert.Empty(t, info.Problems(now))
	})

	t.Run("empty key", func(t *testing.T) {
		_, err := InspectAPIKey("")
		assert.Error(t, err)
	})
}
