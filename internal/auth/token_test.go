package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/bookreview/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test_secret",
		TokenExpiration: 3600,
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService(testConfig())

	identities := []Identity{
		{UserID: 1, Email: "a@x.com"},
		{UserID: 42, Email: "reader@example.com"},
		{UserID: 1 << 30, Email: ""},
	}

	for _, identity := range identities {
		token, expiresAt, err := svc.Issue(identity)
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

		got, err := svc.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, identity, got)
	}
}

func TestTokenService_Expiry(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cfg := testConfig()
	ttl := time.Duration(cfg.TokenExpiration) * time.Second

	token, expiresAt, err := NewTokenServiceWithClock(cfg, fixedClock(issuedAt)).Issue(Identity{UserID: 7, Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(ttl), expiresAt)

	t.Run("before expiry", func(t *testing.T) {
		svc := NewTokenServiceWithClock(cfg, fixedClock(issuedAt.Add(ttl-time.Second)))
		_, err := svc.Verify(token)
		assert.NoError(t, err)
	})

	t.Run("after expiry", func(t *testing.T) {
		svc := NewTokenServiceWithClock(cfg, fixedClock(issuedAt.Add(ttl+time.Second)))
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestTokenService_TamperedSignature(t *testing.T) {
	svc := NewTokenService(testConfig())

	token, _, err := svc.Issue(Identity{UserID: 3, Email: "a@x.com"})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	signature, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)

	for i := range signature {
		tampered := make([]byte, len(signature))
		copy(tampered, signature)
		tampered[i] ^= 0x01

		forged := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(tampered)
		_, err := svc.Verify(forged)
		assert.ErrorIs(t, err, ErrTokenSignatureInvalid, "byte %d", i)
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	other := testConfig()
	other.JWTSecret = "another_secret"

	token, _, err := NewTokenService(other).Issue(Identity{UserID: 3})
	require.NoError(t, err)

	_, err = NewTokenService(testConfig()).Verify(token)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestTokenService_Malformed(t *testing.T) {
	svc := NewTokenService(testConfig())

	for _, token := range []string{
		"",
		"invalid-token",
		"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.malformed.signature",
		"a.b",
	} {
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, token)
		assert.NotErrorIs(t, err, ErrTokenExpired, token)
	}
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	cfg := testConfig()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           1,
	}

	t.Run("none", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = NewTokenService(cfg).Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("HS512", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(cfg.JWTSecret))
		require.NoError(t, err)

		_, err = NewTokenService(cfg).Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestTokenService_MissingExpiry(t *testing.T) {
	cfg := testConfig()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 1}).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	_, err = NewTokenService(cfg).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_MissingUser(t *testing.T) {
	cfg := testConfig()
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	_, err = NewTokenService(cfg).Verify(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}
