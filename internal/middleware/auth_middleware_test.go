package middleware

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/bookreview/internal/auth"
	"github.com/EgehanKilicarslan/bookreview/internal/database/repository"
	"github.com/EgehanKilicarslan/bookreview/internal/database/service"
	"github.com/EgehanKilicarslan/bookreview/internal/metrics"
	fixtures "github.com/EgehanKilicarslan/bookreview/internal/testutil"
)

const unauthorizedBody = `{"message":"Authorization required","status":false}`

type gateEnv struct {
	router  *gin.Engine
	tokens  auth.TokenService
	metrics *metrics.Metrics
	reached *bool
}

func newGateEnv(t *testing.T, now func() time.Time) *gateEnv {
	gin.SetMode(gin.TestMode)

	cfg := fixtures.NewConfig()
	tokens := auth.NewTokenServiceWithClock(cfg, now)
	svc := service.NewAuthService(
		repository.NewUserRepository(fixtures.NewTestDB(t)),
		auth.NewPasswordHasher(cfg),
		tokens,
		fixtures.NewLogger(),
	)
	m := metrics.New()
	gate := NewAuthMiddleware(svc, m, fixtures.NewLogger())

	reached := false
	router := gin.New()
	router.GET("/protected", gate.RequireAuth(), func(c *gin.Context) {
		reached = true
		identity, ok := GetIdentity(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": identity.UserID, "email": identity.Email})
	})

	return &gateEnv{router: router, tokens: tokens, metrics: m, reached: &reached}
}

func (e *gateEnv) do(req *http.Request) *httptest.ResponseRecorder {
	*e.reached = false
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func tamper(t *testing.T, token string) string {
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)
	sig[0] ^= 0xFF
	parts[2] = base64.RawURLEncoding.EncodeToString(sig)
	return strings.Join(parts, ".")
}

func TestRequireAuth_AcceptsCookieAndBearer(t *testing.T) {
	env := newGateEnv(t, time.Now)
	token, _, err := env.tokens.Issue(auth.Identity{UserID: 7, Email: "seven@example.com"})
	require.NoError(t, err)

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})

		rec := env.do(req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, *env.reached)
		assert.JSONEq(t, `{"user_id":7,"email":"seven@example.com"}`, rec.Body.String())
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rec := env.do(req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, *env.reached)
	})

	t.Run("cookie wins over header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
		req.Header.Set("Authorization", "Bearer garbage")

		rec := env.do(req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireAuth_Rejections(t *testing.T) {
	env := newGateEnv(t, time.Now)
	token, _, err := env.tokens.Issue(auth.Identity{UserID: 7, Email: "seven@example.com"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		reason string
	}{
		{name: "no credentials", header: "", reason: metrics.ReasonMissingToken},
		{name: "wrong scheme", header: "Basic " + token, reason: metrics.ReasonMissingToken},
		{name: "garbage", header: "Bearer not.a.token", reason: metrics.ReasonMalformed},
		{name: "tampered signature", header: "Bearer " + tamper(t, token), reason: metrics.ReasonSignatureInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(env.metrics.AuthRejections.WithLabelValues(tt.reason))

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := env.do(req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, unauthorizedBody, rec.Body.String())
			assert.False(t, *env.reached)
			assert.Equal(t, before+1, testutil.ToFloat64(env.metrics.AuthRejections.WithLabelValues(tt.reason)))
		})
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	issuedAt := time.Now()
	clock := issuedAt
	env := newGateEnv(t, func() time.Time { return clock })

	token, expiresAt, err := env.tokens.Issue(auth.Identity{UserID: 3, Email: "three@example.com"})
	require.NoError(t, err)

	clock = expiresAt.Add(time.Second)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := env.do(req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, unauthorizedBody, rec.Body.String())
	assert.False(t, *env.reached)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.AuthRejections.WithLabelValues(metrics.ReasonExpired)))
}

func TestGetIdentity_Missing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetIdentity(c)
	assert.False(t, ok)

	c.Set(IdentityKey, "not an identity")
	_, ok = GetIdentity(c)
	assert.False(t, ok)
}
