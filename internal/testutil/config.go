package testutil

import (
	"github.com/EgehanKilicarslan/bookreview/internal/config"
)

// NewConfig returns a valid configuration with the cheapest bcrypt cost.
func NewConfig() *config.Config {
	return &config.Config{
		AppEnv:              "test",
		LogLevelName:        "ERROR",
		ApiVersion:          "v1",
		JWTSecret:           "test_secret",
		TokenExpiration:     3600,
		BcryptCost:          4,
		CookieExpireDays:    1,
		BookCacheTTL:        300,
		LoginMaxAttempts:    3,
		LoginWindow:         900,
		HealthCheckInterval: 1,
		ShutdownTimeout:     5,
	}
}
