package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		jwtSecret   string
		dbPassword  string
		sslMode     string
		expectError bool
	}{
		{"Development with defaults", "development", "your-secret-key-change-in-production", "password", "disable", false},
		{"Production with default JWT secret", "production", "your-secret-key-change-in-production", "strong-password", "require", true},
		{"Production with short JWT secret", "production", "short", "strong-password", "require", true},
		{"Production with weak DB password", "production", "secure-secret-at-least-32-chars-long", "password", "require", true},
		{"Production with SSL disabled", "production", "secure-secret-at-least-32-chars-long", "strong-password", "disable", true},
		{"Production fully hardened", "production", "secure-secret-at-least-32-chars-long", "strong-password", "verify-full", false},
		{"Prod alias behaves like production", "prod", "secure-secret-at-least-32-chars-long", "strong-password", "require", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				Env:        tt.env,
				JWTSecret:  tt.jwtSecret,
				DBPassword: tt.dbPassword,
				DBSSLMode:  tt.sslMode,
				Port:       "8080",
			}

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Validate_RequiredFields(t *testing.T) {
	c := &Config{JWTSecret: "secret"}
	assert.Error(t, c.Validate(), "missing port should fail validation")

	c = &Config{Port: "8080"}
	assert.Error(t, c.Validate(), "missing JWT secret should fail validation")
}

func TestLoadConfig_SSLModeNormalization(t *testing.T) {
	defer os.Unsetenv("APP_ENV")
	defer os.Unsetenv("DB_SSLMODE")
	defer viper.Reset()

	os.Setenv("APP_ENV", "development")
	os.Setenv("DB_SSLMODE", "  DISABLE  ")

	c, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer os.Unsetenv("APP_ENV")
	defer viper.Reset()

	os.Setenv("APP_ENV", "test")

	c, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "ripple", c.DBName)
	assert.False(t, c.TracingEnabled)
}
