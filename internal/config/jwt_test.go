package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestJWTConfigFrom_DefaultExpiration(t *testing.T) {
	cfg, err := JWTConfigFrom(env(map[string]string{"JWT_SECRET": "test-secret-key-123"}))
	require.NoError(t, err)
	assert.Equal(t, "test-secret-key-123", cfg.Secret)
	assert.Equal(t, 24, cfg.ExpirationHours, "should use default expiration of 24 hours")
}

func TestJWTConfigFrom_Expiration(t *testing.T) {
	tests := []struct {
		name          string
		expiration    string
		expectedHours int
		wantErr       bool
	}{
		{"one hour", "1", 1, false},
		{"one week", "168", 168, false},
		{"zero", "0", 0, true},
		{"negative", "-5", 0, true},
		{"not a number", "soon", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := JWTConfigFrom(env(map[string]string{
				"JWT_SECRET":           "test-secret-key-123",
				"JWT_EXPIRATION_HOURS": tt.expiration,
			}))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedHours, cfg.ExpirationHours)
		})
	}
}

func TestJWTConfigFrom_Secret(t *testing.T) {
	_, err := JWTConfigFrom(env(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")

	_, err = JWTConfigFrom(env(map[string]string{"JWT_SECRET": "short"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 16 characters")
}

func TestNewJWTConfig_ReadsEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret-key-0123")
	t.Setenv("JWT_EXPIRATION_HOURS", "2")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.ExpirationHours)
}
