package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPasetoKey = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PASETO_KEY", testPasetoKey)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "dev", cfg.Server.Env)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.TrustedOrigins)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, time.Hour, cfg.Auth.TokenDuration)
	assert.False(t, cfg.Email.Enabled())
}

func TestLoad_PasetoKeyValidation(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "valid 32 byte key", key: testPasetoKey, wantErr: false},
		{name: "missing key", key: "", wantErr: true},
		{name: "short key", key: "too-short", wantErr: true},
		{name: "long key", key: testPasetoKey + "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PASETO_KEY", tt.key)

			_, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PASETO_KEY", testPasetoKey)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("TOKEN_DURATION", "600")
	t.Setenv("TRUSTED_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("SMTP_HOST", "smtp.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.False(t, cfg.Server.IsDevelopment())
	assert.Equal(t, 10*time.Minute, cfg.Auth.TokenDuration)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.Server.TrustedOrigins)
	assert.True(t, cfg.Email.Enabled())
}

func TestConnectionString(t *testing.T) {
	db := DatabaseConfig{
		Host:     "db.internal",
		Port:     "5433",
		User:     "svc",
		Password: "pw",
		DBName:   "accounts",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=svc password=pw dbname=accounts sslmode=require",
		db.ConnectionString(),
	)
}

func TestRedisAddress(t *testing.T) {
	r := RedisConfig{Host: "cache.internal", Port: "6380"}
	assert.Equal(t, "cache.internal:6380", r.Address())
}
