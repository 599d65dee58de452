package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DWOLLA_ENV", "PLAID_ENV", "LEDGER_BACKEND", "LINK_CONCURRENCY", "HTTP_TIMEOUT", "DATABASE_PATH", "SERVER_ADDR", "SERVER_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dashboard.db", cfg.Database.Path)
	assert.Equal(t, "sandbox", cfg.Dwolla.Environment)
	assert.Equal(t, LedgerBackendSqlite, cfg.Ledger.Backend)
	assert.Equal(t, 4, cfg.Saga.LinkConcurrency)
	assert.Equal(t, 1000, cfg.Saga.MaxSyncPages)
	assert.Equal(t, 10*time.Second, cfg.Saga.RollbackTimeout)
	assert.Equal(t, 60*time.Second, cfg.Http.Timeout)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DWOLLA_ENV", "production")
	t.Setenv("LINK_CONCURRENCY", "2")
	t.Setenv("ROLLBACK_TIMEOUT", "3s")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Dwolla.Environment)
	assert.Equal(t, 2, cfg.Saga.LinkConcurrency)
	assert.Equal(t, 3*time.Second, cfg.Saga.RollbackTimeout)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.Server.AllowedOrigins)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown dwolla env", "DWOLLA_ENV", "development"},
		{"unknown plaid env", "PLAID_ENV", "staging"},
		{"unknown ledger backend", "LEDGER_BACKEND", "postgres"},
		{"formance without stack url", "LEDGER_BACKEND", "formance"},
		{"bad duration", "HTTP_TIMEOUT", "soon"},
		{"zero concurrency", "BALANCE_CONCURRENCY", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FORMANCE_STACK_URL", "")
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
