package config_test

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_bridge/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ResolverDefaults(t *testing.T) {
	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Resolver.MaxIterations)
	assert.Equal(t, time.Minute, cfg.Resolver.Tolerance)
	assert.Equal(t, int64(1000), cfg.Resolver.ReferenceInterval)
	assert.Equal(t, int64(100), cfg.Resolver.ProbeStep)
	assert.Equal(t, 10, cfg.Resolver.ProbeAttempts)
}

func TestLoadConfig_RejectsNonPositiveResolverSettings(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"RESOLVER_MAX_ITERATIONS", "0"},
		{"RESOLVER_REFERENCE_INTERVAL", "-5"},
		{"RESOLVER_PROBE_STEP", "0"},
		{"RESOLVER_PROBE_ATTEMPTS", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			cfg, err := config.LoadConfig()

			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
