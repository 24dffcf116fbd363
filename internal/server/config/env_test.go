package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestParseEnv(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	parseEnv(cfg, lookupFrom(map[string]string{
		EnvSecretKey:    "env-secret",
		EnvDatabaseDSN:  "memory://",
		EnvEndpointAddr: ":8081",
		EnvSessionTTL:   "12h",
		EnvRenewal:      "3h",
		EnvSecureCookie: "true",
		EnvLogFormat:    "zerolog",
		EnvLogLevel:     "debug",
	}))

	assert.Equal(t, "env-secret", cfg.SecretKey)
	assert.Equal(t, "memory://", cfg.DatabaseDSN)
	assert.Equal(t, ":8081", cfg.EndpointAddrHTTP)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 3*time.Hour, cfg.SessionRenewalWindow)
	assert.True(t, cfg.SecureCookie)
	assert.Equal(t, "zerolog", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParseEnv_EmptyValuesIgnored(t *testing.T) {
	cfg := &Config{SecretKey: "keep"}
	parseEnv(cfg, lookupFrom(map[string]string{EnvSecretKey: ""}))
	assert.Equal(t, "keep", cfg.SecretKey)
}

func TestParseEnv_Malformed(t *testing.T) {
	cfg := &Config{}
	require.Panics(t, func() { parseEnv(cfg, lookupFrom(map[string]string{EnvSessionTTL: "week"})) })
	require.Panics(t, func() { parseEnv(cfg, lookupFrom(map[string]string{EnvSecureCookie: "maybe"})) })
	require.Panics(t, func() { parseEnv(cfg, lookupFrom(map[string]string{EnvRenewal: "soon"})) })
}
