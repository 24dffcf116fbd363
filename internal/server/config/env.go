package config

import (
	"fmt"
	"strconv"
	"time"
)

// Environment variables read by parseEnv.
const (
	EnvSecretKey    = "JWT_SECRET"
	EnvDatabaseDSN  = "DATABASE_DSN"
	EnvEndpointAddr = "HTTP_ADDRESS"
	EnvSessionTTL   = "SESSION_TTL"
	EnvRenewal      = "SESSION_RENEWAL_WINDOW"
	EnvSecureCookie = "COOKIE_SECURE"
	EnvLogFormat    = "LOG_FORMAT"
	EnvLogLevel     = "LOG_LEVEL"
)

// parseEnv overlays config with values from the environment. lookup is
// os.LookupEnv outside of tests. Malformed values panic, like a bad config file.
func parseEnv(config *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvSecretKey); ok && v != "" {
		config.SecretKey = v
	}
	if v, ok := lookup(EnvDatabaseDSN); ok && v != "" {
		config.DatabaseDSN = v
	}
	if v, ok := lookup(EnvEndpointAddr); ok && v != "" {
		config.EndpointAddrHTTP = v
	}
	if v, ok := lookup(EnvSessionTTL); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvSessionTTL, err))
		}
		config.SessionTTL = d
	}
	if v, ok := lookup(EnvRenewal); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvRenewal, err))
		}
		config.SessionRenewalWindow = d
	}
	if v, ok := lookup(EnvSecureCookie); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvSecureCookie, err))
		}
		config.SecureCookie = b
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		config.LogFormat = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		config.LogLevel = v
	}
}
