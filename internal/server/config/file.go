package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophblog/internal/flagx"
	"github.com/dmitrijs2005/gophblog/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig mirrors Config for decoding config files. Durations accept both
// strings such as "168h" and integer nanoseconds.
type FileConfig struct {
	EndpointAddrHTTP     string          `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	DatabaseDSN          string          `json:"database_dsn" yaml:"database_dsn"`
	SecretKey            string          `json:"secret_key" yaml:"secret_key"`
	SessionTTL           timex.Duration  `json:"session_ttl" yaml:"session_ttl"`
	SessionRenewalWindow *timex.Duration `json:"session_renewal_window" yaml:"session_renewal_window"`
	BcryptCost           int             `json:"bcrypt_cost" yaml:"bcrypt_cost"`
	SecureCookie         *bool           `json:"secure_cookie" yaml:"secure_cookie"`
	LogFormat            string          `json:"log_format" yaml:"log_format"`
	LogLevel             string          `json:"log_level" yaml:"log_level"`
}

// parseFile loads the file named by -c/-config into config. Files ending in
// .yaml or .yml are decoded as YAML, anything else as JSON. Only fields present
// in the file override the current values. Unreadable or invalid files panic.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *FileConfig) apply(config *Config) {
	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.SessionTTL.Duration != 0 {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.SessionRenewalWindow != nil {
		config.SessionRenewalWindow = c.SessionRenewalWindow.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.SecureCookie != nil {
		config.SecureCookie = *c.SecureCookie
	}
	if c.LogFormat != "" {
		config.LogFormat = c.LogFormat
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
}
