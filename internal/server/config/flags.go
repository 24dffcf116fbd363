package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/gophblog/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":4000")
//	-d string     storage DSN
//	-s string     session token HMAC secret
//	-t duration   session lifetime (e.g., "168h")
//	-w duration   session renewal window (e.g., "84h", "0" disables)
//	-k int        bcrypt cost
//	-f string     log format: json, text, zerolog
//	-l string     log level: debug, info, warn, error
//
// os.Args is filtered with flagx.FilterArgs first so that -c/-config and
// flags owned by other components do not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-w", "-k", "-f", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.SessionTTL, "t", config.SessionTTL, "session lifetime")
	fs.DurationVar(&config.SessionRenewalWindow, "w", config.SessionRenewalWindow, "session renewal window")
	fs.IntVar(&config.BcryptCost, "k", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
