// Package blogctl implements the administrative command line for GophBlog:
// applying migrations, creating users and minting session tokens.
package blogctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/config"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophblog/internal/server/services"
	"github.com/urfave/cli/v2"
)

// OpenFunc opens the store named by a DSN.
type OpenFunc func(ctx context.Context, dsn string) (repomanager.RepositoryManager, error)

type app struct {
	stdin  io.Reader
	stdout io.Writer
	open   OpenFunc

	dsn        string
	secret     string
	ttl        time.Duration
	bcryptCost int
}

// NewApp builds the blogctl command tree. open is repomanager.Open outside
// of tests.
func NewApp(stdin io.Reader, stdout io.Writer, open OpenFunc) *cli.App {
	a := &app{stdin: stdin, stdout: stdout, open: open}
	return &cli.App{
		Name:      "blogctl",
		Usage:     "Administer a GophBlog store",
		Writer:    stdout,
		ErrWriter: stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dsn",
				Usage:       "storage DSN (postgres://, mongodb://, memory://)",
				EnvVars:     []string{config.EnvDatabaseDSN},
				Destination: &a.dsn,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "secret",
				Usage:       "HMAC secret used to sign session tokens",
				EnvVars:     []string{config.EnvSecretKey},
				Destination: &a.secret,
			},
			&cli.DurationFlag{
				Name:        "ttl",
				Usage:       "session token lifetime",
				EnvVars:     []string{config.EnvSessionTTL},
				Value:       common.SessionTTL,
				Destination: &a.ttl,
			},
			&cli.IntFlag{
				Name:        "bcrypt-cost",
				Usage:       "bcrypt cost for new password hashes",
				Value:       auth.DefaultBcryptCost,
				Destination: &a.bcryptCost,
			},
		},
		Commands: []*cli.Command{
			a.migrateCmd(),
			a.userAddCmd(),
			a.tokenCmd(),
		},
	}
}

// withStore opens the configured store for the duration of fn.
func (a *app) withStore(ctx context.Context, fn func(repomanager.RepositoryManager) error) (err error) {
	m, err := a.open(ctx, a.dsn)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := m.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(m)
}

func (a *app) migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply schema migrations or ensure indexes",
		Action: func(c *cli.Context) error {
			return a.withStore(c.Context, func(m repomanager.RepositoryManager) error {
				if err := m.RunMigrations(c.Context); err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, "migrations applied")
				return nil
			})
		},
	}
}

func (a *app) userAddCmd() *cli.Command {
	var userName string
	return &cli.Command{
		Name:  "useradd",
		Usage: "Register a user; the password is prompted for without echo",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "username",
				Aliases:     []string{"u"},
				Destination: &userName,
				Required:    true,
			},
		},
		Action: func(c *cli.Context) error {
			pw, err := GetPassword(a.stdout)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pw)

			return a.withStore(c.Context, func(m repomanager.RepositoryManager) error {
				us, err := services.NewUserService(m.Users(), nil, a.bcryptCost)
				if err != nil {
					return err
				}
				u, err := us.Register(c.Context, userName, string(pw))
				if errors.Is(err, common.ErrorAlreadyExists) {
					return fmt.Errorf("user %q already exists", userName)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "created user %s (%s)\n", u.UserName, u.ID)
				return nil
			})
		},
	}
}

func (a *app) tokenCmd() *cli.Command {
	var userName string
	var fromStdin bool
	return &cli.Command{
		Name:  "token",
		Usage: "Log in and print a session token",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "username",
				Aliases:     []string{"u"},
				Destination: &userName,
				Required:    true,
			},
			&cli.BoolFlag{
				Name:        "password-stdin",
				Usage:       "read the password from the first line of stdin",
				Destination: &fromStdin,
			},
		},
		Action: func(c *cli.Context) error {
			issuer, err := auth.NewTokenIssuer(a.secret, a.ttl)
			if err != nil {
				return err
			}

			var pw []byte
			if fromStdin {
				line, err := readLine(a.stdin)
				if err != nil {
					return err
				}
				pw = []byte(line)
			} else if pw, err = GetPassword(a.stdout); err != nil {
				return err
			}
			defer common.WipeByteArray(pw)

			return a.withStore(c.Context, func(m repomanager.RepositoryManager) error {
				us, err := services.NewUserService(m.Users(), issuer, a.bcryptCost)
				if err != nil {
					return err
				}
				u, err := us.Login(c.Context, userName, string(pw))
				if err != nil {
					return err
				}
				tok, _, err := us.IssueToken(u.Identity())
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, tok)
				return nil
			})
		},
	}
}
