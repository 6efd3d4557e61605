package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"taskboard/internal/app"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
)

// EnvPassword supplies the password when --password is not given.
const EnvPassword = "TASKBOARD_PASSWORD"

func init() {
	Register(&LoginCmd{})
	Register(&SignupCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	email    string
	password string
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Sign in" }
func (c *LoginCmd) Usage() string     { return "taskboard login --email <email> [--password <pw>]" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.email, "e", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, b *app.Board, args []string, out, errOut io.Writer) int {
	if b.Auth().State().IsAuthenticated() {
		if !cfg.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	err := b.Login(ctx, c.email, passwordOrEnv(c.password))
	if err != nil {
		return reportAuthError(errOut, b, err)
	}
	return reportOK(out, cfg.Quiet)
}

// SignupCmd implements the signup command.
type SignupCmd struct {
	name     string
	email    string
	password string
}

func (c *SignupCmd) Name() string      { return "signup" }
func (c *SignupCmd) Aliases() []string { return []string{"register"} }
func (c *SignupCmd) Synopsis() string  { return "Create an account and sign in" }
func (c *SignupCmd) Usage() string {
	return "taskboard signup --name <name> --email <email> [--password <pw>]"
}
func (c *SignupCmd) NeedsAuth() bool { return false }

func (c *SignupCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
	fs.StringVar(&c.name, "n", "", "")
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.email, "e", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *SignupCmd) Run(ctx context.Context, cfg *config.Config, b *app.Board, args []string, out, errOut io.Writer) int {
	err := b.Signup(ctx, c.name, c.email, passwordOrEnv(c.password))
	if err != nil {
		return reportAuthError(errOut, b, err)
	}
	return reportOK(out, cfg.Quiet)
}

func passwordOrEnv(pw string) string {
	if pw != "" {
		return pw
	}
	return os.Getenv(EnvPassword)
}

// reportAuthError prints the failure recorded in the auth store.
// Rejected credentials are an auth error, anything else a backend error.
func reportAuthError(errOut io.Writer, b *app.Board, err error) int {
	if errors.Is(err, service.ErrValidation) {
		return reportError(errOut, err)
	}
	fmt.Fprintf(errOut, "error: %s\n", b.Auth().State().Error)
	if errors.Is(err, service.ErrUnauthorized) {
		return exitcode.AuthError
	}
	return exitcode.BackendError
}
