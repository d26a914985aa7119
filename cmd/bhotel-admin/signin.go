package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bhotel/bhotel-ui-api/internal/bootstrap"
	"github.com/bhotel/bhotel-ui-api/internal/data"
	domainauth "github.com/bhotel/bhotel-ui-api/internal/domain/auth"
	"github.com/bhotel/bhotel-ui-api/internal/session"
)

type signInOptions struct {
	Email    string
	Password string
	Name     string
	SignUp   bool
	SetRole  domainauth.Role
	Timeout  time.Duration
}

// runSignIn drives a full session lifecycle against the configured identity
// provider: start the controller, authenticate, print the resolved state,
// optionally change the role, and sign out again. Useful for verifying auth
// configuration without a browser.
func runSignIn(cmdCtx *commandContext, args []string) error {
	opts, err := parseSignInFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	db, _, err := connectInfraWithOptions(&connectInfraOptions{
		Logger:    cmdCtx.Logger,
		Config:    &cmdCtx.Config,
		WantDB:    true,
		WantRedis: false,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", cerr)
		}
	}()

	provider, err := bootstrap.BuildIdentityProvider(bootstrap.AuthConfig{
		Auth:   cmdCtx.Config.Auth,
		IsDev:  cmdCtx.Config.IsDev,
		DB:     db,
		Logger: cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("build identity provider: %w", err)
	}

	ctrl := session.NewController(session.ControllerOptions{
		Provider: provider,
		Roles:    data.NewUserRepo(db),
		Logger:   cmdCtx.Logger,
	})
	if startErr := ctrl.Start(ctx); startErr != nil {
		return fmt.Errorf("start session controller: %w", startErr)
	}
	defer ctrl.Close()

	password, err := resolvePassword(opts)
	if err != nil {
		return err
	}

	state, err := authenticate(ctx, ctrl, opts, password)
	if err != nil {
		return err
	}
	if printErr := printSessionState("Signed in", state); printErr != nil {
		return printErr
	}

	if opts.SetRole != domainauth.RoleAbsent {
		if roleErr := ctrl.SetRole(ctx, opts.SetRole); roleErr != nil {
			return fmt.Errorf("set role: %w", roleErr)
		}
		if printErr := printSessionState("Role updated", ctrl.State()); printErr != nil {
			return printErr
		}
	}

	if signOutErr := ctrl.SignOut(ctx); signOutErr != nil {
		return fmt.Errorf("sign out: %w", signOutErr)
	}
	return writeln(os.Stdout, "Signed out")
}

func authenticate(
	ctx context.Context,
	ctrl *session.Controller,
	opts signInOptions,
	password string,
) (session.State, error) {
	if opts.SignUp {
		state, err := ctrl.SignUp(ctx, opts.Email, password, opts.Name)
		if err != nil {
			return session.State{}, fmt.Errorf("sign up: %w", err)
		}
		return state, nil
	}

	state, err := ctrl.SignIn(ctx, opts.Email, password)
	if err != nil {
		if errors.Is(err, session.ErrAuthenticationFailed) {
			return session.State{}, errors.New("authentication failed: check email and password")
		}
		return session.State{}, fmt.Errorf("sign in: %w", err)
	}
	return state, nil
}

func resolvePassword(opts signInOptions) (string, error) {
	if opts.Password != "" {
		return opts.Password, nil
	}

	if err := write(os.Stdout, "Password: "); err != nil {
		return "", fmt.Errorf("print password prompt: %w", err)
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func printSessionState(heading string, state session.State) error {
	if err := writef(os.Stdout, "\n%s\n", heading); err != nil {
		return fmt.Errorf("print state heading: %w", err)
	}
	if state.Identity == nil {
		return writeln(os.Stdout, "  (signed out)")
	}
	if err := writef(os.Stdout, "  User:  %s\n", state.Identity.ID); err != nil {
		return fmt.Errorf("print state user: %w", err)
	}
	if err := writef(os.Stdout, "  Email: %s\n", state.Identity.Email); err != nil {
		return fmt.Errorf("print state email: %w", err)
	}
	if state.Identity.Name != "" {
		if err := writef(os.Stdout, "  Name:  %s\n", state.Identity.Name); err != nil {
			return fmt.Errorf("print state name: %w", err)
		}
	}
	role := string(state.Role)
	if role == "" {
		role = "(absent)"
	}
	if err := writef(os.Stdout, "  Role:  %s\n", role); err != nil {
		return fmt.Errorf("print state role: %w", err)
	}
	return nil
}

func parseSignInFlags(args []string) (signInOptions, error) {
	fs := flag.NewFlagSet("sign-in", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := signInOptions{
		Timeout: time.Minute,
	}
	var roleText string

	fs.StringVar(&opts.Email, "email", "", "Account email address")
	fs.StringVar(&opts.Password, "password", "", "Account password (prompted when omitted)")
	fs.StringVar(&opts.Name, "name", "", "Display name for --sign-up")
	fs.BoolVar(&opts.SignUp, "sign-up", false, "Create the account instead of signing in")
	fs.StringVar(&roleText, "role", "", "Set this role after signing in (guest, user, staff, admin)")
	fs.DurationVar(&opts.Timeout, "timeout", time.Minute, "Maximum duration for the whole session exchange")

	if err := fs.Parse(args); err != nil {
		return signInOptions{}, err
	}

	if opts.Email == "" {
		return signInOptions{}, errors.New("--email is required")
	}
	if opts.Timeout <= 0 {
		return signInOptions{}, errors.New("--timeout must be greater than zero")
	}
	if roleText != "" {
		role := domainauth.ParseRole(roleText)
		if !role.Known() {
			return signInOptions{}, fmt.Errorf("--role must be one of guest, user, staff, admin; got %q", roleText)
		}
		opts.SetRole = role
	}

	return opts, nil
}
