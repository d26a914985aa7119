package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/bhotel/bhotel-ui-api/config"
	"github.com/bhotel/bhotel-ui-api/internal/bootstrap"
	"github.com/bhotel/bhotel-ui-api/internal/data"
	"github.com/bhotel/bhotel-ui-api/internal/devseed"
	domainauth "github.com/bhotel/bhotel-ui-api/internal/domain/auth"
	"github.com/bhotel/bhotel-ui-api/internal/ports"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

const defaultMigrationTimeout = 5 * time.Minute

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Run database migrations",
			run:         runMigrations,
		},
		"db-reset": {
			name:        "db-reset",
			description: "Drop the database schema, run migrations, and optionally seed data",
			run:         runDBReset,
		},
		"db-seed": {
			name:        "db-seed",
			description: "Run database migrations and seed development data",
			run:         runDBSeed,
		},
		"set-role": {
			name:        "set-role",
			description: "Change the stored role for a user account",
			run:         runSetRole,
		},
		"list-users": {
			name:        "list-users",
			description: "List user accounts and their roles",
			run:         runListUsers,
		},
		"list-sessions": {
			name:        "list-sessions",
			description: "Inspect active session records in Redis",
			run:         runListSessions,
		},
		"clear-sessions": {
			name:        "clear-sessions",
			description: "Delete session records from Redis, signing the affected users out",
			run:         runClearSessions,
		},
		"sign-in": {
			name:        "sign-in",
			description: "Authenticate against the configured identity provider and show the resolved session state",
			run:         runSignIn,
		},
	}
}

func printUsage() error {
	if err := writef(os.Stdout, "Usage: bhotel-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(os.Stdout, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := cmds[name]
		if err := writef(os.Stdout, "  %-16s %s\n", c.name, c.description); err != nil {
			return err
		}
	}
	return nil
}

type migrateOptions struct {
	Timeout time.Duration
}

type dbResetOptions struct {
	Timeout     time.Duration
	Yes         bool
	Seed        bool
	AllowRemote bool
}

type dbSeedOptions struct {
	Timeout     time.Duration
	AllowRemote bool
}

type setRoleOptions struct {
	Email  string
	UserID string
	Role   domainauth.Role
	Yes    bool
}

type listUsersOptions struct {
	Role   string
	Limit  int
	Offset int
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("running database migrations")

		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return fmt.Errorf("run migrations: %w", migrateErr)
		}

		cmdCtx.Logger.Info("migrations completed successfully")
		return nil
	})
}

func runDBReset(cmdCtx *commandContext, args []string) error {
	opts, err := parseDBResetFlags(args)
	if err != nil {
		return err
	}

	target := fmt.Sprintf(
		"database %q on %s:%d",
		cmdCtx.Config.Postgres.Name,
		cmdCtx.Config.Postgres.Host,
		cmdCtx.Config.Postgres.Port,
	)

	remote, err := guardRemoteHost(cmdCtx, opts.AllowRemote, "drop and recreate the public schema")
	if err != nil {
		return err
	}

	confirmOpts := dbResetConfirmOptions{
		yes:    opts.Yes,
		target: target,
	}
	if remote {
		confirmOpts.remoteHost = cmdCtx.Config.Postgres.Host
	}
	if confirmErr := confirmAction(confirmOpts, "reset database schema"); confirmErr != nil {
		return confirmErr
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("dropping public schema", "database", cmdCtx.Config.Postgres.Name)
		if resetErr := cmdCtx.resetDatabase(ctx, db); resetErr != nil {
			return resetErr
		}

		cmdCtx.Logger.Info("re-running database migrations")
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return fmt.Errorf("run migrations: %w", migrateErr)
		}

		if opts.Seed {
			cmdCtx.Logger.Info("seeding development data after reset")
			if seedErr := devseed.Run(ctx, devseed.NewServices(db), cmdCtx.Logger); seedErr != nil {
				return fmt.Errorf("seed data: %w", seedErr)
			}
		}

		cmdCtx.Logger.Info("database reset completed successfully")
		return nil
	})
}

func runDBSeed(cmdCtx *commandContext, args []string) error {
	opts, err := parseDBSeedFlags(args)
	if err != nil {
		return err
	}

	if _, guardErr := guardRemoteHost(cmdCtx, opts.AllowRemote, "seed development data on the configured database"); guardErr != nil {
		return guardErr
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("ensuring database migrations are current")
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return fmt.Errorf("run migrations: %w", migrateErr)
		}

		cmdCtx.Logger.Info("seeding development data")
		if seedErr := devseed.Run(ctx, devseed.NewServices(db), cmdCtx.Logger); seedErr != nil {
			return fmt.Errorf("seed data: %w", seedErr)
		}

		cmdCtx.Logger.Info("database seeding completed successfully")
		return nil
	})
}

func runSetRole(cmdCtx *commandContext, args []string) error {
	opts, err := parseSetRoleFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, 2*time.Minute, func(ctx context.Context, db *sql.DB) error {
		users := data.NewUserRepo(db)

		userID, label, resolveErr := resolveUser(ctx, users, opts)
		if resolveErr != nil {
			return resolveErr
		}

		current, roleErr := users.GetRole(ctx, userID)
		if roleErr != nil && !errors.Is(roleErr, ports.ErrRoleNotFound) {
			return fmt.Errorf("look up current role: %w", roleErr)
		}

		confirmOpts := setRoleConfirmOptions{
			yes:    opts.Yes,
			target: fmt.Sprintf("%s (current role %q, new role %q)", label, current, opts.Role),
		}
		if confirmErr := confirmAction(confirmOpts, "change user role"); confirmErr != nil {
			return confirmErr
		}

		if setErr := users.SetRole(ctx, userID, opts.Role); setErr != nil {
			return fmt.Errorf("set role: %w", setErr)
		}

		cmdCtx.Logger.Info("role updated", "user_id", userID, "from", string(current), "to", string(opts.Role))
		return writef(os.Stdout, "Role for %s changed from %q to %q\n", label, current, opts.Role)
	})
}

// resolveUser maps the --email/--user-id selection to a concrete user ID and
// a human-readable label for confirmation prompts.
func resolveUser(ctx context.Context, users *data.UserRepo, opts setRoleOptions) (string, string, error) {
	if opts.UserID != "" {
		return opts.UserID, fmt.Sprintf("user %q", opts.UserID), nil
	}

	cred, err := users.FindByEmail(ctx, opts.Email)
	if err != nil {
		if errors.Is(err, ports.ErrCredentialNotFound) {
			return "", "", fmt.Errorf("no account found for email %q", opts.Email)
		}
		return "", "", fmt.Errorf("look up account by email: %w", err)
	}
	return cred.UserID, fmt.Sprintf("user %q (%s)", cred.UserID, cred.Email), nil
}

func runListUsers(cmdCtx *commandContext, args []string) error {
	opts, err := parseListUsersFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, 2*time.Minute, func(ctx context.Context, db *sql.DB) error {
		rows, queryErr := queryUsers(ctx, db, opts)
		if queryErr != nil {
			return queryErr
		}
		return renderUsers(rows, opts)
	})
}

type userListRow struct {
	ID        string
	Email     string
	Name      string
	Role      string
	CreatedAt time.Time
}

func queryUsers(ctx context.Context, db *sql.DB, opts listUsersOptions) ([]userListRow, error) {
	q := `SELECT id, email, name, role, created_at FROM users`
	params := []any{}
	if opts.Role != "" {
		q += ` WHERE role = $1`
		params = append(params, opts.Role)
	}
	q += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, opts.Limit, opts.Offset)

	rows, err := db.QueryContext(ctx, q, params...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []userListRow
	for rows.Next() {
		var r userListRow
		if scanErr := rows.Scan(&r.ID, &r.Email, &r.Name, &r.Role, &r.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("scan user row: %w", scanErr)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}

func renderUsers(rows []userListRow, opts listUsersOptions) error {
	if len(rows) == 0 {
		return writeln(os.Stdout, "(no users found)")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(w, "ID\tEMAIL\tNAME\tROLE\tCREATED"); err != nil {
		return fmt.Errorf("print users header: %w", err)
	}
	for _, r := range rows {
		if err := writef(w, "%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Email, r.Name, r.Role, r.CreatedAt.Format(time.RFC3339)); err != nil {
			return fmt.Errorf("print user row: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush users table: %w", err)
	}
	return writef(os.Stdout, "\nShowing %d users (limit %d, offset %d)\n", len(rows), opts.Limit, opts.Offset)
}

func parseMigrateFlags(args []string) (migrateOptions, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := migrateOptions{
		Timeout: defaultMigrationTimeout,
	}

	fs.DurationVar(
		&opts.Timeout,
		"timeout",
		defaultMigrationTimeout,
		"Maximum duration to wait for migrations to complete",
	)

	if err := fs.Parse(args); err != nil {
		return migrateOptions{}, err
	}

	if opts.Timeout <= 0 {
		return migrateOptions{}, errors.New("--timeout must be greater than zero")
	}

	return opts, nil
}

func parseDBResetFlags(args []string) (dbResetOptions, error) {
	fs := flag.NewFlagSet("db-reset", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := dbResetOptions{
		Timeout: defaultMigrationTimeout,
	}

	fs.DurationVar(
		&opts.Timeout,
		"timeout",
		defaultMigrationTimeout,
		"Maximum duration to wait for reset operations to complete",
	)
	fs.BoolVar(
		&opts.Yes,
		"yes",
		false,
		"Skip confirmation prompt",
	)
	fs.BoolVar(
		&opts.Seed,
		"seed",
		false,
		"Run database seeding after reset completes",
	)
	fs.BoolVar(
		&opts.AllowRemote,
		"allow-remote",
		false,
		"Permit running against database hosts that do not look local",
	)

	if err := fs.Parse(args); err != nil {
		return dbResetOptions{}, err
	}

	if opts.Timeout <= 0 {
		return dbResetOptions{}, errors.New("--timeout must be greater than zero")
	}

	return opts, nil
}

func parseDBSeedFlags(args []string) (dbSeedOptions, error) {
	fs := flag.NewFlagSet("db-seed", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := dbSeedOptions{
		Timeout: defaultMigrationTimeout,
	}

	fs.DurationVar(
		&opts.Timeout,
		"timeout",
		defaultMigrationTimeout,
		"Maximum duration to wait for seeding to complete",
	)
	fs.BoolVar(
		&opts.AllowRemote,
		"allow-remote",
		false,
		"Permit running against database hosts that do not look local",
	)

	if err := fs.Parse(args); err != nil {
		return dbSeedOptions{}, err
	}

	if opts.Timeout <= 0 {
		return dbSeedOptions{}, errors.New("--timeout must be greater than zero")
	}

	return opts, nil
}

func parseSetRoleFlags(args []string) (setRoleOptions, error) {
	fs := flag.NewFlagSet("set-role", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts setRoleOptions
	var roleText string

	fs.StringVar(&opts.Email, "email", "", "Select the account by email address")
	fs.StringVar(&opts.UserID, "user-id", "", "Select the account by user ID")
	fs.StringVar(&roleText, "role", "", "New role (guest, user, staff, admin)")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return setRoleOptions{}, err
	}

	if opts.Email == "" && opts.UserID == "" {
		return setRoleOptions{}, errors.New("one of --email or --user-id is required")
	}
	if opts.Email != "" && opts.UserID != "" {
		return setRoleOptions{}, errors.New("--email and --user-id are mutually exclusive")
	}

	role := domainauth.ParseRole(roleText)
	if !role.Known() {
		return setRoleOptions{}, fmt.Errorf("--role must be one of guest, user, staff, admin; got %q", roleText)
	}
	opts.Role = role

	return opts, nil
}

func parseListUsersFlags(args []string) (listUsersOptions, error) {
	fs := flag.NewFlagSet("list-users", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := listUsersOptions{
		Limit: 50,
	}

	fs.StringVar(&opts.Role, "role", "", "Only show users with this role")
	fs.IntVar(&opts.Limit, "limit", 50, "Maximum number of users to show")
	fs.IntVar(&opts.Offset, "offset", 0, "Number of users to skip")

	if err := fs.Parse(args); err != nil {
		return listUsersOptions{}, err
	}

	if opts.Limit <= 0 {
		return listUsersOptions{}, errors.New("--limit must be greater than zero")
	}
	if opts.Offset < 0 {
		return listUsersOptions{}, errors.New("--offset must not be negative")
	}
	if opts.Role != "" && !domainauth.ParseRole(opts.Role).Known() {
		return listUsersOptions{}, fmt.Errorf("--role must be one of guest, user, staff, admin; got %q", opts.Role)
	}

	return opts, nil
}

func withDatabase(
	cmdCtx *commandContext,
	timeout time.Duration,
	f func(context.Context, *sql.DB) error,
) error {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		Postgres: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", cerr)
		}
	}()

	return f(ctx, db)
}

func guardRemoteHost(cmdCtx *commandContext, allow bool, action string) (bool, error) {
	remote := isLikelyRemoteHost(cmdCtx.Config.Postgres.Host)
	if !remote {
		return false, nil
	}
	if !allow {
		return true, fmt.Errorf(
			"refusing to run against potentially remote database host %q; re-run with --allow-remote if this is intentional",
			cmdCtx.Config.Postgres.Host,
		)
	}
	if err := requireRemoteHostConfirmation(action, cmdCtx.Config.Postgres.Host); err != nil {
		return true, err
	}
	return true, nil
}

func (cmdCtx *commandContext) resetDatabase(ctx context.Context, db *sql.DB) error {
	if cmdCtx == nil {
		return errors.New("command context is required")
	}

	cfg := &cmdCtx.Config.Postgres
	statements := []string{
		"DROP SCHEMA public CASCADE",
		"CREATE SCHEMA public",
		"GRANT ALL ON SCHEMA public TO public",
	}
	if user := strings.TrimSpace(cfg.User); user != "" && !strings.EqualFold(user, "public") {
		statements = append(statements, "GRANT ALL ON SCHEMA public TO "+quoteIdentifier(user))
	}

	for _, stmt := range statements {
		if cmdCtx.Logger != nil {
			cmdCtx.Logger.DebugContext(ctx, "executing reset statement", "sql", stmt)
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt, err)
		}
	}
	return nil
}

func quoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func isLikelyRemoteHost(host string) bool {
	h := strings.ToLower(strings.TrimSpace(host))
	if h == "" {
		return false
	}
	if h == "localhost" || h == "127.0.0.1" || h == "::1" {
		return false
	}
	if strings.HasSuffix(h, ".local") {
		return false
	}
	if ip := net.ParseIP(host); ip != nil {
		return !ip.IsLoopback()
	}
	return true
}

func requireRemoteHostConfirmation(action, host string) error {
	if err := writef(
		os.Stderr,
		"\nWARNING: database host %q does not look like a local address.\n"+
			"This operation will %s.\n",
		host,
		action,
	); err != nil {
		return fmt.Errorf("print remote host warning: %w", err)
	}
	if err := writef(os.Stderr, "Type %q to continue or press enter to abort: ", host); err != nil {
		return fmt.Errorf("print remote host prompt: %w", err)
	}
	reader := bufio.NewReader(os.Stdin)
	resp, err := reader.ReadString('\n')
	if err != nil {
		if writeErr := writef(os.Stderr, "\nFailed to read confirmation input: %v\n", err); writeErr != nil {
			return fmt.Errorf("aborted by user: report write failed: %w", writeErr)
		}
		return errors.New("aborted by user")
	}
	if strings.TrimSpace(resp) != host {
		if writeErr := writeln(os.Stderr, "\nRemote safeguard check failed; aborting."); writeErr != nil {
			return fmt.Errorf("print remote safeguard failure: %w", writeErr)
		}
		return errors.New("aborted by user")
	}
	return nil
}

type confirmOptions interface {
	IsDryRun() bool
	IsYes() bool
	GetTarget() string
	GetWarning() string
}

type dbResetConfirmOptions struct {
	yes        bool
	target     string
	remoteHost string
}

func (d dbResetConfirmOptions) IsDryRun() bool { return false }
func (d dbResetConfirmOptions) IsYes() bool {
	if d.remoteHost != "" {
		return false
	}
	return d.yes
}

func (d dbResetConfirmOptions) GetWarning() string {
	warning := "WARNING: this will drop and recreate the public schema for the configured database."
	if d.remoteHost != "" {
		warning += fmt.Sprintf(" Host %q appears to be remote; double-check before proceeding.", d.remoteHost)
	}
	return warning
}
func (d dbResetConfirmOptions) GetTarget() string { return d.target }

type setRoleConfirmOptions struct {
	yes    bool
	target string
}

func (s setRoleConfirmOptions) IsDryRun() bool     { return false }
func (s setRoleConfirmOptions) IsYes() bool        { return s.yes }
func (s setRoleConfirmOptions) GetWarning() string { return "" }
func (s setRoleConfirmOptions) GetTarget() string  { return s.target }

func confirmAction(opts confirmOptions, actionType string) error {
	if opts.IsDryRun() || opts.IsYes() {
		return nil
	}

	if err := printConfirmationIntro(opts, actionType); err != nil {
		return err
	}

	if err := write(os.Stdout, "Continue? [y/N]: "); err != nil {
		return fmt.Errorf("print confirmation prompt: %w", err)
	}
	reader := bufio.NewReader(os.Stdin)
	resp, err := reader.ReadString('\n')
	if err != nil {
		if writeErr := writef(os.Stdout, "\nFailed to read confirmation input: %v\n", err); writeErr != nil {
			return fmt.Errorf("aborted by user: report write failed: %w", writeErr)
		}
		return errors.New("aborted by user")
	}
	resp = strings.ToLower(strings.TrimSpace(resp))
	if resp == "y" || resp == "yes" {
		return nil
	}
	return errors.New("aborted by user")
}

func printConfirmationIntro(opts confirmOptions, actionType string) error {
	target := opts.GetTarget()
	if target == "" {
		if err := writeln(os.Stdout, opts.GetWarning()); err != nil {
			return fmt.Errorf("print confirmation warning: %w", err)
		}
		return nil
	}

	if err := writef(os.Stdout, "About to %s for %s.\n", actionType, target); err != nil {
		return fmt.Errorf("print confirmation message: %w", err)
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func write(w io.Writer, args ...any) error {
	_, err := fmt.Fprint(w, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	if len(args) == 0 {
		_, err := fmt.Fprintln(w)
		return err
	}
	_, err := fmt.Fprintln(w, args...)
	return err
}
