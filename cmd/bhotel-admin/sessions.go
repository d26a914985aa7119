package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/bhotel/bhotel-ui-api/internal/domain/auth"
)

// sessionKeyPattern matches the keys written by the Redis session store.
const sessionKeyPattern = "session:*"

type listSessionsOptions struct {
	UserID string
	Limit  int
}

type clearSessionsOptions struct {
	UserID string
	All    bool
	DryRun bool
	Yes    bool
}

func runListSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseListSessionsFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 2*time.Minute)
	defer cancel()

	redisClient, err := connectSessionRedis(cmdCtx)
	if err != nil {
		return err
	}
	if redisClient == nil {
		return nil
	}
	defer func() {
		if closeErr := redisClient.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()

	entries, total, err := collectSessions(&sessionScanRequest{
		Ctx:    ctx,
		Client: redisClient,
		Logger: cmdCtx.Logger,
		UserID: opts.UserID,
		Limit:  opts.Limit,
	})
	if err != nil {
		return err
	}

	return renderSessions(entries, total)
}

func runClearSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseClearSessionsFlags(args)
	if err != nil {
		return err
	}
	if confirmErr := confirmAction(clearSessionsConfirmOptions{opts}, "delete session records"); confirmErr != nil {
		return confirmErr
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 2*time.Minute)
	defer cancel()

	redisClient, err := connectSessionRedis(cmdCtx)
	if err != nil {
		return err
	}
	if redisClient == nil {
		return nil
	}
	defer func() {
		if closeErr := redisClient.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()

	stats, err := deleteSessions(&sessionDeleteRequest{
		Ctx:      ctx,
		Client:   redisClient,
		Logger:   cmdCtx.Logger,
		Options:  opts,
		BatchCap: 1000,
	})
	if err != nil {
		return err
	}

	if stats.total == 0 {
		if writeErr := writeln(os.Stdout, "No session records found in Redis"); writeErr != nil {
			return fmt.Errorf("print sessions summary: %w", writeErr)
		}
		return nil
	}

	if opts.DryRun {
		if writeErr := writef(os.Stdout, "Dry-run: would delete %d/%d sessions\n", stats.matched, stats.total); writeErr != nil {
			return fmt.Errorf("print sessions dry run: %w", writeErr)
		}
		return nil
	}

	if writeErr := writef(os.Stdout, "Deleted %d/%d sessions\n", stats.deleted, stats.total); writeErr != nil {
		return fmt.Errorf("print sessions deleted: %w", writeErr)
	}
	if stats.failures > 0 {
		if writeErr := writef(os.Stdout, "Failed batches: %d\n", stats.failures); writeErr != nil {
			return fmt.Errorf("print sessions failures: %w", writeErr)
		}
	}
	return nil
}

// connectSessionRedis returns a connected client, or nil (with a notice)
// when Redis is not reachable or not configured.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func connectSessionRedis(cmdCtx *commandContext) (redis.UniversalClient, error) {
	_, redisClient, err := connectInfraWithOptions(&connectInfraOptions{
		Logger:    cmdCtx.Logger,
		Config:    &cmdCtx.Config,
		WantDB:    false,
		WantRedis: true,
	})
	if err != nil {
		return nil, err
	}
	if redisClient == nil {
		if writeErr := writeln(os.Stderr, "Redis client is not available"); writeErr != nil {
			return nil, fmt.Errorf("print redis availability: %w", writeErr)
		}
		return nil, nil
	}
	return redisClient, nil
}

type sessionEntry struct {
	Key       string
	UserID    string
	Email     string
	Role      string
	ExpiresAt time.Time
	TTL       time.Duration
}

type sessionScanRequest struct {
	Ctx    context.Context
	Client redis.UniversalClient
	Logger *slog.Logger
	UserID string
	Limit  int
}

func collectSessions(req *sessionScanRequest) ([]sessionEntry, int, error) {
	iter := req.Client.Scan(req.Ctx, 0, sessionKeyPattern, 100).Iterator()

	var entries []sessionEntry
	total := 0
	for iter.Next(req.Ctx) {
		key := iter.Val()
		total++

		entry, ok := loadSessionEntry(req, key)
		if !ok {
			continue
		}
		if req.UserID != "" && entry.UserID != req.UserID {
			continue
		}
		if len(entries) < req.Limit {
			entries = append(entries, entry)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, 0, fmt.Errorf("redis scan: %w", err)
	}
	return entries, total, nil
}

// loadSessionEntry reads and decodes one session record. Records that
// vanished between scan and read, or that fail to decode, are skipped with
// a log line rather than aborting the listing.
func loadSessionEntry(req *sessionScanRequest, key string) (sessionEntry, bool) {
	raw, err := req.Client.Get(req.Ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && req.Logger != nil {
			req.Logger.WarnContext(req.Ctx, "failed to read session record", "key", key, "error", err)
		}
		return sessionEntry{}, false
	}

	var sess domainauth.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		if req.Logger != nil {
			req.Logger.WarnContext(req.Ctx, "failed to decode session record", "key", key, "error", err)
		}
		return sessionEntry{}, false
	}

	ttl, err := req.Client.TTL(req.Ctx, key).Result()
	if err != nil {
		ttl = 0
	}

	return sessionEntry{
		Key:       key,
		UserID:    sess.UserID,
		Email:     sess.Email,
		Role:      string(sess.Role),
		ExpiresAt: sess.ExpiresAt,
		TTL:       ttl,
	}, true
}

func renderSessions(entries []sessionEntry, total int) error {
	if total == 0 {
		return writeln(os.Stdout, "(no active sessions)")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(w, "KEY\tUSER\tEMAIL\tROLE\tTTL"); err != nil {
		return fmt.Errorf("print sessions header: %w", err)
	}
	for _, e := range entries {
		if err := writef(w, "%s\t%s\t%s\t%s\t%s\n",
			e.Key, e.UserID, e.Email, e.Role, renderTTL(e.TTL)); err != nil {
			return fmt.Errorf("print session row: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush sessions table: %w", err)
	}
	return writef(os.Stdout, "\nShowing %d of %d sessions\n", len(entries), total)
}

func renderTTL(d time.Duration) string {
	switch {
	case d == -1*time.Second:
		return "no expiry"
	case d == -2*time.Second:
		return "key missing"
	default:
		return d.String()
	}
}

type sessionDeleteStats struct {
	total    int
	matched  int
	deleted  int
	failures int
}

type sessionDeleteRequest struct {
	Ctx      context.Context
	Client   redis.UniversalClient
	Logger   *slog.Logger
	Options  clearSessionsOptions
	BatchCap int
}

func deleteSessions(req *sessionDeleteRequest) (sessionDeleteStats, error) {
	iter := req.Client.Scan(req.Ctx, 0, sessionKeyPattern, 100).Iterator()

	var stats sessionDeleteStats
	batch := make([]string, 0, req.BatchCap)

	flush := func() {
		if len(batch) == 0 || req.Options.DryRun {
			batch = batch[:0]
			return
		}
		deleted, err := req.Client.Del(req.Ctx, batch...).Result()
		if err != nil {
			stats.failures++
			if req.Logger != nil {
				req.Logger.ErrorContext(req.Ctx, "session delete batch failed", "keys", len(batch), "error", err)
			}
		} else {
			stats.deleted += int(deleted)
		}
		batch = batch[:0]
	}

	for iter.Next(req.Ctx) {
		key := iter.Val()
		stats.total++

		if !sessionMatchesFilter(req, key) {
			continue
		}
		stats.matched++
		batch = append(batch, key)
		if len(batch) >= req.BatchCap {
			flush()
		}
	}
	if err := iter.Err(); err != nil {
		return stats, fmt.Errorf("redis scan: %w", err)
	}
	flush()

	return stats, nil
}

func sessionMatchesFilter(req *sessionDeleteRequest, key string) bool {
	if req.Options.All {
		return true
	}

	raw, err := req.Client.Get(req.Ctx, key).Result()
	if err != nil {
		return false
	}
	var sess domainauth.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return false
	}
	return sess.UserID == req.Options.UserID
}

type clearSessionsConfirmOptions struct {
	opts clearSessionsOptions
}

func (c clearSessionsConfirmOptions) IsDryRun() bool { return c.opts.DryRun }
func (c clearSessionsConfirmOptions) IsYes() bool    { return c.opts.Yes }
func (c clearSessionsConfirmOptions) GetWarning() string {
	return "WARNING: this will delete every session record, signing all users out."
}

func (c clearSessionsConfirmOptions) GetTarget() string {
	if c.opts.All {
		return ""
	}
	return fmt.Sprintf("user %q", c.opts.UserID)
}

func parseListSessionsFlags(args []string) (listSessionsOptions, error) {
	fs := flag.NewFlagSet("list-sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := listSessionsOptions{
		Limit: 50,
	}

	fs.StringVar(&opts.UserID, "user-id", "", "Only show sessions for this user ID")
	fs.IntVar(&opts.Limit, "limit", 50, "Maximum number of sessions to show")

	if err := fs.Parse(args); err != nil {
		return listSessionsOptions{}, err
	}

	if opts.Limit <= 0 {
		return listSessionsOptions{}, errors.New("--limit must be greater than zero")
	}

	return opts, nil
}

func parseClearSessionsFlags(args []string) (clearSessionsOptions, error) {
	fs := flag.NewFlagSet("clear-sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts clearSessionsOptions

	fs.StringVar(&opts.UserID, "user-id", "", "Only delete sessions for this user ID")
	fs.BoolVar(&opts.All, "all", false, "Delete every session record")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Report what would be deleted without deleting")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return clearSessionsOptions{}, err
	}

	if opts.UserID == "" && !opts.All {
		return clearSessionsOptions{}, errors.New("one of --user-id or --all is required")
	}
	if opts.UserID != "" && opts.All {
		return clearSessionsOptions{}, errors.New("--user-id and --all are mutually exclusive")
	}

	return opts, nil
}
