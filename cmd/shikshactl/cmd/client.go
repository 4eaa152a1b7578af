package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/shikshadesk/shikshactl/internal/api"
	"github.com/shikshadesk/shikshactl/internal/config"
	"github.com/shikshadesk/shikshactl/internal/session"
)

// newClient loads configuration and builds the API client used by every
// command. The stored session is loaded synchronously here; whether the
// tokens are still accepted is only discovered on the first request.
func newClient() (*api.Client, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))

	// Resolve session file path: CLI flag > config > default.
	sessionPath := sessionFilePath
	if sessionPath == "" {
		sessionPath = cfg.SessionFile
	}
	if sessionPath == "" {
		sessionPath, err = session.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	opts := []api.Option{
		api.WithBaseURL(cfg.API.BaseURL),
		api.WithTimeout(cfg.RequestTimeout()),
		api.WithLogger(logger),
		api.WithStore(session.NewFileStore(sessionPath, logger)),
		api.WithOnAuthExpired(func() {
			fmt.Fprintln(os.Stderr, "Session expired. Run 'shikshactl login' to sign in again.")
		}),
	}
	if ttl := cfg.CacheTTL(); ttl > 0 {
		opts = append(opts, api.WithCacheTTL(ttl))
	}

	return api.NewClient(opts...)
}

// newAuthenticatedClient builds the client and fails fast when no session
// is stored, so commands error before any network call.
func newAuthenticatedClient() (*api.Client, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	if !client.Authenticated() {
		return nil, fmt.Errorf("not signed in — run 'shikshactl login' first")
	}
	return client, nil
}

// parseLogLevel converts a string log level to slog.Level.
// Returns slog.LevelInfo for unrecognized values.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
