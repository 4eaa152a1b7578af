package cmd

import (
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestCommands_Registered(t *testing.T) {
	want := []string{
		"login", "logout", "whoami", "version",
		"students", "teachers", "clusters", "programs",
		"attendance", "donors", "dashboard",
	}
	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("%s command not registered with rootCmd", name)
		}
	}
}

func TestStudentsList_FlagDefaults(t *testing.T) {
	page, err := studentsListCmd.Flags().GetInt("page")
	if err != nil {
		t.Fatalf("failed to get page flag: %v", err)
	}
	if page != 0 {
		t.Errorf("page default = %d, want 0", page)
	}

	search, err := studentsListCmd.Flags().GetString("search")
	if err != nil {
		t.Fatalf("failed to get search flag: %v", err)
	}
	if search != "" {
		t.Errorf("search default = %q, want empty", search)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"garbage", slog.LevelInfo},
	}
	for _, tc := range tests {
		if got := parseLogLevel(tc.in); got != tc.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin@ngo.org",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}

	got := tokenExpiry(signed)
	want := exp.Format(time.RFC3339)
	if got != want {
		t.Errorf("tokenExpiry = %q, want %q", got, want)
	}
}

func TestTokenExpiry_OpaqueToken(t *testing.T) {
	if got := tokenExpiry("not-a-jwt"); got != "" {
		t.Errorf("tokenExpiry(opaque) = %q, want empty", got)
	}
}

func TestTokenExpiry_NoExpClaim(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin@ngo.org",
	})
	signed, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	if got := tokenExpiry(signed); got != "" {
		t.Errorf("tokenExpiry(no exp) = %q, want empty", got)
	}
}
