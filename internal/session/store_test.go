package session

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "session.json"), testLogger())
}

// ---------------------------------------------------------------------------
// Load tests
// ---------------------------------------------------------------------------

func TestLoad_NoFile_ReturnsEmpty(t *testing.T) {
	s := testStore(t)
	sess := s.Load()
	if sess == nil {
		t.Fatal("Load must never return nil")
	}
	if sess.Valid() {
		t.Error("expected empty session for missing file")
	}
}

func TestLoad_CorruptFile_ReturnsEmpty(t *testing.T) {
	s := testStore(t)
	if err := os.WriteFile(s.Path(), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if s.Load().Valid() {
		t.Error("expected corrupt file to load as signed out")
	}
}

func TestLoad_PartialDocument_ReturnsEmpty(t *testing.T) {
	// A document with some fields present must re-validate as empty.
	partials := []map[string]any{
		{"access_token": "a"},
		{"access_token": "a", "refresh_token": "r"},
		{
			"access_token": "a", "refresh_token": "r",
			"auth_user": map[string]any{"id": 1, "email": "x@y.org", "role": "admin"},
		},
		{
			"access_token": "a", "refresh_token": "r",
			"auth_user":    map[string]any{"id": 1, "email": "x@y.org", "role": "ops"},
			"auth_profile": map[string]any{"id": 1, "email": "x@y.org", "full_name": "X"},
			"auth_role":    "ops", // unknown role fails closed
		},
	}
	for i, doc := range partials {
		s := testStore(t)
		data, err := json.Marshal(doc)
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(s.Path(), data, 0600); err != nil {
			t.Fatal(err)
		}
		if s.Load().Valid() {
			t.Errorf("partial document %d loaded as valid", i)
		}
	}
}

// ---------------------------------------------------------------------------
// Save / Clear tests
// ---------------------------------------------------------------------------

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := testStore(t)
	in := validSession()
	if err := s.Save(in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	out := s.Load()
	if !out.Valid() {
		t.Fatal("expected saved session to load as valid")
	}
	if out.AccessToken != in.AccessToken {
		t.Errorf("AccessToken = %q, want %q", out.AccessToken, in.AccessToken)
	}
	if out.RefreshToken != in.RefreshToken {
		t.Errorf("RefreshToken = %q, want %q", out.RefreshToken, in.RefreshToken)
	}
	if out.User.Email != in.User.Email {
		t.Errorf("User.Email = %q, want %q", out.User.Email, in.User.Email)
	}
	if out.Profile.FullName != in.Profile.FullName {
		t.Errorf("Profile.FullName = %q, want %q", out.Profile.FullName, in.Profile.FullName)
	}
	if out.Role() != RoleAdmin {
		t.Errorf("Role = %q, want admin", out.Role())
	}
	if out.SavedAt.IsZero() {
		t.Error("expected SavedAt to be set")
	}
}

func TestSave_RejectsPartialSession(t *testing.T) {
	s := testStore(t)
	sess := validSession()
	sess.RefreshToken = ""
	if err := s.Save(sess); err == nil {
		t.Error("expected Save to reject a partial session")
	}
	if s.Exists() {
		t.Error("rejected save must not create a file")
	}
}

func TestSave_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	s := testStore(t)
	if err := s.Save(validSession()); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("expected 0600 permissions, got %04o", mode)
	}
}

func TestSave_NoTempFileLeftBehind(t *testing.T) {
	s := testStore(t)
	if err := s.Save(validSession()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(s.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after save")
	}
}

func TestClear_RemovesSession(t *testing.T) {
	s := testStore(t)
	if err := s.Save(validSession()); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if s.Exists() {
		t.Error("expected session file removed")
	}
	if s.Load().Valid() {
		t.Error("expected Load to be empty after Clear")
	}
}

func TestClear_WhenAlreadyEmpty(t *testing.T) {
	s := testStore(t)
	if err := s.Clear(); err != nil {
		t.Errorf("Clear on empty store should not fail: %v", err)
	}
}

func TestSave_ConcurrentWritersYieldConsistentFile(t *testing.T) {
	s := testStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			sess := validSession()
			sess.AccessToken = "access-" + string(rune('a'+n))
			sess.RefreshToken = "refresh-" + string(rune('a'+n))
			if err := s.Save(sess); err != nil {
				t.Errorf("concurrent save failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	// Last-write-wins; whichever pair landed, the document is complete.
	out := s.Load()
	if !out.Valid() {
		t.Fatal("expected a self-consistent session after concurrent saves")
	}
}
