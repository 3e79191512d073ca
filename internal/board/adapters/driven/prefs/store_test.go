package prefs

import (
	"path/filepath"
	"testing"

	"ride-admin/internal/board/core/ports"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreDefaults(t *testing.T) {
	s := openStore(t)

	p, err := s.Preferences()
	if err != nil {
		t.Fatal(err)
	}
	if p.Theme != "light" || p.SidebarCollapsed {
		t.Errorf("defaults = %+v", p)
	}

	token, err := s.CachedToken()
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		t.Errorf("token = %q, want empty", token)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	s := openStore(t)

	want := ports.Preferences{Theme: "dark", SidebarCollapsed: true}
	if err := s.SavePreferences(want); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveToken("tok-1"); err != nil {
		t.Fatal(err)
	}

	got, err := s.Preferences()
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}

	token, err := s.CachedToken()
	if err != nil {
		t.Fatal(err)
	}
	if token != "tok-1" {
		t.Errorf("token = %q", token)
	}
}

func TestStoreOverwrite(t *testing.T) {
	s := openStore(t)

	if err := s.SaveToken("old"); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveToken("new"); err != nil {
		t.Fatal(err)
	}

	token, err := s.CachedToken()
	if err != nil {
		t.Fatal(err)
	}
	if token != "new" {
		t.Errorf("token = %q, want new", token)
	}
}
