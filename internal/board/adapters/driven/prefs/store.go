package prefs

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"ride-admin/internal/board/core/ports"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS prefs (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

const (
	keyTheme   = "theme"
	keySidebar = "sidebar_collapsed"
	keyToken   = "auth_token"
)

const defaultTheme = "light"

// Store persists the board's only owned state in a local sqlite file: UI
// preferences and the cached auth token. Implements ports.IPrefsRepo.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening prefs db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating prefs schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Preferences() (ports.Preferences, error) {
	p := ports.Preferences{Theme: defaultTheme}

	theme, err := s.get(keyTheme)
	if err != nil {
		return p, err
	}
	if theme != "" {
		p.Theme = theme
	}

	sidebar, err := s.get(keySidebar)
	if err != nil {
		return p, err
	}
	p.SidebarCollapsed, _ = strconv.ParseBool(sidebar)

	return p, nil
}

func (s *Store) SavePreferences(p ports.Preferences) error {
	if err := s.set(keyTheme, p.Theme); err != nil {
		return err
	}
	return s.set(keySidebar, strconv.FormatBool(p.SidebarCollapsed))
}

func (s *Store) CachedToken() (string, error) {
	return s.get(keyToken)
}

func (s *Store) SaveToken(token string) error {
	return s.set(keyToken, token)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM prefs WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading pref %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO prefs (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("writing pref %s: %w", key, err)
	}
	return nil
}
