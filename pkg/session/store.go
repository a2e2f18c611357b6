// Package session persists browser credential artifacts (cookies) per
// platform so an authenticated session survives process restarts.
// Absence and corruption both degrade to "no session"; interactive login
// is the recovery path, never a crash.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chatpilot/chatpilot/pkg/browser"
)

// Store reads and writes per-platform cookie files under a base
// directory.
type Store struct {
	dir string
}

// NewStore creates the session directory if needed and returns a store
// rooted there.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Path returns the cookie file path for a platform.
func (s *Store) Path(platformName string) string {
	safe := strings.ToLower(platformName)
	safe = strings.ReplaceAll(safe, " ", "_")
	safe = strings.ReplaceAll(safe, "/", "_")
	return filepath.Join(s.dir, safe+"_cookies.json")
}

// Exists reports whether a saved session exists for the platform.
func (s *Store) Exists(platformName string) bool {
	_, err := os.Stat(s.Path(platformName))
	return err == nil
}

// Save writes the cookies for a platform. An empty cookie set is not
// worth persisting and is skipped.
func (s *Store) Save(platformName string, cookies []browser.Cookie) error {
	if len(cookies) == 0 {
		return nil
	}

	raw, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := os.WriteFile(s.Path(platformName), raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Load returns the saved cookies for a platform. A missing, empty, or
// corrupt file yields (nil, false) rather than an error.
func (s *Store) Load(platformName string) ([]browser.Cookie, bool) {
	raw, err := os.ReadFile(s.Path(platformName))
	if err != nil {
		return nil, false
	}

	var cookies []browser.Cookie
	if err := json.Unmarshal(raw, &cookies); err != nil {
		return nil, false
	}
	if len(cookies) == 0 {
		return nil, false
	}
	return cookies, true
}

// Delete removes the saved session for a platform. Deleting a session
// that does not exist is a no-op.
func (s *Store) Delete(platformName string) error {
	err := os.Remove(s.Path(platformName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
