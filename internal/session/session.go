// Package session persists the logged-in user's identity between runs.
// The pair is stored in ~/.config/brandloom/session.toml.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Session identifies the logged-in user.
type Session struct {
	Username string `toml:"username"`
	UserID   string `toml:"user_id"`
}

// Valid reports whether both halves of the pair are present. A session
// missing either one is treated as no session at all.
func (s Session) Valid() bool {
	return strings.TrimSpace(s.Username) != "" && strings.TrimSpace(s.UserID) != ""
}

const defaultSessionPath = "~/.config/brandloom/session.toml"

// DefaultPath returns the default session file path.
func DefaultPath() string {
	return defaultSessionPath
}

// Store reads and writes the session file.
type Store struct {
	Path string
}

// NewStore returns a Store for path; an empty path uses DefaultPath.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load returns the stored session. A missing file yields an empty session
// and no error; an unreadable or malformed file yields an empty session
// and the error.
func (s *Store) Load() (Session, error) {
	resolved, err := resolvePath(s.Path)
	if err != nil {
		return Session{}, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, nil
		}
		return Session{}, fmt.Errorf("read session: %w", err)
	}

	var sess Session
	if err := toml.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("parse session %s: %w", resolved, err)
	}
	sess.Username = strings.TrimSpace(sess.Username)
	sess.UserID = strings.TrimSpace(sess.UserID)
	if !sess.Valid() {
		return Session{}, nil
	}
	return sess, nil
}

// Save writes the session, creating directories as needed.
func (s *Store) Save(sess Session) error {
	if !sess.Valid() {
		return fmt.Errorf("save session: username and user id are required")
	}
	resolved, err := resolvePath(s.Path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	data, err := toml.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := os.WriteFile(resolved, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear removes the session file. Clearing an absent session is not an error.
func (s *Store) Clear() error {
	resolved, err := resolvePath(s.Path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.Remove(resolved); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultSessionPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
