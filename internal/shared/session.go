package shared

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSessionStore persists the CLI's backend session token under the
// user's home directory (~/.vkdrive/session). It is the local session
// marker that gets cleared when the backend answers 401.
type FileSessionStore struct {
	path string
}

// NewFileSessionStore creates a store rooted at dir, or ~/.vkdrive when
// dir is empty.
func NewFileSessionStore(dir string) (*FileSessionStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".vkdrive")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	return &FileSessionStore{path: filepath.Join(dir, "session")}, nil
}

// Token returns the stored session token, or ErrNotAuthenticated when no
// session has been saved.
func (s *FileSessionStore) Token() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", ErrNotAuthenticated
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNotAuthenticated
	}
	return token, nil
}

// Save writes the session token with owner-only permissions.
func (s *FileSessionStore) Save(token string) error {
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Clear removes the stored session token. Missing files are not an error.
func (s *FileSessionStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
