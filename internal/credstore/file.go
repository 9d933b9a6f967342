// Package credstore persists the logged-in session record between runs.
// It is the client-side analog of the single localStorage key a browser
// client would use: one JSON record, written on login, removed on logout.
package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/xRiceFarmer/bloglist-client/internal/domain"
)

// FileStore keeps the session record in a single JSON file with 0600
// permissions. Writes go through a temp file and rename so a crash
// mid-write never leaves a truncated record.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the persisted session. A missing file is (zero, false, nil);
// unreadable or malformed content is returned as an error so the caller
// can decide to swallow it.
func (s *FileStore) Load() (domain.Session, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Session{}, false, nil
	}
	if err != nil {
		return domain.Session{}, false, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return domain.Session{}, false, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	if session.Token == "" || session.Username == "" {
		return domain.Session{}, false, fmt.Errorf("credentials file is missing token or username")
	}

	return session, true, nil
}

func (s *FileStore) Save(session domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "session-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp credentials file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to set credentials permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp credentials file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace credentials file: %w", err)
	}
	return nil
}

// Clear removes the persisted record. Removing an absent file is not an error.
func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove credentials file: %w", err)
	}
	return nil
}
