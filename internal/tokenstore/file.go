package tokenstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultPath is the token store location when GMAIL_TOKEN_STORE_PATH
// is not set.
const DefaultPath = ".gmail_tokens.json"

// PathFromEnv returns the configured token store path, falling back to
// DefaultPath.
func PathFromEnv() string {
	if path := os.Getenv("GMAIL_TOKEN_STORE_PATH"); path != "" {
		return path
	}
	return DefaultPath
}

// FileStore keeps refresh tokens in a single JSON file mapping subject to
// token. The file is re-read on every operation so an operator can edit or
// replace it without restarting the server. A missing or corrupt file is
// treated as an empty store rather than an error; the next Put rewrites it.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the given file path. The file is
// created lazily on first Put.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the refresh token stored for the subject.
func (s *FileStore) Get(subject string) (string, bool, error) {
	if subject == "" {
		return "", false, ErrEmptySubject
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tokens := s.load()
	token, ok := tokens[subject]
	return token, ok, nil
}

// Put stores or replaces the refresh token for the subject. The write is
// atomic: the store is written to a temp file in the same directory and
// renamed into place, so a crash mid-write cannot corrupt existing tokens.
func (s *FileStore) Put(subject, token string) error {
	if subject == "" {
		return ErrEmptySubject
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tokens := s.load()
	tokens[subject] = token

	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create token store directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp token store: %w", err)
	}
	tmpPath := tmp.Name()

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set token store permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write token store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close token store: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace token store: %w", err)
	}

	return nil
}

// load reads the current token map. Callers must hold the mutex.
func (s *FileStore) load() map[string]string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return map[string]string{}
	}

	var tokens map[string]string
	if err := json.Unmarshal(data, &tokens); err != nil || tokens == nil {
		return map[string]string{}
	}

	return tokens
}
