package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/spec-kit/employee-service/internal/domain"
)

// Credentials is the minimal state persisted across restarts: the bearer
// token and an identity summary. It is re-validated on every startup before
// being trusted.
type Credentials struct {
	Token    string          `json:"token"`
	Identity domain.Identity `json:"identity"`
}

// TokenStore persists credentials between runs, the way a browser client
// would use local storage.
type TokenStore interface {
	Save(creds Credentials) error
	Load() (Credentials, bool, error)
	Clear() error
}

type fileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore persists credentials as JSON at path. Parent directories are
// created on first save.
func NewFileStore(path string) TokenStore {
	return &fileStore{path: path}
}

func (s *fileStore) Save(creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *fileStore) Load() (Credentials, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Credentials{}, false, nil
		}
		return Credentials{}, false, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		// corrupt stored state is treated as absent
		return Credentials{}, false, nil
	}
	if creds.Token == "" {
		return Credentials{}, false, nil
	}
	return creds, true, nil
}

func (s *fileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

type memStore struct {
	mu    sync.Mutex
	creds Credentials
	set   bool
}

// NewMemoryStore keeps credentials in memory only. Used in tests and when no
// persistence location is configured.
func NewMemoryStore() TokenStore {
	return &memStore{}
}

func (s *memStore) Save(creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
	s.set = true
	return nil
}

func (s *memStore) Load() (Credentials, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds, s.set, nil
}

func (s *memStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = Credentials{}
	s.set = false
	return nil
}
