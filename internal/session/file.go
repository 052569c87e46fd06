package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps the session blob in a JSON file readable only by its owner.
type FileStore struct {
	Listeners
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Path() string { return f.path }

// Session reads the file on every call so an import from another process is
// picked up; a missing or corrupt file reads as absent.
func (f *FileStore) Session() (Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := os.ReadFile(f.path)
	if err != nil {
		return Session{}, false
	}
	return Decode(data)
}

func (f *FileStore) Save(s Session) error {
	data, err := Encode(s)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	data = append(data, '\n')

	f.mu.Lock()
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		f.mu.Unlock()
		return fmt.Errorf("creating session directory %s: %w", dir, err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		f.mu.Unlock()
		return fmt.Errorf("writing session file %s: %w", f.path, err)
	}
	f.mu.Unlock()

	f.Notify(s, true)
	return nil
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	err := os.Remove(f.path)
	f.mu.Unlock()
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file %s: %w", f.path, err)
	}
	f.Notify(Session{}, false)
	return nil
}
