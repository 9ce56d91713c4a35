package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists the snapshot as a JSON file, the closest server-side
// analog to the browser's local storage. Writes go through a temp file and
// rename so the three values land atomically or not at all.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Save(snapshot Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), f.path)
}

func (f *FileStore) Load() (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		return Snapshot{}, ErrNoSession
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		// Corrupt file forces re-authentication.
		return Snapshot{}, ErrNoSession
	}

	if snapshot.IsZero() {
		return Snapshot{}, ErrNoSession
	}

	return snapshot, nil
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
