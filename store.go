package session

import (
	"encoding/json"
	"sync"
)

// Snapshot is the persisted session: the token pair plus the serialized user
// record. The three values travel together; a store never persists a subset.
type Snapshot struct {
	AccessToken  string          `json:"token"`
	RefreshToken string          `json:"refreshToken"`
	User         json.RawMessage `json:"user,omitempty"`
}

// IsZero reports whether the snapshot holds no credentials.
func (s Snapshot) IsZero() bool {
	return s.AccessToken == "" && s.RefreshToken == "" && len(s.User) == 0
}

// Store persists the session snapshot across restarts. Save and Clear operate
// on the whole snapshot so partial writes cannot happen at the API level.
// Load returns ErrNoSession when nothing usable is stored; corrupt data reads
// as absent, it never propagates a decode failure.
type Store interface {
	Save(snapshot Snapshot) error
	Load() (Snapshot, error)
	Clear() error
}

// MemoryStore is the default in-process Store. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	snapshot Snapshot
	present  bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(snapshot Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = snapshot
	m.present = true
	return nil
}

func (m *MemoryStore) Load() (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.present || m.snapshot.IsZero() {
		return Snapshot{}, ErrNoSession
	}
	return m.snapshot, nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = Snapshot{}
	m.present = false
	return nil
}
