package kvstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/pfetrack/core"
)

// FileStore is the durable single-host KVStore: one JSON object file
// mapping logical keys to their raw encoded values. Writes replace the
// whole file atomically (tmp + rename).
//
// There is no inter-process locking: two processes sharing a state file
// can lose whole-collection updates (last-write-wins per key space). This
// mirrors the portal's original storage semantics and is accepted behavior,
// not a bug to lock away.
type FileStore struct {
	mu   sync.RWMutex
	path string
	data map[string]string
}

var _ core.KVStore = (*FileStore)(nil)

func OpenFile(path string) (*FileStore, error) {
	s := &FileStore{
		path: path,
		data: make(map[string]string),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, core.NewStorageUnavailableError("open", err)
	}
	if err = json.Unmarshal(raw, &s.data); err != nil {
		return nil, core.NewStorageUnavailableError("open", errors.Wrap(err, "unreadable state file"))
	}
	return s, nil
}

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snapshot()
	next[key] = value
	if err := s.persist(next); err != nil {
		return core.NewStorageUnavailableError("set", err)
	}
	s.data = next
	return nil
}

func (s *FileStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snapshot()
	delete(next, key)
	if err := s.persist(next); err != nil {
		return core.NewStorageUnavailableError("remove", err)
	}
	s.data = next
	return nil
}

func (s *FileStore) snapshot() map[string]string {
	next := make(map[string]string, len(s.data)+1)
	for k, v := range s.data {
		next[k] = v
	}
	return next
}

// persist writes the full key space; the in-memory map is only swapped in
// once the file is durably in place.
func (s *FileStore) persist(data map[string]string) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
