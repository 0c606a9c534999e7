package store

import (
	"context"
	"sync"
)

type memoryEntry struct {
	doc      []byte
	revision int64
}

// MemoryStore keeps documents in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]memoryEntry

	// dirty records written keys; only set on transaction stores.
	dirty map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Document, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.docs[key]
	if !ok {
		return nil, 0, ErrNotFound
	}
	return append(Document(nil), entry.doc...), entry.revision, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(key, doc)
	return nil
}

func (s *MemoryStore) SetIfRevision(_ context.Context, key string, doc Document, revision int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.docs[key].revision != revision {
		return ErrConflict
	}
	s.put(key, doc)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, key)
	s.markDirty(key)
	return nil
}

// Transaction runs fn against a copy of the documents and publishes the
// changed keys only if none of them was modified concurrently.
func (s *MemoryStore) Transaction(_ context.Context, fn func(tx Store) error) error {
	s.mu.RLock()
	snapshot := cloneEntries(s.docs)
	s.mu.RUnlock()

	tx := &MemoryStore{
		docs:  cloneEntries(snapshot),
		dirty: make(map[string]struct{}),
	}
	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range tx.dirty {
		if s.docs[key].revision != snapshot[key].revision {
			return ErrConflict
		}
	}
	for key := range tx.dirty {
		if entry, ok := tx.docs[key]; ok {
			s.docs[key] = entry
		} else {
			delete(s.docs, key)
		}
		s.markDirty(key)
	}
	return nil
}

// put must be called with mu held.
func (s *MemoryStore) put(key string, doc Document) {
	s.docs[key] = memoryEntry{
		doc:      append([]byte(nil), doc...),
		revision: s.docs[key].revision + 1,
	}
	s.markDirty(key)
}

func (s *MemoryStore) markDirty(key string) {
	if s.dirty != nil {
		s.dirty[key] = struct{}{}
	}
}

func cloneEntries(src map[string]memoryEntry) map[string]memoryEntry {
	dst := make(map[string]memoryEntry, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
