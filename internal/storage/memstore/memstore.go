// Package memstore is the in-memory structure repository, used by tests and
// by servers running with persistence disabled.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Klee319/MCBuilding-sub001/internal/storage"
)

type Store struct {
	mu   sync.RWMutex
	byID map[string]storage.Record
}

func New() *Store {
	return &Store{byID: make(map[string]storage.Record)}
}

func (s *Store) Put(_ context.Context, rec storage.Record) error {
	if rec.ID == "" {
		return fmt.Errorf("memstore: empty record id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[rec.ID] = rec
	return nil
}

func (s *Store) Get(_ context.Context, id string) (storage.Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[id]
	return rec, ok, nil
}

func (s *Store) BySha256(_ context.Context, sha string) (storage.Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.byID {
		if rec.Sha256 == sha {
			return rec, true, nil
		}
	}
	return storage.Record{}, false, nil
}

func (s *Store) List(_ context.Context) ([]storage.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]storage.Record, 0, len(s.byID))
	for _, rec := range s.byID {
		rec.Payload = nil
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) Close() error { return nil }
