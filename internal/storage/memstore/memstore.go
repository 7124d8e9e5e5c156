// Package memstore is the in-memory reference Storage implementation,
// used for tests and embedded deployments.
package memstore

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/antbox/antbox/internal/result"
	"github.com/antbox/antbox/internal/storage"
)

// Store is an in-memory Storage.
type Store struct {
	mu   sync.RWMutex
	blob map[string][]byte
}

// New returns an empty Store.
func New() *Store {
	return &Store{blob: map[string][]byte{}}
}

var _ storage.Storage = (*Store)(nil)

func (s *Store) Write(_ context.Context, uuid string, file io.Reader, _ storage.WriteOpts) *result.Error {
	data, err := io.ReadAll(file)
	if err != nil {
		return result.Wrap(result.CodeUnknownError, "read upload body failed", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blob[uuid] = data
	return nil
}

func (s *Store) Read(_ context.Context, uuid string) (io.ReadCloser, *result.Error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blob[uuid]
	if !ok {
		return nil, result.FileNotFound("blob not found: " + uuid)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *Store) Delete(_ context.Context, uuid string) *result.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blob[uuid]; !ok {
		return result.FileNotFound("blob not found: " + uuid)
	}
	delete(s.blob, uuid)
	return nil
}
