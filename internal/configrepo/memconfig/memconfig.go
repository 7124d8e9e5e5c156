// Package memconfig is the in-memory configrepo.Repository, used for
// tests and embedded deployments.
package memconfig

import (
	"strings"
	"sync"

	"github.com/antbox/antbox/internal/configrepo"
	"github.com/antbox/antbox/internal/result"
)

// Store is an in-memory Repository.
type Store struct {
	mu   sync.RWMutex
	data map[string]string
}

// New returns an empty Store.
func New() *Store { return &Store{data: map[string]string{}} }

var _ configrepo.Repository = (*Store)(nil)

func (s *Store) Get(key string) (string, *result.Error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return "", result.NotFound("config key not found: " + key)
	}
	return v, nil
}

func (s *Store) Put(key, value string) *result.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *Store) Delete(key string) *result.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return result.NotFound("config key not found: " + key)
	}
	delete(s.data, key)
	return nil
}

func (s *Store) List(prefix string) (map[string]string, *result.Error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := map[string]string{}
	for k, v := range s.data {
		if strings.HasPrefix(k, prefix) {
			out[k] = v
		}
	}
	return out, nil
}
