// Package meminstances is the in-memory workflow.InstanceStore, used for
// tests and embedded deployments.
package meminstances

import (
	"context"
	"fmt"
	"sync"

	"github.com/antbox/antbox/internal/workflow"
)

// Store is an in-memory workflow.InstanceStore.
type Store struct {
	mu     sync.RWMutex
	byUUID map[string]*workflow.Instance
	byNode map[string]string
}

// New returns an empty Store.
func New() *Store {
	return &Store{byUUID: map[string]*workflow.Instance{}, byNode: map[string]string{}}
}

var _ workflow.InstanceStore = (*Store)(nil)

func (s *Store) Save(_ context.Context, inst *workflow.Instance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *inst
	s.byUUID[inst.UUID] = &cp
	s.byNode[inst.NodeUUID] = inst.UUID
	return nil
}

func (s *Store) Get(_ context.Context, uuid string) (*workflow.Instance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.byUUID[uuid]
	if !ok {
		return nil, fmt.Errorf("meminstances: instance not found: %s", uuid)
	}
	cp := *inst
	return &cp, nil
}

func (s *Store) GetByNode(_ context.Context, nodeUUID string) (*workflow.Instance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	uuid, ok := s.byNode[nodeUUID]
	if !ok {
		return nil, fmt.Errorf("meminstances: no instance bound to node %s", nodeUUID)
	}
	cp := *s.byUUID[uuid]
	return &cp, nil
}
