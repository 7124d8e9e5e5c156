// Package memrepo is the in-memory reference Repository implementation,
// used as NodeService's own test double and as the default backend for
// embedded/single-tenant deployments: an unbounded map under a mutex,
// since capacity management belongs to the path cache, not the
// repository.
package memrepo

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/antbox/antbox/internal/node"
	"github.com/antbox/antbox/internal/nodefilter"
	"github.com/antbox/antbox/internal/repository"
	"github.com/antbox/antbox/internal/result"
)

// Store is the in-memory Repository. The zero value is not usable; use
// New.
type Store struct {
	mu        sync.RWMutex
	byUUID    map[string]*node.Node
	byFid     map[string]string // fid -> uuid
	embedding map[string][]float32
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		byUUID:    map[string]*node.Node{},
		byFid:     map[string]string{},
		embedding: map[string][]float32{},
	}
}

var _ repository.Repository = (*Store)(nil)
var _ repository.EmbeddingIndex = (*Store)(nil)

func (s *Store) Add(_ context.Context, n *node.Node) *result.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byUUID[n.UUID]; exists {
		return result.Duplicated("node with this uuid already exists")
	}
	if n.Fid != "" {
		if _, exists := s.byFid[n.Fid]; exists {
			return result.Duplicated("node with this fid already exists")
		}
	}
	cp := *n
	s.byUUID[n.UUID] = &cp
	if n.Fid != "" {
		s.byFid[n.Fid] = n.UUID
	}
	return nil
}

func (s *Store) GetByID(_ context.Context, uuid string) (*node.Node, *result.Error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.byUUID[uuid]
	if !ok {
		return nil, result.NotFound("node not found: " + uuid)
	}
	cp := *n
	return &cp, nil
}

func (s *Store) GetByFid(_ context.Context, fid string) (*node.Node, *result.Error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	uuid, ok := s.byFid[fid]
	if !ok {
		return nil, result.NotFound("node not found for fid: " + fid)
	}
	n := s.byUUID[uuid]
	cp := *n
	return &cp, nil
}

func (s *Store) Update(_ context.Context, n *node.Node) *result.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.byUUID[n.UUID]
	if !ok {
		return result.NotFound("node not found: " + n.UUID)
	}
	if existing.Fid != n.Fid {
		if existing.Fid != "" {
			delete(s.byFid, existing.Fid)
		}
		if n.Fid != "" {
			s.byFid[n.Fid] = n.UUID
		}
	}
	cp := *n
	s.byUUID[n.UUID] = &cp
	return nil
}

func (s *Store) Delete(_ context.Context, uuid string) *result.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.byUUID[uuid]
	if !ok {
		return result.NotFound("node not found: " + uuid)
	}
	if existing.Fid != "" {
		delete(s.byFid, existing.Fid)
	}
	delete(s.byUUID, uuid)
	delete(s.embedding, uuid)
	return nil
}

func (s *Store) Filter(_ context.Context, filters nodefilter.Filters, pageSize, pageToken int) (repository.Page, *result.Error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if pageSize <= 0 {
		pageSize = repository.DefaultPageSize
	}
	if pageToken <= 0 {
		pageToken = 1
	}

	var matched []*node.Node
	for _, n := range s.byUUID {
		if filters.IsEmpty() || nodefilter.Evaluate(filters, n) {
			cp := *n
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].UUID < matched[j].UUID })

	start := (pageToken - 1) * pageSize
	if start >= len(matched) {
		return repository.Page{Nodes: []*node.Node{}, PageSize: pageSize, PageToken: pageToken}, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return repository.Page{Nodes: matched[start:end], PageSize: pageSize, PageToken: pageToken}, nil
}

func (s *Store) SupportsEmbeddings() bool { return true }

func (s *Store) UpsertEmbedding(_ context.Context, uuid string, vec []float32) *result.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byUUID[uuid]; !ok {
		return result.NotFound("node not found: " + uuid)
	}
	s.embedding[uuid] = vec
	return nil
}

func (s *Store) VectorSearch(_ context.Context, vec []float32, topK int) ([]repository.ScoredNode, *result.Error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scored := make([]repository.ScoredNode, 0, len(s.embedding))
	for uuid, e := range s.embedding {
		n, ok := s.byUUID[uuid]
		if !ok {
			continue
		}
		cp := *n
		scored = append(scored, repository.ScoredNode{Node: &cp, Score: cosineSimilarity(vec, e)})
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if topK > 0 && topK < len(scored) {
		scored = scored[:topK]
	}
	return scored, nil
}

func (s *Store) DeleteEmbedding(_ context.Context, uuid string) *result.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.embedding, uuid)
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
