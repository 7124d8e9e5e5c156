// Package repository defines the node metadata persistence port and the
// optional vector-search extension, plus a page of helpers shared by
// every backend adapter. The port is deliberately narrow and
// storage-agnostic: one interface per concern, composed by
// callers rather than inherited.
package repository

import (
	"context"

	"github.com/antbox/antbox/internal/node"
	"github.com/antbox/antbox/internal/nodefilter"
	"github.com/antbox/antbox/internal/result"
)

// Page is the result of a filtered listing. PageToken is 1-based.
type Page struct {
	Nodes     []*node.Node
	PageSize  int
	PageToken int
}

// Repository is the node metadata persistence port. Every operation is
// fallible and idempotent with respect to a repeated successful call.
type Repository interface {
	Add(ctx context.Context, n *node.Node) *result.Error
	GetByID(ctx context.Context, uuid string) (*node.Node, *result.Error)
	GetByFid(ctx context.Context, fid string) (*node.Node, *result.Error)
	Update(ctx context.Context, n *node.Node) *result.Error
	Delete(ctx context.Context, uuid string) *result.Error
	Filter(ctx context.Context, filters nodefilter.Filters, pageSize, pageToken int) (Page, *result.Error)
}

// ScoredNode pairs a node with a vector-search similarity score, ordered
// score-descending by VectorSearch.
type ScoredNode struct {
	Node  *node.Node
	Score float64
}

// EmbeddingIndex is the optional vector-search extension a Repository
// may additionally implement. Callers
// type-assert a Repository to this interface rather than requiring it on
// the base port, since most backends (memrepo, couchdb, mongo without
// Atlas Search) don't support it.
type EmbeddingIndex interface {
	SupportsEmbeddings() bool
	UpsertEmbedding(ctx context.Context, uuid string, vec []float32) *result.Error
	VectorSearch(ctx context.Context, vec []float32, topK int) ([]ScoredNode, *result.Error)
	DeleteEmbedding(ctx context.Context, uuid string) *result.Error
}

// DefaultPageSize is applied when a caller passes pageSize <= 0.
const DefaultPageSize = 25
