// Package couchdb implements the Repository port against CouchDB via
// go-kivik/kivik: a Get-then-preserve-_rev-then-Put update pattern,
// Mango Find for
// queries. DNF filters are pushed down via nodefilter/translate.ToMango
// and always post-filtered with nodefilter.Evaluate, so translation may
// over-approximate but never under-approximate.
package couchdb

import (
	"context"
	"fmt"

	kivik "github.com/go-kivik/kivik/v4"
	_ "github.com/go-kivik/kivik/v4/couchdb"

	"github.com/antbox/antbox/internal/node"
	"github.com/antbox/antbox/internal/nodefilter"
	"github.com/antbox/antbox/internal/nodefilter/translate"
	"github.com/antbox/antbox/internal/repository"
	"github.com/antbox/antbox/internal/result"
)

// Store is a kivik-backed Repository.
type Store struct {
	db *kivik.DB
}

// New connects to url and ensures dbName exists, creating it if
// absent.
func New(ctx context.Context, url, dbName string) (*Store, error) {
	client, err := kivik.New("couch", url)
	if err != nil {
		return nil, fmt.Errorf("couchdb: connect: %w", err)
	}
	db := client.DB(dbName)
	if err := db.Err(); err != nil {
		if err := client.CreateDB(ctx, dbName); err != nil {
			return nil, fmt.Errorf("couchdb: create database %s: %w", dbName, err)
		}
		db = client.DB(dbName)
	}
	return &Store{db: db}, nil
}

var _ repository.Repository = (*Store)(nil)

func (s *Store) Add(ctx context.Context, n *node.Node) *result.Error {
	var existing map[string]any
	if err := s.db.Get(ctx, n.UUID).ScanDoc(&existing); err == nil {
		return result.Duplicated("node with this uuid already exists")
	}
	if n.Fid != "" {
		if existing, _ := s.findByFid(ctx, n.Fid); existing != nil {
			return result.Duplicated("node with this fid already exists")
		}
	}
	doc := node.ToMetadata(n)
	doc["_id"] = n.UUID
	if _, err := s.db.Put(ctx, n.UUID, doc); err != nil {
		return result.Wrap(result.CodeUnknownError, "couchdb put failed", err)
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, uuid string) (*node.Node, *result.Error) {
	var doc map[string]any
	if err := s.db.Get(ctx, uuid).ScanDoc(&doc); err != nil {
		return nil, result.NotFound("node not found: " + uuid)
	}
	n, ferr := node.FromMetadata(doc)
	if ferr != nil {
		return nil, result.Wrap(result.CodeUnknownError, "corrupt document", ferr)
	}
	return n, nil
}

func (s *Store) GetByFid(ctx context.Context, fid string) (*node.Node, *result.Error) {
	doc, err := s.findByFid(ctx, fid)
	if err != nil {
		return nil, result.Wrap(result.CodeUnknownError, "mango query failed", err)
	}
	if doc == nil {
		return nil, result.NotFound("node not found for fid: " + fid)
	}
	n, ferr := node.FromMetadata(doc)
	if ferr != nil {
		return nil, result.Wrap(result.CodeUnknownError, "corrupt document", ferr)
	}
	return n, nil
}

func (s *Store) findByFid(ctx context.Context, fid string) (map[string]any, error) {
	rows := s.db.Find(ctx, map[string]any{"fid": fid})
	defer rows.Close()
	if rows.Next() {
		var doc map[string]any
		if err := rows.ScanDoc(&doc); err != nil {
			return nil, err
		}
		return doc, rows.Err()
	}
	return nil, rows.Err()
}

// Update preserves the CouchDB _rev: fetch the current document first so
// the Put doesn't lose the MVCC token, surfacing a conflict as
// UnknownError.
func (s *Store) Update(ctx context.Context, n *node.Node) *result.Error {
	var existing map[string]any
	if err := s.db.Get(ctx, n.UUID).ScanDoc(&existing); err != nil {
		return result.NotFound("node not found: " + n.UUID)
	}
	doc := node.ToMetadata(n)
	doc["_id"] = n.UUID
	if rev, ok := existing["_rev"].(string); ok {
		doc["_rev"] = rev
	}
	if _, err := s.db.Put(ctx, n.UUID, doc); err != nil {
		return result.Wrap(result.CodeUnknownError, "couchdb update conflict", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, uuid string) *result.Error {
	var existing map[string]any
	if err := s.db.Get(ctx, uuid).ScanDoc(&existing); err != nil {
		return result.NotFound("node not found: " + uuid)
	}
	rev, _ := existing["_rev"].(string)
	if _, err := s.db.Delete(ctx, uuid, rev); err != nil {
		return result.Wrap(result.CodeUnknownError, "couchdb delete failed", err)
	}
	return nil
}

func (s *Store) Filter(ctx context.Context, filters nodefilter.Filters, pageSize, pageToken int) (repository.Page, *result.Error) {
	if pageSize <= 0 {
		pageSize = repository.DefaultPageSize
	}
	if pageToken <= 0 {
		pageToken = 1
	}

	selector := translate.ToMango(filters)
	rows := s.db.Find(ctx, map[string]any{
		"selector": selector,
		// Over-fetch generously: the selector may be an over-approximation
		// (unpushable operators dropped), so the true page must be carved out
		// of the post-filtered set, not the raw Mango result set.
		"limit": pageSize * pageToken * 4,
	})
	defer rows.Close()

	var matched []*node.Node
	for rows.Next() {
		var doc map[string]any
		if err := rows.ScanDoc(&doc); err != nil {
			continue
		}
		n, ferr := node.FromMetadata(doc)
		if ferr != nil {
			continue
		}
		if filters.IsEmpty() || nodefilter.Evaluate(filters, n) {
			matched = append(matched, n)
		}
	}
	if err := rows.Err(); err != nil {
		return repository.Page{}, result.Wrap(result.CodeUnknownError, "couchdb find failed", err)
	}

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
