// Package mongo implements the Repository port against MongoDB using
// the official go.mongodb.org/mongo-driver, as an alternative document
// backend alongside CouchDB and Postgres. DNF filters translate via
// nodefilter/translate.ToMongoFilter and are always post-filtered, same
// as the couchdb and postgres siblings.
package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/antbox/antbox/internal/node"
	"github.com/antbox/antbox/internal/nodefilter"
	"github.com/antbox/antbox/internal/nodefilter/translate"
	"github.com/antbox/antbox/internal/repository"
	"github.com/antbox/antbox/internal/result"
)

// Store is a mongo-driver-backed Repository.
type Store struct {
	coll *mongo.Collection
}

// New wraps an already-connected collection.
func New(coll *mongo.Collection) *Store {
	return &Store{coll: coll}
}

var _ repository.Repository = (*Store)(nil)

func toDoc(n *node.Node) bson.M {
	m := node.ToMetadata(n)
	m["_id"] = n.UUID
	return bson.M(m)
}

func fromDoc(doc bson.M) (*node.Node, error) {
	delete(doc, "_id")
	return node.FromMetadata(map[string]any(doc))
}

func (s *Store) Add(ctx context.Context, n *node.Node) *result.Error {
	if n.Fid != "" {
		count, err := s.coll.CountDocuments(ctx, bson.M{"fid": n.Fid})
		if err == nil && count > 0 {
			return result.Duplicated("node with this fid already exists")
		}
	}
	if _, err := s.coll.InsertOne(ctx, toDoc(n)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return result.Duplicated("node with this uuid already exists")
		}
		return result.Wrap(result.CodeUnknownError, "mongo insert failed", err)
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, uuid string) (*node.Node, *result.Error) {
	var doc bson.M
	if err := s.coll.FindOne(ctx, bson.M{"_id": uuid}).Decode(&doc); err != nil {
		return nil, result.NotFound("node not found: " + uuid)
	}
	n, err := fromDoc(doc)
	if err != nil {
		return nil, result.Wrap(result.CodeUnknownError, "corrupt document", err)
	}
	return n, nil
}

func (s *Store) GetByFid(ctx context.Context, fid string) (*node.Node, *result.Error) {
	var doc bson.M
	if err := s.coll.FindOne(ctx, bson.M{"fid": fid}).Decode(&doc); err != nil {
		return nil, result.NotFound("node not found for fid: " + fid)
	}
	n, err := fromDoc(doc)
	if err != nil {
		return nil, result.Wrap(result.CodeUnknownError, "corrupt document", err)
	}
	return n, nil
}

func (s *Store) Update(ctx context.Context, n *node.Node) *result.Error {
	doc := toDoc(n)
	delete(doc, "_id")
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": n.UUID}, bson.M{"$set": doc})
	if err != nil {
		return result.Wrap(result.CodeUnknownError, "mongo update failed", err)
	}
	if res.MatchedCount == 0 {
		return result.NotFound("node not found: " + n.UUID)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, uuid string) *result.Error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": uuid})
	if err != nil {
		return result.Wrap(result.CodeUnknownError, "mongo delete failed", err)
	}
	if res.DeletedCount == 0 {
		return result.NotFound("node not found: " + uuid)
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

	query := bson.M(translate.ToMongoFilter(filters))
	// Over-fetch for the same reason as the couchdb/postgres siblings: the
	// pushed-down query may over-approximate, so the true page has to be
	// carved out after the post-filter.
	opts := options.Find().SetSort(bson.M{"_id": 1}).SetLimit(int64(pageSize * pageToken * 4))
	cur, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return repository.Page{}, result.Wrap(result.CodeUnknownError, "mongo find failed", err)
	}
	defer cur.Close(ctx)

	var matched []*node.Node
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			continue
		}
		n, err := fromDoc(doc)
		if err != nil {
			continue
		}
		if filters.IsEmpty() || nodefilter.Evaluate(filters, n) {
			matched = append(matched, n)
		}
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
