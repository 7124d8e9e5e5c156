// Package couchdb implements the eventstore.Store port against CouchDB
// via go-kivik/kivik, sharing the connection and Mango-query patterns of
// internal/repository/couchdb: each event is a document whose _id embeds
// its stream key and assigned sequence, so
// ordering by sequence is a Mango sort rather than relying on insertion
// order.
package couchdb

import (
	"context"
	"fmt"
	"time"

	kivik "github.com/go-kivik/kivik/v4"
	_ "github.com/go-kivik/kivik/v4/couchdb"

	"github.com/antbox/antbox/internal/eventstore"
)

// Store is a kivik-backed eventstore.Store.
type Store struct {
	db *kivik.DB
}

// New connects to url and ensures dbName exists, creating it if absent.
func New(ctx context.Context, url, dbName string) (*Store, error) {
	client, err := kivik.New("couch", url)
	if err != nil {
		return nil, fmt.Errorf("eventstore/couchdb: connect: %w", err)
	}
	db := client.DB(dbName)
	if err := db.Err(); err != nil {
		if err := client.CreateDB(ctx, dbName); err != nil {
			return nil, fmt.Errorf("eventstore/couchdb: create database %s: %w", dbName, err)
		}
		db = client.DB(dbName)
	}
	return &Store{db: db}, nil
}

var _ eventstore.Store = (*Store)(nil)

// Append assigns the next sequence by counting the stream's existing
// documents via a Mango query, then creates the new event document under
// a deterministic _id. The count-then-create is not atomic against a
// concurrent Append on the same stream; CouchDB's document-id
// uniqueness constraint turns a lost race into a conflict error rather
// than a silently duplicated sequence: no gaps and no duplicates is
// enforced by rejection, not by a distributed lock.
func (s *Store) Append(ctx context.Context, streamID, mimetype string, data map[string]any) (eventstore.Event, error) {
	existing, err := s.stream(ctx, streamID, mimetype)
	if err != nil {
		return eventstore.Event{}, err
	}
	seq := int64(len(existing))
	ev := eventstore.Event{
		StreamID: streamID, Mimetype: mimetype, Sequence: seq,
		Data: data, AppendedAt: time.Now().UTC(),
	}
	doc := map[string]any{
		"_id":        docID(streamID, mimetype, seq),
		"streamId":   streamID,
		"mimetype":   mimetype,
		"sequence":   seq,
		"data":       data,
		"appendedAt": ev.AppendedAt.Format(time.RFC3339),
	}
	if _, err := s.db.Put(ctx, doc["_id"].(string), doc); err != nil {
		return eventstore.Event{}, fmt.Errorf("eventstore/couchdb: append conflict: %w", err)
	}
	return ev, nil
}

func (s *Store) GetStream(ctx context.Context, streamID, mimetype string) ([]eventstore.Event, error) {
	return s.stream(ctx, streamID, mimetype)
}

func (s *Store) stream(ctx context.Context, streamID, mimetype string) ([]eventstore.Event, error) {
	rows := s.db.Find(ctx, map[string]any{
		"selector": map[string]any{"streamId": streamID, "mimetype": mimetype},
		"sort":     []map[string]string{{"sequence": "asc"}},
	})
	defer rows.Close()

	var out []eventstore.Event
	for rows.Next() {
		var doc eventDoc
		if err := rows.ScanDoc(&doc); err != nil {
			return nil, fmt.Errorf("eventstore/couchdb: scan: %w", err)
		}
		out = append(out, doc.toEvent())
	}
	return out, rows.Err()
}

func (s *Store) GetStreamsByMimetype(ctx context.Context, mimetype string) (map[string][]eventstore.Event, error) {
	rows := s.db.Find(ctx, map[string]any{
		"selector": map[string]any{"mimetype": mimetype},
		"sort":     []map[string]string{{"sequence": "asc"}},
	})
	defer rows.Close()

	out := map[string][]eventstore.Event{}
	for rows.Next() {
		var doc eventDoc
		if err := rows.ScanDoc(&doc); err != nil {
			return nil, fmt.Errorf("eventstore/couchdb: scan: %w", err)
		}
		out[doc.StreamID] = append(out[doc.StreamID], doc.toEvent())
	}
	return out, rows.Err()
}

type eventDoc struct {
	StreamID   string         `json:"streamId"`
	Mimetype   string         `json:"mimetype"`
	Sequence   int64          `json:"sequence"`
	Data       map[string]any `json:"data"`
	AppendedAt string         `json:"appendedAt"`
}

func (d eventDoc) toEvent() eventstore.Event {
	appendedAt, _ := time.Parse(time.RFC3339, d.AppendedAt)
	return eventstore.Event{
		StreamID: d.StreamID, Mimetype: d.Mimetype, Sequence: d.Sequence,
		Data: d.Data, AppendedAt: appendedAt,
	}
}

func docID(streamID, mimetype string, seq int64) string {
	return fmt.Sprintf("%s:%s:%d", streamID, mimetype, seq)
}
