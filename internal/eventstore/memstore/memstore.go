// Package memstore is the in-memory eventstore.Store, used for tests and
// embedded deployments: a map plus per-key sequence counters, guarded
// by a single mutex so Append assigns the next sequence atomically. The
// map is unbounded since event streams are append-only history, not an
// eviction candidate.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/antbox/antbox/internal/eventstore"
)

type streamKey struct {
	streamID string
	mimetype string
}

// Store is an in-memory eventstore.Store.
type Store struct {
	mu      sync.Mutex
	streams map[streamKey][]eventstore.Event
	now     func() time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{streams: map[streamKey][]eventstore.Event{}, now: time.Now}
}

var _ eventstore.Store = (*Store)(nil)

func (s *Store) Append(_ context.Context, streamID, mimetype string, data map[string]any) (eventstore.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := streamKey{streamID, mimetype}
	seq := int64(len(s.streams[key]))
	ev := eventstore.Event{
		StreamID: streamID, Mimetype: mimetype, Sequence: seq,
		Data: data, AppendedAt: s.now(),
	}
	s.streams[key] = append(s.streams[key], ev)
	return ev, nil
}

func (s *Store) GetStream(_ context.Context, streamID, mimetype string) ([]eventstore.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.streams[streamKey{streamID, mimetype}]
	out := make([]eventstore.Event, len(events))
	copy(out, events)
	return out, nil
}

func (s *Store) GetStreamsByMimetype(_ context.Context, mimetype string) (map[string][]eventstore.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string][]eventstore.Event{}
	for key, events := range s.streams {
		if key.mimetype != mimetype {
			continue
		}
		cp := make([]eventstore.Event, len(events))
		copy(cp, events)
		out[key.streamID] = cp
	}
	return out, nil
}
