// Package eventstore implements the append-only event log: for each
// (streamId, mimetype) pair, a monotonically increasing sequence with
// no gaps and no duplicates.
package eventstore

import (
	"context"
	"time"
)

// Event is one immutable entry in a stream.
type Event struct {
	StreamID string
	Mimetype string
	Sequence int64
	Data     map[string]any
	AppendedAt time.Time
}

// Store is the event-store port.
type Store interface {
	// Append assigns the next sequence for (streamID, mimetype) and
	// persists data under it, returning the assigned Event.
	Append(ctx context.Context, streamID, mimetype string, data map[string]any) (Event, error)
	// GetStream returns every event for (streamID, mimetype) ordered by
	// sequence.
	GetStream(ctx context.Context, streamID, mimetype string) ([]Event, error)
	// GetStreamsByMimetype returns every stream of the given mimetype,
	// keyed by streamID.
	GetStreamsByMimetype(ctx context.Context, mimetype string) (map[string][]Event, error)
}
