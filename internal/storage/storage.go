// Package storage defines the blob-storage port: binary bodies for
// file-like node variants, addressed by node uuid and kept separate
// from the metadata Repository.
package storage

import (
	"context"
	"io"

	"github.com/antbox/antbox/internal/result"
)

// WriteOpts carries advisory hints some providers use to mirror folder
// structure: boltstore and memstore ignore them; s3store uses
// them to build a human-readable key prefix.
type WriteOpts struct {
	Parent string
	Title  string
}

// Storage is the blob-storage port, keyed by uuid.
type Storage interface {
	Write(ctx context.Context, uuid string, file io.Reader, opts WriteOpts) *result.Error
	Read(ctx context.Context, uuid string) (io.ReadCloser, *result.Error)
	Delete(ctx context.Context, uuid string) *result.Error
}

// ChangeSubscriber is the minimal event-bus surface StartListeners
// needs: providers that mirror the folder tree subscribe to
// NodeCreated/Updated/Deleted. Kept as its own
// interface so this package doesn't depend on eventbus directly.
type ChangeSubscriber interface {
	Subscribe(eventType string, handler func(payload map[string]any))
}

// ListenerAware is implemented by storage providers that mirror the
// folder tree and need to react to node moves/renames. Most
// providers (memstore, boltstore) are keyed purely by uuid and don't
// implement this.
type ListenerAware interface {
	StartListeners(sub ChangeSubscriber)
}
