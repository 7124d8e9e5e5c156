// Package boltstore implements the Storage port on top of
// go.etcd.io/bbolt for local/dev deployments: a single bucket of raw
// blob bytes keyed by node uuid.
package boltstore

import (
	"bytes"
	"context"
	"fmt"
	"io"

	bolt "go.etcd.io/bbolt"

	"github.com/antbox/antbox/internal/result"
	"github.com/antbox/antbox/internal/storage"
)

var bucketName = []byte("blobs")

// Store is a bbolt-backed Storage.
type Store struct {
	db *bolt.DB
}

// Open opens or creates a bbolt database at path and ensures the blobs
// bucket exists.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("boltstore: open %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		return nil, fmt.Errorf("boltstore: create bucket: %w", err)
	}
	return &Store{db: db}, nil
}

var _ storage.Storage = (*Store)(nil)

func (s *Store) Write(_ context.Context, uuid string, file io.Reader, _ storage.WriteOpts) *result.Error {
	data, err := io.ReadAll(file)
	if err != nil {
		return result.Wrap(result.CodeUnknownError, "read upload body failed", err)
	}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(uuid), data)
	}); err != nil {
		return result.Wrap(result.CodeUnknownError, "bolt put failed", err)
	}
	return nil
}

func (s *Store) Read(_ context.Context, uuid string) (io.ReadCloser, *result.Error) {
	var data []byte
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketName).Get([]byte(uuid)); v != nil {
			data = append([]byte(nil), v...)
			found = true
		}
		return nil
	})
	if err != nil {
		return nil, result.Wrap(result.CodeUnknownError, "bolt get failed", err)
	}
	if !found {
		return nil, result.FileNotFound("blob not found: " + uuid)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *Store) Delete(_ context.Context, uuid string) *result.Error {
	existed := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b.Get([]byte(uuid)) != nil {
			existed = true
		}
		return b.Delete([]byte(uuid))
	})
	if err != nil {
		return result.Wrap(result.CodeUnknownError, "bolt delete failed", err)
	}
	if !existed {
		return result.FileNotFound("blob not found: " + uuid)
	}
	return nil
}

// Close releases the underlying bbolt file handle.
func (s *Store) Close() error { return s.db.Close() }
