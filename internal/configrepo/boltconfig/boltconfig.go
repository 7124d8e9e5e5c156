// Package boltconfig is a bbolt-backed configrepo.Repository, for
// deployments that want configuration to survive a restart without
// standing up a full database. Uses the same bucket wrapper shape as
// internal/storage/boltstore.
package boltconfig

import (
	"fmt"
	"strings"

	bolt "go.etcd.io/bbolt"

	"github.com/antbox/antbox/internal/configrepo"
	"github.com/antbox/antbox/internal/result"
)

var bucketName = []byte("config")

// Store is a bbolt-backed Repository.
type Store struct {
	db *bolt.DB
}

// Open opens or creates a bbolt database at path and ensures the config
// bucket exists.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("boltconfig: open %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		return nil, fmt.Errorf("boltconfig: create bucket: %w", err)
	}
	return &Store{db: db}, nil
}

var _ configrepo.Repository = (*Store)(nil)

func (s *Store) Get(key string) (string, *result.Error) {
	var value []byte
	_ = s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketName).Get([]byte(key)); v != nil {
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if value == nil {
		return "", result.NotFound("config key not found: " + key)
	}
	return string(value), nil
}

func (s *Store) Put(key, value string) *result.Error {
	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte(value))
	}); err != nil {
		return result.Wrap(result.CodeUnknownError, "bolt put failed", err)
	}
	return nil
}

func (s *Store) Delete(key string) *result.Error {
	existed := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b.Get([]byte(key)) != nil {
			existed = true
		}
		return b.Delete([]byte(key))
	})
	if err != nil {
		return result.Wrap(result.CodeUnknownError, "bolt delete failed", err)
	}
	if !existed {
		return result.NotFound("config key not found: " + key)
	}
	return nil
}

func (s *Store) List(prefix string) (map[string]string, *result.Error) {
	out := map[string]string{}
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketName).Cursor()
		p := []byte(prefix)
		for k, v := c.Seek(p); k != nil && strings.HasPrefix(string(k), prefix); k, v = c.Next() {
			out[string(k)] = string(v)
		}
		return nil
	})
	if err != nil {
		return nil, result.Wrap(result.CodeUnknownError, "bolt scan failed", err)
	}
	return out, nil
}

// Close releases the underlying bbolt file handle.
func (s *Store) Close() error { return s.db.Close() }
