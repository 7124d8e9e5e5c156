package boltconfig

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "config.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutThenGetRoundTrips(t *testing.T) {
	s := openTestStore(t)
	require.Nil(t, s.Put("k", "v"))
	v, err := s.Get("k")
	require.Nil(t, err)
	assert.Equal(t, "v", v)
}

func TestListFiltersByPrefix(t *testing.T) {
	s := openTestStore(t)
	require.Nil(t, s.Put("tenant.t1.enabled", "true"))
	require.Nil(t, s.Put("tenant.t2.enabled", "false"))

	m, err := s.List("tenant.t1.")
	require.Nil(t, err)
	assert.Len(t, m, 1)
}

func TestDeleteMissingReturnsNotFound(t *testing.T) {
	s := openTestStore(t)
	err := s.Delete("missing")
	assert.NotNil(t, err)
}
