package memstore

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antbox/antbox/internal/result"
	"github.com/antbox/antbox/internal/storage"
)

func TestWriteThenReadRoundTrips(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.Nil(t, s.Write(ctx, "u1", bytes.NewReader([]byte("hello")), storage.WriteOpts{}))

	r, err := s.Read(ctx, "u1")
	require.Nil(t, err)
	defer r.Close()
	data, readErr := io.ReadAll(r)
	require.NoError(t, readErr)
	assert.Equal(t, "hello", string(data))
}

func TestReadMissingReturnsFileNotFound(t *testing.T) {
	s := New()
	_, err := s.Read(context.Background(), "missing")
	require.NotNil(t, err)
	assert.ErrorIs(t, err, result.NodeFileNotFound)
}

func TestDeleteThenReadFails(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.Nil(t, s.Write(ctx, "u1", bytes.NewReader([]byte("x")), storage.WriteOpts{}))
	require.Nil(t, s.Delete(ctx, "u1"))
	_, err := s.Read(ctx, "u1")
	assert.NotNil(t, err)
}

func TestWriteReplacesExistingBlob(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.Nil(t, s.Write(ctx, "u1", bytes.NewReader([]byte("v1")), storage.WriteOpts{}))
	require.Nil(t, s.Write(ctx, "u1", bytes.NewReader([]byte("v2")), storage.WriteOpts{}))
	r, err := s.Read(ctx, "u1")
	require.Nil(t, err)
	data, _ := io.ReadAll(r)
	assert.Equal(t, "v2", string(data))
}
