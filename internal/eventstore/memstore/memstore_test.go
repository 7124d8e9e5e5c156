package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAssignsIncreasingSequence(t *testing.T) {
	s := New()
	ctx := context.Background()
	e1, err := s.Append(ctx, "stream1", "Workflow", map[string]any{"a": 1})
	require.NoError(t, err)
	e2, err := s.Append(ctx, "stream1", "Workflow", map[string]any{"a": 2})
	require.NoError(t, err)

	assert.Equal(t, int64(0), e1.Sequence)
	assert.Equal(t, int64(1), e2.Sequence)
}

func TestStreamsAreIsolatedByMimetype(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, err := s.Append(ctx, "stream1", "Workflow", nil)
	require.NoError(t, err)
	_, err = s.Append(ctx, "stream1", "Article", nil)
	require.NoError(t, err)

	events, gerr := s.GetStream(ctx, "stream1", "Workflow")
	require.NoError(t, gerr)
	assert.Len(t, events, 1)
}

func TestGetStreamsByMimetypeGroupsByStreamID(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, err := s.Append(ctx, "s1", "Workflow", nil)
	require.NoError(t, err)
	_, err = s.Append(ctx, "s2", "Workflow", nil)
	require.NoError(t, err)

	streams, serr := s.GetStreamsByMimetype(ctx, "Workflow")
	require.NoError(t, serr)
	assert.Len(t, streams, 2)
}
