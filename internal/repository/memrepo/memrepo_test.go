package memrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antbox/antbox/internal/node"
	"github.com/antbox/antbox/internal/nodefilter"
	"github.com/antbox/antbox/internal/result"
)

func TestAddRejectsDuplicateUUID(t *testing.T) {
	s := New()
	ctx := context.Background()
	n := &node.Node{Envelope: node.Envelope{UUID: "abc12345", Title: "a"}}
	require.Nil(t, s.Add(ctx, n))
	err := s.Add(ctx, n)
	require.NotNil(t, err)
	assert.ErrorIs(t, err, result.DuplicatedNode)
}

func TestAddRejectsDuplicateFid(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.Nil(t, s.Add(ctx, &node.Node{Envelope: node.Envelope{UUID: "abc12345", Fid: "report", Title: "a"}}))
	err := s.Add(ctx, &node.Node{Envelope: node.Envelope{UUID: "def67890", Fid: "report", Title: "b"}})
	require.NotNil(t, err)
	assert.ErrorIs(t, err, result.DuplicatedNode)
}

func TestGetByFidAndByID(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.Nil(t, s.Add(ctx, &node.Node{Envelope: node.Envelope{UUID: "abc12345", Fid: "report", Title: "a"}}))

	byID, err := s.GetByID(ctx, "abc12345")
	require.Nil(t, err)
	assert.Equal(t, "a", byID.Title)

	byFid, err := s.GetByFid(ctx, "report")
	require.Nil(t, err)
	assert.Equal(t, "abc12345", byFid.UUID)

	_, err = s.GetByID(ctx, "missing")
	require.NotNil(t, err)
	assert.ErrorIs(t, err, result.NodeNotFound)
}

func TestUpdateRenamesFidIndex(t *testing.T) {
	s := New()
	ctx := context.Background()
	n := &node.Node{Envelope: node.Envelope{UUID: "abc12345", Fid: "old", Title: "a"}}
	require.Nil(t, s.Add(ctx, n))

	n.Fid = "new"
	require.Nil(t, s.Update(ctx, n))

	_, err := s.GetByFid(ctx, "old")
	assert.NotNil(t, err)
	got, err := s.GetByFid(ctx, "new")
	require.Nil(t, err)
	assert.Equal(t, "abc12345", got.UUID)
}

func TestDeleteRemovesFidIndex(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.Nil(t, s.Add(ctx, &node.Node{Envelope: node.Envelope{UUID: "abc12345", Fid: "report", Title: "a"}}))
	require.Nil(t, s.Delete(ctx, "abc12345"))
	_, err := s.GetByID(ctx, "abc12345")
	assert.NotNil(t, err)
	_, err = s.GetByFid(ctx, "report")
	assert.NotNil(t, err)
}

func TestFilterPaginatesDeterministically(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, uuid := range []string{"c3", "a1", "b2"} {
		require.Nil(t, s.Add(ctx, &node.Node{Envelope: node.Envelope{UUID: uuid, Title: "node " + uuid, Parent: "folder"}}))
	}
	fs := nodefilter.FromConjunction(nodefilter.Filters1D{{Field: "parent", Op: nodefilter.OpEq, Value: "folder"}})

	page1, err := s.Filter(ctx, fs, 2, 1)
	require.Nil(t, err)
	require.Len(t, page1.Nodes, 2)
	assert.Equal(t, "a1", page1.Nodes[0].UUID)
	assert.Equal(t, "b2", page1.Nodes[1].UUID)

	page2, err := s.Filter(ctx, fs, 2, 2)
	require.Nil(t, err)
	require.Len(t, page2.Nodes, 1)
	assert.Equal(t, "c3", page2.Nodes[0].UUID)
}

func TestVectorSearchOrdersByScoreDescending(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.Nil(t, s.Add(ctx, &node.Node{Envelope: node.Envelope{UUID: "a", Title: "a"}}))
	require.Nil(t, s.Add(ctx, &node.Node{Envelope: node.Envelope{UUID: "b", Title: "b"}}))

	require.Nil(t, s.UpsertEmbedding(ctx, "a", []float32{1, 0}))
	require.Nil(t, s.UpsertEmbedding(ctx, "b", []float32{0, 1}))

	results, err := s.VectorSearch(ctx, []float32{1, 0}, 2)
	require.Nil(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Node.UUID)
}
