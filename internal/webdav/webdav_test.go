package webdav

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antbox/antbox/internal/eventbus"
	"github.com/antbox/antbox/internal/node"
	"github.com/antbox/antbox/internal/nodeservice"
	"github.com/antbox/antbox/internal/pathcache"
	"github.com/antbox/antbox/internal/pathresolve"
	"github.com/antbox/antbox/internal/permission"
	"github.com/antbox/antbox/internal/repository/memrepo"
	"github.com/antbox/antbox/internal/storage/memstore"
)

func TestETagFormat(t *testing.T) {
	modified := time.Date(2026, 3, 5, 12, 30, 0, 0, time.UTC)
	tag := ETag("doc-1", modified)
	assert.Equal(t, "doc-1-20260305123000", tag)
}

func TestNewLockTokenHasOpaqueLockTokenPrefix(t *testing.T) {
	tok := NewLockToken()
	assert.True(t, strings.HasPrefix(tok, "opaquelocktoken:"))
	assert.NotEqual(t, NewLockToken(), NewLockToken())
}

var admin = permission.Principal{Email: node.RootUserUUID, Groups: []string{node.AdminsGroupUUID}}

// TestPathRoundTrip exercises the PUT-then-GET path round-trip against
// NodeService + pathresolve directly, since this package ships no
// transport of its own.
func TestPathRoundTrip(t *testing.T) {
	repo := memrepo.New()
	require.Nil(t, repo.Add(context.Background(), &node.Node{
		Envelope: node.Envelope{UUID: node.RootFolderUUID, Title: "root", Kind: node.KindFolder, Fid: "root"},
	}))
	svc := nodeservice.New(repo, memstore.New(), eventbus.New())
	cache := pathcache.New(pathcache.Config{})
	defer cache.Close()
	resolver := pathresolve.New(svc, cache)

	docs, err := svc.Create(context.Background(), admin, &node.Node{
		Envelope: node.Envelope{Title: "docs", Parent: node.RootFolderUUID, Kind: node.KindFolder},
		Payload:  node.FolderPayload{},
	})
	require.Nil(t, err)

	file, err := svc.CreateFile(context.Background(), admin, &node.Node{
		Envelope: node.Envelope{Title: "x.txt", Parent: docs.UUID, Kind: node.KindFile},
	}, []byte("y"))
	require.Nil(t, err)

	resolvedDocs, rerr := resolver.Resolve(context.Background(), admin, "acme", "/docs")
	require.Nil(t, rerr)
	assert.Equal(t, docs.UUID, resolvedDocs.UUID)

	resolvedFile, rerr2 := resolver.Resolve(context.Background(), admin, "acme", "/docs/x.txt")
	require.Nil(t, rerr2)
	assert.Equal(t, file.UUID, resolvedFile.UUID)

	_, body, eerr := svc.Export(context.Background(), admin, resolvedFile.UUID)
	require.Nil(t, eerr)
	defer body.Close()

	_, ok1 := cache.Get("acme", admin.Email, "/docs")
	_, ok2 := cache.Get("acme", admin.Email, "/docs/x.txt")
	assert.True(t, ok1)
	assert.True(t, ok2)
}
