package pathresolve

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antbox/antbox/internal/eventbus"
	"github.com/antbox/antbox/internal/node"
	"github.com/antbox/antbox/internal/nodeservice"
	"github.com/antbox/antbox/internal/pathcache"
	"github.com/antbox/antbox/internal/permission"
	"github.com/antbox/antbox/internal/repository/memrepo"
	"github.com/antbox/antbox/internal/storage/memstore"
)

var admin = permission.Principal{Email: node.RootUserUUID, Groups: []string{node.AdminsGroupUUID}}

func setup(t *testing.T) (*nodeservice.Service, *Resolver) {
	t.Helper()
	repo := memrepo.New()
	require.Nil(t, repo.Add(context.Background(), &node.Node{
		Envelope: node.Envelope{UUID: node.RootFolderUUID, Title: "root", Kind: node.KindFolder, Fid: "root"},
	}))
	svc := nodeservice.New(repo, memstore.New(), eventbus.New())
	counter := 0
	svc.NewID = func() string { counter++; return "pathuuid00000000000000" + string(rune('a'+counter)) }
	svc.Clock = func() time.Time { return time.Now() }
	cache := pathcache.New(pathcache.Config{TTL: time.Minute})
	t.Cleanup(cache.Close)
	return svc, New(svc, cache)
}

func TestResolveRootPath(t *testing.T) {
	svc, r := setup(t)
	n, err := r.Resolve(context.Background(), admin, "t1", "/")
	require.Nil(t, err)
	assert.Equal(t, node.RootFolderUUID, n.UUID)
	_ = svc
}

func TestResolveNestedPath(t *testing.T) {
	svc, r := setup(t)
	folder, cerr := svc.Create(context.Background(), admin, &node.Node{
		Envelope: node.Envelope{Title: "docs", Parent: node.RootFolderUUID, Kind: node.KindFolder},
		Payload:  node.FolderPayload{},
	})
	require.Nil(t, cerr)
	file, ferr := svc.CreateFile(context.Background(), admin, &node.Node{
		Envelope: node.Envelope{Title: "report.txt", Parent: folder.UUID},
	}, []byte("x"))
	require.Nil(t, ferr)

	n, err := r.Resolve(context.Background(), admin, "t1", "/docs/report.txt")
	require.Nil(t, err)
	assert.Equal(t, file.UUID, n.UUID)
}

func TestResolveMissingSegmentFails(t *testing.T) {
	_, r := setup(t)
	_, err := r.Resolve(context.Background(), admin, "t1", "/nope/report.txt")
	require.NotNil(t, err)
}

func TestResolveUsesCacheOnSecondLookup(t *testing.T) {
	svc, r := setup(t)
	_, cerr := svc.Create(context.Background(), admin, &node.Node{
		Envelope: node.Envelope{Title: "docs", Parent: node.RootFolderUUID, Kind: node.KindFolder},
		Payload:  node.FolderPayload{},
	})
	require.Nil(t, cerr)

	_, err1 := r.Resolve(context.Background(), admin, "t1", "/docs")
	require.Nil(t, err1)
	_, ok := r.Cache.Get("t1", admin.Email, "/docs")
	assert.True(t, ok)

	_, err2 := r.Resolve(context.Background(), admin, "t1", "/docs")
	require.Nil(t, err2)
}
