package nodeservice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antbox/antbox/internal/eventbus"
	"github.com/antbox/antbox/internal/node"
	"github.com/antbox/antbox/internal/permission"
	"github.com/antbox/antbox/internal/repository/memrepo"
	"github.com/antbox/antbox/internal/result"
	"github.com/antbox/antbox/internal/storage/memstore"
)

func newTestService(t *testing.T) (*Service, *eventbus.Bus) {
	t.Helper()
	bus := eventbus.New()
	repo := memrepo.New()
	require.Nil(t, repo.Add(context.Background(), &node.Node{
		Envelope: node.Envelope{UUID: node.RootFolderUUID, Title: "root", Kind: node.KindFolder, Fid: "root"},
	}))
	svc := New(repo, memstore.New(), bus)
	svc.Clock = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	counter := 0
	svc.NewID = func() string { counter++; return "uuid0000000000000000000" + string(rune('a'+counter)) }
	return svc, bus
}

var admin = permission.Principal{Email: node.RootUserUUID, Groups: []string{node.AdminsGroupUUID}}

func TestCreateRequiresWriteOnParent(t *testing.T) {
	svc, _ := newTestService(t)
	stranger := permission.Principal{Email: "stranger@example.com"}

	_, err := svc.Create(context.Background(), stranger, &node.Node{
		Envelope: node.Envelope{Title: "doc", Parent: node.RootFolderUUID, Kind: node.KindMeta},
		Payload:  node.MetaPayload{},
	})

	require.NotNil(t, err)
	assert.Equal(t, "ForbiddenError", string(err.Code))
}

func TestCreateThenGetRoundTrips(t *testing.T) {
	svc, bus := newTestService(t)
	var published []eventbus.Envelope
	bus.Subscribe(eventbus.NodeCreated, func(e eventbus.Envelope) { published = append(published, e) })

	created, err := svc.Create(context.Background(), admin, &node.Node{
		Envelope: node.Envelope{Title: "doc", Parent: node.RootFolderUUID, Kind: node.KindMeta},
		Payload:  node.MetaPayload{},
	})
	require.Nil(t, err)
	assert.NotEmpty(t, created.UUID)
	assert.Len(t, published, 1)

	got, gerr := svc.Get(context.Background(), admin, created.UUID)
	require.Nil(t, gerr)
	assert.Equal(t, "doc", got.Title)
}

func TestCreateFileThenExportRoundTrips(t *testing.T) {
	svc, _ := newTestService(t)
	created, err := svc.CreateFile(context.Background(), admin, &node.Node{
		Envelope: node.Envelope{Title: "report.txt", Parent: node.RootFolderUUID},
	}, []byte("hello world"))
	require.Nil(t, err)

	_, body, eerr := svc.Export(context.Background(), admin, created.UUID)
	require.Nil(t, eerr)
	defer body.Close()
}

func TestDeleteCascadesToChildren(t *testing.T) {
	svc, _ := newTestService(t)
	folder, err := svc.Create(context.Background(), admin, &node.Node{
		Envelope: node.Envelope{Title: "folder", Parent: node.RootFolderUUID, Kind: node.KindFolder},
		Payload:  node.FolderPayload{},
	})
	require.Nil(t, err)
	child, cerr := svc.Create(context.Background(), admin, &node.Node{
		Envelope: node.Envelope{Title: "child", Parent: folder.UUID, Kind: node.KindMeta},
		Payload:  node.MetaPayload{},
	})
	require.Nil(t, cerr)

	derr := svc.Delete(context.Background(), admin, folder.UUID)
	require.Nil(t, derr)

	_, gerr := svc.Get(context.Background(), admin, folder.UUID)
	require.NotNil(t, gerr)
	_, gerr2 := svc.Get(context.Background(), admin, child.UUID)
	require.NotNil(t, gerr2)
}

func TestDeleteRefusesSystemFolder(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.Delete(context.Background(), admin, node.RootFolderUUID)
	require.NotNil(t, err)
}

func TestUpdateRejectsCycle(t *testing.T) {
	svc, _ := newTestService(t)
	a, err := svc.Create(context.Background(), admin, &node.Node{
		Envelope: node.Envelope{Title: "a", Parent: node.RootFolderUUID, Kind: node.KindFolder},
		Payload:  node.FolderPayload{},
	})
	require.Nil(t, err)
	b, berr := svc.Create(context.Background(), admin, &node.Node{
		Envelope: node.Envelope{Title: "b", Parent: a.UUID, Kind: node.KindFolder},
		Payload:  node.FolderPayload{},
	})
	require.Nil(t, berr)

	_, uerr := svc.Update(context.Background(), admin, a.UUID, map[string]any{"parent": b.UUID})
	require.NotNil(t, uerr)
}

func TestLockThenWriteBlockedForOthers(t *testing.T) {
	svc, _ := newTestService(t)
	owner := permission.Principal{Email: "owner@example.com"}
	// Authenticated principals hold Write, so the lock is the only thing
	// standing between a non-editor and the update.
	n, err := svc.Create(context.Background(), admin, &node.Node{
		Envelope: node.Envelope{
			Title: "doc", Parent: node.RootFolderUUID, Kind: node.KindMeta, Owner: owner.Email,
			Permissions: node.Permissions{Authenticated: []node.Perm{node.PermRead, node.PermWrite}},
		},
		Payload: node.MetaPayload{},
	})
	require.Nil(t, err)

	locked, lerr := svc.Lock(context.Background(), owner, n.UUID, []string{"editors"})
	require.Nil(t, lerr)
	assert.True(t, locked.Locked)

	stranger := permission.Principal{Email: "stranger@example.com"}
	_, uerr := svc.Update(context.Background(), stranger, n.UUID, map[string]any{"title": "renamed"})
	require.NotNil(t, uerr)
	assert.Equal(t, result.CodeForbiddenError, uerr.Code)
	assert.Contains(t, uerr.Message, "locked")

	editor := permission.Principal{Email: "editor@example.com", Groups: []string{"editors"}}
	_, eerr := svc.Update(context.Background(), editor, n.UUID, map[string]any{"title": "renamed"})
	require.Nil(t, eerr)
}

func TestBreadcrumbsWalksToRoot(t *testing.T) {
	svc, _ := newTestService(t)
	a, err := svc.Create(context.Background(), admin, &node.Node{
		Envelope: node.Envelope{Title: "a", Parent: node.RootFolderUUID, Kind: node.KindFolder},
		Payload:  node.FolderPayload{},
	})
	require.Nil(t, err)

	chain, berr := svc.Breadcrumbs(context.Background(), admin, a.UUID)
	require.Nil(t, berr)
	require.Len(t, chain, 2)
	assert.Equal(t, node.RootFolderUUID, chain[0])
	assert.Equal(t, a.UUID, chain[1])
}

func TestCopyDuplicatesFileBody(t *testing.T) {
	svc, _ := newTestService(t)
	src, err := svc.CreateFile(context.Background(), admin, &node.Node{
		Envelope: node.Envelope{Title: "report.txt", Parent: node.RootFolderUUID},
	}, []byte("hello"))
	require.Nil(t, err)

	dup, cerr := svc.Copy(context.Background(), admin, src.UUID, node.RootFolderUUID)
	require.Nil(t, cerr)
	assert.NotEqual(t, src.UUID, dup.UUID)

	_, body, eerr := svc.Export(context.Background(), admin, dup.UUID)
	require.Nil(t, eerr)
	body.Close()
}

func TestCreateDisambiguatesDuplicateSlugFid(t *testing.T) {
	svc, _ := newTestService(t)
	first, err := svc.Create(context.Background(), admin, &node.Node{
		Envelope: node.Envelope{Title: "Quarterly Report", Parent: node.RootFolderUUID, Kind: node.KindMeta},
		Payload:  node.MetaPayload{},
	})
	require.Nil(t, err)
	assert.Equal(t, "quarterly-report", first.Fid)

	second, err2 := svc.Create(context.Background(), admin, &node.Node{
		Envelope: node.Envelope{Title: "Quarterly Report", Parent: node.RootFolderUUID, Kind: node.KindMeta},
		Payload:  node.MetaPayload{},
	})
	require.Nil(t, err2)
	assert.Equal(t, "quarterly-report-2", second.Fid)
	assert.NotEqual(t, first.UUID, second.UUID)
}

func TestCreateSurfacesExplicitFidCollision(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), admin, &node.Node{
		Envelope: node.Envelope{Title: "a", Fid: "taken", Parent: node.RootFolderUUID, Kind: node.KindMeta},
		Payload:  node.MetaPayload{},
	})
	require.Nil(t, err)

	_, err2 := svc.Create(context.Background(), admin, &node.Node{
		Envelope: node.Envelope{Title: "b", Fid: "taken", Parent: node.RootFolderUUID, Kind: node.KindMeta},
		Payload:  node.MetaPayload{},
	})
	require.NotNil(t, err2)
	assert.Equal(t, result.CodeDuplicatedNode, err2.Code)
}

func TestExportRejectsNonFileVariant(t *testing.T) {
	svc, _ := newTestService(t)
	n, err := svc.Create(context.Background(), admin, &node.Node{
		Envelope: node.Envelope{Title: "just-metadata", Parent: node.RootFolderUUID, Kind: node.KindMeta},
		Payload:  node.MetaPayload{},
	})
	require.Nil(t, err)

	_, _, eerr := svc.Export(context.Background(), admin, n.UUID)
	require.NotNil(t, eerr)
	assert.Equal(t, result.CodeNodeTypeError, eerr.Code)
}
