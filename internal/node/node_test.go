package node

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequiresTitle(t *testing.T) {
	n := &Node{Envelope: Envelope{Kind: KindFolder}, Payload: FolderPayload{}}
	err := Validate(n)
	require.NotNil(t, err)
	assert.True(t, err.Has("NodeTitleRequired"))
}

func TestValidateMimetypePayloadMismatch(t *testing.T) {
	n := &Node{Envelope: Envelope{Title: "x", Kind: KindFolder}, Payload: FilePayload{}}
	err := Validate(n)
	require.NotNil(t, err)
	assert.True(t, err.Has("InvalidMimetype"))
}

func TestValidateCanonicalParentForAspect(t *testing.T) {
	n := &Node{Envelope: Envelope{Title: "A", Kind: KindAspect, Parent: "somewhere"}, Payload: AspectPayload{}}
	err := Validate(n)
	require.NotNil(t, err)
	assert.True(t, err.Has("InvalidParent"))

	n.Parent = AspectsUUID
	assert.Nil(t, Validate(n))
}

func TestValidateUpdateRejectsImmutableFields(t *testing.T) {
	cur := &Node{Envelope: Envelope{UUID: "abc12345", Title: "x", Kind: KindFile}}
	err := ValidateUpdate(cur, map[string]any{"mimetype": "Folder"})
	require.NotNil(t, err)
	assert.True(t, err.Has("ImmutableField"))
}

func TestValidateUpdateCannotClearTitle(t *testing.T) {
	cur := &Node{Envelope: Envelope{UUID: "abc12345", Title: "x", Kind: KindFile}}
	err := ValidateUpdate(cur, map[string]any{"title": ""})
	require.NotNil(t, err)
	assert.True(t, err.Has("NodeTitleRequired"))
}

func TestFieldResolvesEnvelopeAndProperties(t *testing.T) {
	n := &Node{Envelope: Envelope{
		UUID: "u1", Title: "t1", Owner: "a@b.com",
		Properties: map[string]any{"aspectuuid:code": "ABC"},
	}}
	v, ok := n.Field("title")
	assert.True(t, ok)
	assert.Equal(t, "t1", v)

	v, ok = n.Field("aspectuuid:code")
	assert.True(t, ok)
	assert.Equal(t, "ABC", v)

	_, ok = n.Field("description")
	assert.False(t, ok)
}

func TestWouldCreateCycle(t *testing.T) {
	parents := map[string]string{
		"a": RootFolderUUID,
		"b": "a",
		"c": "b",
	}
	lookup := func(u string) (string, bool) { p, ok := parents[u]; return p, ok }
	assert.True(t, WouldCreateCycle("a", "c", lookup))
	assert.False(t, WouldCreateCycle("a", RootFolderUUID, lookup))
}

func TestBreadcrumbs(t *testing.T) {
	parents := map[string]string{
		"a": RootFolderUUID,
		"b": "a",
		"c": "b",
	}
	lookup := func(u string) (string, bool) { p, ok := parents[u]; return p, ok }
	chain, err := Breadcrumbs("c", lookup)
	require.Nil(t, err)
	assert.Equal(t, []string{RootFolderUUID, "a", "b", "c"}, chain)
}

func TestMetadataRoundTrip(t *testing.T) {
	n := &Node{
		Envelope: Envelope{
			UUID: "abc12345", Title: "report", Parent: RootFolderUUID,
			Kind: KindFile, Owner: "a@b.com",
			CreatedTime: time.Now().UTC().Truncate(time.Second),
			ModifiedTime: time.Now().UTC().Truncate(time.Second),
			Permissions: Permissions{Advanced: map[string][]Perm{}},
		},
		Payload: FilePayload{Size: 42},
	}
	m := ToMetadata(n)
	back, err := FromMetadata(m)
	require.NoError(t, err)
	assert.Equal(t, n.UUID, back.UUID)
	assert.Equal(t, n.Kind, back.Kind)
	assert.Equal(t, FilePayload{Size: 42}, back.Payload)
}
