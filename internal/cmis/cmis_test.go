package cmis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/antbox/antbox/internal/node"
)

func TestPermACLMappingRoundTrips(t *testing.T) {
	for _, p := range []node.Perm{node.PermRead, node.PermWrite, node.PermExport} {
		acl, ok := PermToACL(p)
		assert.True(t, ok)
		back, ok := ACLToPerm(acl)
		assert.True(t, ok)
		assert.Equal(t, p, back)
	}
}

func TestACLAllMapsToExport(t *testing.T) {
	p, ok := ACLToPerm(ACLAll)
	assert.True(t, ok)
	assert.Equal(t, node.PermExport, p)
}

func TestObjectForFolderAndDocument(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	folder := &node.Node{Envelope: node.Envelope{UUID: "f1", Title: "docs", Kind: node.KindFolder, CreatedTime: now}}
	file := &node.Node{Envelope: node.Envelope{UUID: "d1", Title: "a.txt", Kind: node.KindFile, Parent: "f1", CreatedTime: now}}

	assert.Equal(t, BaseTypeFolder, ObjectFor(folder).BaseTypeID)
	assert.Equal(t, BaseTypeDocument, ObjectFor(file).BaseTypeID)
	assert.Equal(t, "f1", ObjectFor(file).ParentID)
}
