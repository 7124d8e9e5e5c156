// Package cmis names the CMIS Browser Binding subset as a Go interface,
// with no transport wiring. The interface exists so the
// cmis:read/write/all <->
// Read/Write/Export mapping and the object-id/base-type conventions have
// one authoritative Go home, the same way internal/webdav carries the
// WebDAV surface without implementing a server.
package cmis

import (
	"context"

	"github.com/antbox/antbox/internal/node"
)

// BaseTypeID is CMIS's coarse object-type discriminator.
type BaseTypeID string

const (
	BaseTypeFolder   BaseTypeID = "cmis:folder"
	BaseTypeDocument BaseTypeID = "cmis:document"
)

// ACLPermission is one of the three CMIS-side permission names the
// mapping table below translates to/from node.Perm.
type ACLPermission string

const (
	ACLRead  ACLPermission = "cmis:read"
	ACLWrite ACLPermission = "cmis:write"
	ACLAll   ACLPermission = "cmis:all"
)

// permToACL and aclToPerm translate cmis:read/write/all to
// Read/Write/Export. cmis:all maps to Export, the broadest grant
// Antbox's permission vector has.
var permToACL = map[node.Perm]ACLPermission{
	node.PermRead: ACLRead, node.PermWrite: ACLWrite, node.PermExport: ACLAll,
}
var aclToPerm = map[ACLPermission]node.Perm{
	ACLRead: node.PermRead, ACLWrite: node.PermWrite, ACLAll: node.PermExport,
}

// PermToACL translates a node.Perm into its CMIS ACL name.
func PermToACL(p node.Perm) (ACLPermission, bool) { a, ok := permToACL[p]; return a, ok }

// ACLToPerm translates a CMIS ACL name into a node.Perm.
func ACLToPerm(a ACLPermission) (node.Perm, bool) { p, ok := aclToPerm[a]; return p, ok }

// Object is a node projected into CMIS's property model: objects carry
// cmis:objectId = uuid, cmis:baseTypeId, and the canonical
// name/parent/creation properties.
type Object struct {
	ObjectID     string
	BaseTypeID   BaseTypeID
	Name         string
	ParentID     string
	CreationDate string
}

// ObjectFor projects n into its CMIS Object representation.
func ObjectFor(n *node.Node) Object {
	baseType := BaseTypeDocument
	if n.Kind == node.KindFolder || n.Kind == node.KindSmartFolder {
		baseType = BaseTypeFolder
	}
	return Object{
		ObjectID: n.UUID, BaseTypeID: baseType, Name: n.Title,
		ParentID: n.Parent, CreationDate: n.CreatedTime.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// RepositoryInfo is the response shape for getRepositoryInfo/
// getRepositories.
type RepositoryInfo struct {
	ID          string
	Name        string
	RootFolder  string
	CmisVersion string
}

// Browser is the CMIS Browser Binding operation set. No
// implementation ships here: NodeService (create/get/update/delete/find/
// lock/unlock/copy) and internal/node already carry every invariant a
// concrete binding would delegate to.
type Browser interface {
	GetRepositoryInfo(ctx context.Context) (RepositoryInfo, error)
	GetRepositories(ctx context.Context) ([]RepositoryInfo, error)

	GetChildren(ctx context.Context, folderID string) ([]Object, error)
	GetDescendants(ctx context.Context, folderID string, depth int) ([]Object, error)
	GetFolderTree(ctx context.Context, folderID string, depth int) ([]Object, error)
	GetFolderParent(ctx context.Context, folderID string) (Object, error)

	GetObject(ctx context.Context, objectID string) (Object, error)
	GetContentStream(ctx context.Context, objectID string) ([]byte, error)

	CreateDocument(ctx context.Context, folderID, name string, content []byte) (Object, error)
	CreateFolder(ctx context.Context, folderID, name string) (Object, error)
	UpdateProperties(ctx context.Context, objectID string, properties map[string]any) (Object, error)
	MoveObject(ctx context.Context, objectID, targetFolderID string) (Object, error)
	CopyObject(ctx context.Context, objectID, targetFolderID string) (Object, error)
	DeleteObject(ctx context.Context, objectID string) error
	DeleteTree(ctx context.Context, folderID string) error

	CheckOut(ctx context.Context, objectID string) (lockToken string, err error)
	CheckIn(ctx context.Context, objectID, lockToken string) error

	GetACL(ctx context.Context, objectID string) (map[string][]ACLPermission, error)
	ApplyACL(ctx context.Context, objectID string, acl map[string][]ACLPermission) error

	Query(ctx context.Context, dnf any) ([]Object, error)
}
