// Package webdav names the WebDAV surface as a Go interface plus the
// small pieces of logic that are cheap to unit test without a transport
// (etag derivation, lock-token minting): enough to exercise the path
// round-trip, not a full WebDAV server. Uses google/uuid for
// opaquelocktoken minting, the same dependency used for node uuids.
package webdav

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Method is one of the WebDAV methods Antbox's surface advertises.
type Method string

const (
	MethodOptions  Method = "OPTIONS"
	MethodPropfind Method = "PROPFIND"
	MethodGet      Method = "GET"
	MethodPut      Method = "PUT"
	MethodDelete   Method = "DELETE"
	MethodMkcol    Method = "MKCOL"
	MethodCopy     Method = "COPY"
	MethodMove     Method = "MOVE"
	MethodLock     Method = "LOCK"
	MethodUnlock   Method = "UNLOCK"
	MethodHead     Method = "HEAD"
)

// AllowedMethods is the full method allow-list OPTIONS advertises.
var AllowedMethods = []Method{
	MethodOptions, MethodPropfind, MethodGet, MethodPut, MethodDelete,
	MethodMkcol, MethodCopy, MethodMove, MethodLock, MethodUnlock, MethodHead,
}

// DAVComplianceClasses is the value of the "DAV" response header OPTIONS
// returns.
const DAVComplianceClasses = "1, 2"

// ResourceProps is the subset of a node's metadata a PROPFIND response
// renders per entry: creationdate, getlastmodified, getetag,
// getcontentlength, resourcetype, displayname.
type ResourceProps struct {
	DisplayName   string
	CreationDate  time.Time
	LastModified  time.Time
	ETag          string
	ContentLength int64
	IsCollection  bool
}

// ETag derives the `"<uuid>-<yyyymmddHHmmss>"` etag from a node's uuid
// and UTC modifiedTime.
func ETag(uuid string, modifiedTime time.Time) string {
	return fmt.Sprintf("%s-%s", uuid, modifiedTime.UTC().Format("20060102150405"))
}

// NewLockToken mints an opaque lock token of the form
// `opaquelocktoken:<random-uuid>`. Tokens are advisory; the core
// lock/unlock semantics stay authoritative for conflict detection.
func NewLockToken() string {
	return "opaquelocktoken:" + uuid.NewString()
}

// Handler is the WebDAV wire surface as a Go interface: one method per
// WebDAV verb Antbox advertises, each taking a resolved path rather than
// a raw request so the transport-specific parsing (headers, XML
// encoding) stays outside this package.
// No implementation ships in this repository; the path resolver
// (internal/pathresolve) and NodeService already carry every invariant
// a concrete handler would need to delegate to.
type Handler interface {
	Options(path string) (allow []Method, davClasses string, err error)
	Propfind(path string, depth int) ([]ResourceProps, error)
	Get(path string) (body []byte, props ResourceProps, err error)
	Put(path string, body []byte) (props ResourceProps, created bool, err error)
	Delete(path string) error
	Mkcol(path string) error
	Copy(path, destination string) error
	Move(path, destination string) error
	Lock(path string) (token string, err error)
	Unlock(path, token string) error
	Head(path string) (props ResourceProps, err error)
}
