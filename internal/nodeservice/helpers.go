package nodeservice

import (
	"bytes"
	"io"

	"github.com/antbox/antbox/internal/node"
	"github.com/antbox/antbox/internal/permission"
	"github.com/antbox/antbox/internal/result"
	"github.com/antbox/antbox/internal/storage"
)

func bytesReader(b []byte) io.Reader { return bytes.NewReader(b) }

// writeDenied distinguishes a lock denial from a plain missing-grant
// denial, so callers blocked by a lock get an error naming the lock.
func writeDenied(caller permission.Principal, n *node.Node) *result.Error {
	if permission.LockBlocksWrite(caller, n) {
		return result.Forbidden("node is locked by " + n.LockedBy)
	}
	return result.Forbidden("caller does not hold Write on this node")
}

func storageOptsFor(n *node.Node) storage.WriteOpts {
	return storage.WriteOpts{Parent: n.Parent, Title: n.Title}
}
