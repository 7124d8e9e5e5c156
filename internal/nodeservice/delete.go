package nodeservice

import (
	"context"

	"github.com/antbox/antbox/internal/eventbus"
	"github.com/antbox/antbox/internal/node"
	"github.com/antbox/antbox/internal/nodefilter"
	"github.com/antbox/antbox/internal/permission"
	"github.com/antbox/antbox/internal/result"
)

// Delete removes a node and its binary body, if any. System folders are
// indelible. Folder deletes cascade: every descendant is enumerated via
// a parent-equality filter and recursively deleted before the folder
// itself.
func (s *Service) Delete(ctx context.Context, caller permission.Principal, id string) *result.Error {
	n, err := s.resolveID(ctx, id)
	if err != nil {
		return err
	}
	return s.deleteNode(ctx, caller, n, 0)
}

func (s *Service) deleteNode(ctx context.Context, caller permission.Principal, n *node.Node, depth int) *result.Error {
	if depth > node.MaxAncestryDepth {
		return result.Wrap(result.CodeUnknownError, "folder nesting too deep to cascade delete", nil)
	}
	if node.IsSystemFolder(n.UUID) {
		return result.Forbidden("system folders cannot be deleted")
	}
	if !permission.CanWithAncestry(caller, n, node.PermWrite, s.ancestorLookup(ctx)) {
		return writeDenied(caller, n)
	}

	if n.Kind == node.KindFolder || n.Kind == node.KindSmartFolder {
		children, ferr := s.Repo.Filter(ctx, nodefilter.FromConjunction(nodefilter.Filters1D{
			{Field: "parent", Op: nodefilter.OpEq, Value: n.UUID},
		}), 1000, 1)
		if ferr != nil {
			return ferr
		}
		for _, child := range children.Nodes {
			if derr := s.deleteNode(ctx, caller, child, depth+1); derr != nil {
				return derr
			}
		}
		if len(children.Nodes) == 1000 {
			return s.deleteNode(ctx, caller, n, depth)
		}
	}

	if n.Kind == node.KindFile {
		if serr := s.Store.Delete(ctx, n.UUID); serr != nil && serr.Code != result.CodeNodeFileNotFound {
			return serr
		}
	}
	if err := s.Repo.Delete(ctx, n.UUID); err != nil {
		return err
	}

	s.publish(eventbus.Envelope{Type: eventbus.NodeDeleted, UUID: n.UUID, ParentID: n.Parent})
	return nil
}

// Lock marks a node locked by caller, requiring Write. Unlock requires
// either the original locker, an admin, or membership in the node's
// unlockAuthorizedGroups.
func (s *Service) Lock(ctx context.Context, caller permission.Principal, id string, unlockAuthorizedGroups []string) (*node.Node, *result.Error) {
	n, err := s.resolveID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !permission.CanWithAncestry(caller, n, node.PermWrite, s.ancestorLookup(ctx)) {
		return nil, writeDenied(caller, n)
	}
	if n.Locked {
		return nil, result.BadRequest("node is already locked")
	}
	n.Locked = true
	n.LockedBy = caller.Email
	n.UnlockAuthorizedGroups = unlockAuthorizedGroups
	n.ModifiedTime = s.now()
	if uerr := s.Repo.Update(ctx, n); uerr != nil {
		return nil, uerr
	}
	return n, nil
}

// Unlock clears a node's lock state.
func (s *Service) Unlock(ctx context.Context, caller permission.Principal, id string) (*node.Node, *result.Error) {
	n, err := s.resolveID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !n.Locked {
		return n, nil
	}
	if permission.LockBlocksWrite(caller, n) {
		return nil, writeDenied(caller, n)
	}
	n.Locked = false
	n.LockedBy = ""
	n.UnlockAuthorizedGroups = nil
	n.ModifiedTime = s.now()
	if uerr := s.Repo.Update(ctx, n); uerr != nil {
		return nil, uerr
	}
	return n, nil
}
