package nodeservice

import (
	"context"
	"io"

	"github.com/antbox/antbox/internal/node"
	"github.com/antbox/antbox/internal/permission"
	"github.com/antbox/antbox/internal/result"
)

// Get resolves id (a uuid or a "--fid--<fid>" compound id) and checks
// that caller holds Read, propagated up the ancestor chain.
func (s *Service) Get(ctx context.Context, caller permission.Principal, id string) (*node.Node, *result.Error) {
	n, err := s.resolveID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !permission.CanWithAncestry(caller, n, node.PermRead, s.ancestorLookup(ctx)) {
		return nil, result.Forbidden("caller does not hold Read on this node")
	}
	return n, nil
}

// Export returns a node's binary body, requiring
// Export permission in addition to the usual Read propagation. Only the
// File variant has a binary body; exporting anything else is a type
// error, not a missing blob.
func (s *Service) Export(ctx context.Context, caller permission.Principal, id string) (*node.Node, io.ReadCloser, *result.Error) {
	n, err := s.resolveID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if n.Kind != node.KindFile {
		return nil, nil, result.NodeType("export applies only to file nodes")
	}
	if !permission.CanWithAncestry(caller, n, node.PermRead, s.ancestorLookup(ctx)) {
		return nil, nil, result.Forbidden("caller does not hold Read on this node")
	}
	if !permission.Can(caller, n, node.PermExport) {
		return nil, nil, result.Forbidden("caller does not hold Export on this node")
	}
	body, serr := s.Store.Read(ctx, n.UUID)
	if serr != nil {
		return nil, nil, serr
	}
	return n, body, nil
}

// Breadcrumbs returns the root-to-node chain of ancestor uuids for a
// node, after the same Read check as Get.
func (s *Service) Breadcrumbs(ctx context.Context, caller permission.Principal, id string) ([]string, *result.Error) {
	n, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return node.Breadcrumbs(n.UUID, s.parentLookup(ctx))
}
