package nodeservice

import (
	"context"

	"github.com/antbox/antbox/internal/node"
	"github.com/antbox/antbox/internal/nodefilter"
	"github.com/antbox/antbox/internal/permission"
	"github.com/antbox/antbox/internal/repository"
	"github.com/antbox/antbox/internal/result"
)

// List returns the immediate children of parent the caller may Read: a
// thin Find wrapper filtering on parent equality.
func (s *Service) List(ctx context.Context, caller permission.Principal, parent string, pageSize, pageToken int) (repository.Page, *result.Error) {
	return s.Find(ctx, caller, nodefilter.FromConjunction(nodefilter.Filters1D{
		{Field: "parent", Op: nodefilter.OpEq, Value: parent},
	}), pageSize, pageToken)
}

// Find runs filters against the repository and post-filters the result
// for the caller's Read permission. Permission filtering happens after
// the repository query, never instead of it, since a node can satisfy
// the filter but still be unreadable.
//
// Find does not special-case SmartFolders: it runs exactly the filters
// it is given, and nothing in this repository reads a SmartFolder's
// stored Filters to compute its contents.
func (s *Service) Find(ctx context.Context, caller permission.Principal, filters nodefilter.Filters, pageSize, pageToken int) (repository.Page, *result.Error) {
	page, err := s.Repo.Filter(ctx, filters, pageSize, pageToken)
	if err != nil {
		return repository.Page{}, err
	}
	lookup := s.ancestorLookup(ctx)
	readable := make([]*node.Node, 0, len(page.Nodes))
	for _, n := range page.Nodes {
		if permission.CanWithAncestry(caller, n, node.PermRead, lookup) {
			readable = append(readable, n)
		}
	}
	page.Nodes = readable
	return page, nil
}
