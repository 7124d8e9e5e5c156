// Package pathresolve implements the filesystem-style path resolution
// algorithm WebDAV/CMIS front doors need: turning
// "/a/b/c.txt" into the node it names, using pathcache as a read-through
// accelerator over nodeservice.Find. When several nodes share a
// segment's title, the one whose parent is the node resolved for the
// previous segment is taken.
package pathresolve

import (
	"context"
	"net/url"
	"strings"

	"github.com/antbox/antbox/internal/node"
	"github.com/antbox/antbox/internal/nodefilter"
	"github.com/antbox/antbox/internal/pathcache"
	"github.com/antbox/antbox/internal/permission"
	"github.com/antbox/antbox/internal/repository"
	"github.com/antbox/antbox/internal/result"
)

// Finder is the subset of nodeservice.Service a resolver needs.
type Finder interface {
	Find(ctx context.Context, caller permission.Principal, filters nodefilter.Filters, pageSize, pageToken int) (repository.Page, *result.Error)
	Get(ctx context.Context, caller permission.Principal, id string) (*node.Node, *result.Error)
}

// Resolver resolves paths against a Finder, caching intermediate
// results in a Cache.
type Resolver struct {
	Finder Finder
	Cache  *pathcache.Cache
}

// New builds a Resolver.
func New(finder Finder, cache *pathcache.Cache) *Resolver {
	return &Resolver{Finder: finder, Cache: cache}
}

// Resolve turns a path into the node it names: normalise, split
// and URL-decode, consult the cache per-prefix, fall through to find()
// from the deepest cached ancestor, then cache every new intermediate
// resolution.
func (r *Resolver) Resolve(ctx context.Context, caller permission.Principal, tenant, path string) (*node.Node, *result.Error) {
	segments, perr := splitPath(path)
	if perr != nil {
		return nil, result.BadRequest(perr.Error())
	}
	if len(segments) == 0 {
		return r.Finder.Get(ctx, caller, node.RootFolderUUID)
	}

	ancestorUUID := node.RootFolderUUID
	startIdx := 0
	cachedPrefix := "/"

	// Step 3: walk cached prefixes from the deepest down, so a single hit
	// skips as much find() work as possible.
	for i := len(segments); i > 0; i-- {
		prefix := "/" + strings.Join(segments[:i], "/")
		if uuid, ok := r.Cache.Get(tenant, caller.Email, prefix); ok {
			n, gerr := r.Finder.Get(ctx, caller, uuid)
			if gerr != nil {
				continue // cached node no longer readable/exists; fall through
			}
			ancestorUUID = n.UUID
			startIdx = i
			cachedPrefix = prefix
			break
		}
	}
	_ = cachedPrefix

	cur := ancestorUUID
	for i := startIdx; i < len(segments); i++ {
		segment := segments[i]
		page, ferr := r.Finder.Find(ctx, caller, nodefilter.FromConjunction(nodefilter.Filters1D{
			{Field: "title", Op: nodefilter.OpEq, Value: segment},
			{Field: "parent", Op: nodefilter.OpEq, Value: cur},
		}), 64, 1)
		if ferr != nil {
			return nil, ferr
		}
		candidate, found := disambiguate(page.Nodes, cur)
		if !found {
			return nil, result.NotFound("no node named " + segment + " under this path")
		}
		cur = candidate.UUID
		r.Cache.Put(tenant, caller.Email, "/"+strings.Join(segments[:i+1], "/"), cur)
	}

	return r.Finder.Get(ctx, caller, cur)
}

// disambiguate picks the candidate whose parent matches expectedParent.
// A well-formed tree never has two children of the same parent sharing a
// title within the same aspect/namespace, but find() may still return
// more than one hit if titles collide across different parents that
// happen to satisfy the same filter page; this verifies each
// candidate's ancestry, narrowed to immediate-parent comparison since
// find() already filtered on parent equality.
func disambiguate(candidates []*node.Node, expectedParent string) (*node.Node, bool) {
	for _, c := range candidates {
		if c.Parent == expectedParent {
			return c, true
		}
	}
	return nil, false
}

// splitPath normalises and URL-decodes a path into its segments. "/"
// and "" both resolve to zero segments (the root).
func splitPath(path string) ([]string, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil, nil
	}
	raw := strings.Split(trimmed, "/")
	out := make([]string, 0, len(raw))
	for _, seg := range raw {
		decoded, err := url.PathUnescape(seg)
		if err != nil {
			return nil, err
		}
		if decoded == "" {
			continue
		}
		out = append(out, decoded)
	}
	return out, nil
}
