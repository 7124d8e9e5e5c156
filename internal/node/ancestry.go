package node

import "github.com/antbox/antbox/internal/result"

// ParentLookup resolves a node's parent uuid given its own uuid. Kept as
// a function parameter rather than a concrete Repository dependency so
// this package stays import-light.
type ParentLookup func(uuid string) (parent string, ok bool)

// MaxAncestryDepth bounds the ancestor walk: a well-formed tree never
// approaches this depth, so hitting it means a cycle slipped past
// construction-time checks somewhere upstream.
const MaxAncestryDepth = 10000

// WouldCreateCycle reports whether parenting a node under candidateParent
// would make the node its own ancestor, by walking candidateParent's chain
// up to the root sentinel looking for nodeUUID. A tree only has one path
// up, so plain iteration suffices.
func WouldCreateCycle(nodeUUID, candidateParent string, lookup ParentLookup) bool {
	cur := candidateParent
	for depth := 0; depth < MaxAncestryDepth; depth++ {
		if cur == RootFolderUUID || cur == "" {
			return false
		}
		if cur == nodeUUID {
			return true
		}
		parent, ok := lookup(cur)
		if !ok {
			return false
		}
		cur = parent
	}
	return true
}

// Breadcrumbs walks parent links from uuid up to the root sentinel and
// returns the resolved uuids in root-to-node order.
func Breadcrumbs(uuid string, lookup ParentLookup) ([]string, *result.Error) {
	var chain []string
	cur := uuid
	for depth := 0; depth < MaxAncestryDepth; depth++ {
		chain = append(chain, cur)
		if cur == RootFolderUUID {
			return reverse(chain), nil
		}
		parent, ok := lookup(cur)
		if !ok {
			return nil, result.NotFound("ancestor not found while building breadcrumbs")
		}
		cur = parent
	}
	return nil, result.Wrap(result.CodeUnknownError, "ancestry exceeded max depth, possible cycle", nil)
}

func reverse(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[len(ss)-1-i] = s
	}
	return out
}
