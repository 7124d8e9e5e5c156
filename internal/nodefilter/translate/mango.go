// Package translate rewrites a nodefilter.Filters DNF into backend query
// shapes for repositories that support structured queries. Every
// translator here over-approximates:
// unmappable clauses are dropped from the pushed-down query rather than
// mistranslated, and nodefilter.Evaluate always re-runs as a post-filter
// over whatever the backend returns, so a translation may return a
// superset but never a subset of the matching nodes.
package translate

import "github.com/antbox/antbox/internal/nodefilter"

// ToMango builds a CouchDB Mango selector ($and/$or/$eq/$regex/$in/$nin).
func ToMango(fs nodefilter.Filters) map[string]any {
	if len(fs) == 0 {
		return map[string]any{}
	}
	ors := make([]any, 0, len(fs))
	for _, conj := range fs {
		ands := make([]any, 0, len(conj))
		for _, f := range conj {
			if cond, ok := mangoCondition(f); ok {
				ands = append(ands, map[string]any{f.Field: cond})
			}
		}
		if len(ands) == 0 {
			// No pushable clause in this conjunction: match-all for it so the
			// OR stays a superset; the engine post-filter narrows it back down.
			ors = append(ors, map[string]any{})
			continue
		}
		if len(ands) == 1 {
			ors = append(ors, ands[0])
			continue
		}
		ors = append(ors, map[string]any{"$and": ands})
	}
	if len(ors) == 1 {
		if m, ok := ors[0].(map[string]any); ok {
			return m
		}
	}
	return map[string]any{"$or": ors}
}

func mangoCondition(f nodefilter.Filter) (map[string]any, bool) {
	switch f.Op {
	case nodefilter.OpEq:
		return map[string]any{"$eq": f.Value}, true
	case nodefilter.OpNeq:
		return map[string]any{"$ne": f.Value}, true
	case nodefilter.OpLt:
		return map[string]any{"$lt": f.Value}, true
	case nodefilter.OpLte:
		return map[string]any{"$lte": f.Value}, true
	case nodefilter.OpGt:
		return map[string]any{"$gt": f.Value}, true
	case nodefilter.OpGte:
		return map[string]any{"$gte": f.Value}, true
	case nodefilter.OpIn:
		return map[string]any{"$in": f.Value}, true
	case nodefilter.OpNotIn:
		return map[string]any{"$nin": f.Value}, true
	case nodefilter.OpContainsAll:
		return map[string]any{"$all": f.Value}, true
	default:
		// contains/not-contains/contains-any/contains-none/match/~= have no
		// clean Mango equivalent across CouchDB versions; leave unpushed and
		// let the post-filter handle them.
		return nil, false
	}
}
