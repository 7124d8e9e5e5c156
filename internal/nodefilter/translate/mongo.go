package translate

import "github.com/antbox/antbox/internal/nodefilter"

// ToMongoFilter renders a DNF filter set as a MongoDB query document
// (bson.M-compatible map[string]any, kept dependency-free here so this
// package doesn't need the mongo driver import; the mongo repository
// adapter converts the result to bson.M at the call site).
func ToMongoFilter(fs nodefilter.Filters) map[string]any {
	if len(fs) == 0 {
		return map[string]any{}
	}
	ors := make([]any, 0, len(fs))
	for _, conj := range fs {
		ands := make([]any, 0, len(conj))
		for _, f := range conj {
			if cond, ok := mongoCondition(f); ok {
				ands = append(ands, map[string]any{f.Field: cond})
			}
		}
		if len(ands) == 0 {
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

func mongoCondition(f nodefilter.Filter) (map[string]any, bool) {
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
	case nodefilter.OpContainsAny:
		return map[string]any{"$in": f.Value}, true
	case nodefilter.OpContainsNone:
		return map[string]any{"$nin": f.Value}, true
	default:
		return nil, false
	}
}
