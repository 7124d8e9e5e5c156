package nodefilter

import (
	"fmt"
	"regexp"
	"strings"
)

// Fielder resolves a dotted field path against a node's metadata envelope
// and properties map. Missing intermediate keys report present=false.
// node.Node implements this; nodefilter has no dependency on the node
// package so the two can be tested and evolved independently.
type Fielder interface {
	Field(path string) (value any, present bool)
}

// MapFielder adapts a plain map (and nested maps) to Fielder, used by
// tests and by backends that only have a raw metadata map on hand.
type MapFielder map[string]any

func (m MapFielder) Field(path string) (any, bool) {
	segments := strings.Split(path, ".")
	var cur any = map[string]any(m)
	for _, seg := range segments {
		asMap, ok := cur.(map[string]any)
		if !ok {
			if mm, ok2 := cur.(MapFielder); ok2 {
				asMap = map[string]any(mm)
			} else {
				return nil, false
			}
		}
		v, ok := asMap[seg]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// Evaluate reports whether f satisfies at least one conjunction of fs (DNF
// semantics). An empty filter set never matches.
func Evaluate(fs Filters, f Fielder) bool {
	for _, conj := range fs {
		if evaluateConjunction(conj, f) {
			return true
		}
	}
	return false
}

func evaluateConjunction(conj []Filter, f Fielder) bool {
	for _, filter := range conj {
		if !evaluateFilter(filter, f) {
			return false
		}
	}
	return true
}

// absentTruthy is the set of operators that match when the field is
// missing. All other operators treat an absent field as non-matching.
var absentTruthy = map[Op]bool{
	OpNeq:          true,
	OpNotIn:        true,
	OpNotContains:  true,
	OpContainsNone: true,
}

func evaluateFilter(filter Filter, f Fielder) bool {
	value, present := f.Field(filter.Field)
	if !present {
		return absentTruthy[filter.Op]
	}
	switch filter.Op {
	case OpEq:
		return compareEqual(value, filter.Value)
	case OpNeq:
		return !compareEqual(value, filter.Value)
	case OpLt, OpLte, OpGt, OpGte:
		cmp, ok := compareOrder(value, filter.Value)
		if !ok {
			return false
		}
		switch filter.Op {
		case OpLt:
			return cmp < 0
		case OpLte:
			return cmp <= 0
		case OpGt:
			return cmp > 0
		case OpGte:
			return cmp >= 0
		}
	case OpIn:
		return memberOf(value, asList(filter.Value))
	case OpNotIn:
		return !memberOf(value, asList(filter.Value))
	case OpContains:
		return memberOf(filter.Value, asList(value))
	case OpNotContains:
		return !memberOf(filter.Value, asList(value))
	case OpContainsAll:
		return containsAll(asList(value), asList(filter.Value))
	case OpContainsAny:
		return containsAny(asList(value), asList(filter.Value))
	case OpContainsNone:
		return !containsAny(asList(value), asList(filter.Value))
	case OpMatch:
		return matchOperator(value, filter.Value)
	case OpSemanticSimilar:
		// Backend-delegated; the in-memory engine evaluates as true
		// (actual ranking happens in a vector-capable repository).
		return true
	}
	return false
}

func asList(v any) []any {
	switch vv := v.(type) {
	case []any:
		return vv
	case nil:
		return nil
	default:
		return []any{vv}
	}
}

func memberOf(target any, list []any) bool {
	for _, item := range list {
		if compareEqual(target, item) {
			return true
		}
	}
	return false
}

func containsAll(fieldList, targetList []any) bool {
	for _, t := range targetList {
		if !memberOf(t, fieldList) {
			return false
		}
	}
	return true
}

func containsAny(fieldList, targetList []any) bool {
	for _, t := range targetList {
		if memberOf(t, fieldList) {
			return true
		}
	}
	return false
}

func compareEqual(a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

// compareOrder returns (-1/0/1, true) when a and b are order-comparable
// (both numeric or both strings), or (0, false) otherwise.
func compareOrder(a, b any) (int, bool) {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return strings.Compare(as, bs), true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch vv := v.(type) {
	case int:
		return float64(vv), true
	case int64:
		return float64(vv), true
	case float64:
		return vv, true
	case float32:
		return float64(vv), true
	default:
		return 0, false
	}
}

func matchOperator(value, target any) bool {
	vs, ok := value.(string)
	if !ok {
		vs = fmt.Sprintf("%v", value)
	}
	ts, ok := target.(string)
	if !ok {
		ts = fmt.Sprintf("%v", target)
	}
	pattern := buildMatchPattern(ts)
	re, err := regexp.Compile("(?is)" + pattern)
	if err != nil {
		return false
	}
	return re.MatchString(vs)
}

// buildMatchPattern turns a raw match target into a regex: every run of
// whitespace becomes ".*?" and all other regex metacharacters are
// escaped, giving a case-insensitive substring match.
func buildMatchPattern(s string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' {
			if !inSpace {
				b.WriteString(".*?")
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteString(regexp.QuoteMeta(string(r)))
	}
	return b.String()
}
