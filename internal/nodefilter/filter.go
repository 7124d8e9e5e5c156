// Package nodefilter implements the uniform DNF filter language used by
// find, smart folders, workflow applicability and feature triggers:
// OR-of-AND triples [field, operator, value].
package nodefilter

import "fmt"

// Op is the closed set of comparison operators recognised by the engine.
type Op string

const (
	OpEq             Op = "=="
	OpNeq            Op = "!="
	OpLt             Op = "<"
	OpLte            Op = "<="
	OpGt             Op = ">"
	OpGte            Op = ">="
	OpIn             Op = "in"
	OpNotIn          Op = "not-in"
	OpContains       Op = "contains"
	OpNotContains    Op = "not-contains"
	OpContainsAll    Op = "contains-all"
	OpContainsAny    Op = "contains-any"
	OpContainsNone   Op = "contains-none"
	OpMatch          Op = "match"
	OpSemanticSimilar Op = "~="
)

// operatorsLongestFirst disambiguates lexing: "contains-all" must be tried
// before "contains", and ">=" before ">".
var operatorsLongestFirst = []Op{
	OpContainsAll, OpContainsAny, OpContainsNone, OpNotContains, OpContains,
	OpNotIn, OpIn, OpGte, OpLte, OpNeq, OpEq, OpGt, OpLt, OpMatch, OpSemanticSimilar,
}

// Filter is a single [field, op, value] triple.
type Filter struct {
	Field string
	Op    Op
	Value any
}

func (f Filter) String() string {
	return fmt.Sprintf("%s%s%s", f.Field, f.Op, formatValue(f.Value))
}

// Filters1D is an AND-conjunction of filters.
type Filters1D []Filter

// Filters is either a 1-D conjunction or a 2-D disjunction-of-conjunctions
// (DNF). It is always stored normalised as DNF: a bare Filters1D is treated
// as a single-clause DNF of one conjunction.
type Filters [][]Filter

// FromConjunction wraps a single AND-conjunction as a one-clause DNF.
func FromConjunction(f Filters1D) Filters {
	if len(f) == 0 {
		return Filters{}
	}
	return Filters{[]Filter(f)}
}

// IsEmpty reports whether the filter set has no clauses (matches nothing
// when used as a predicate, matches everything when used as "no filter
// supplied" (callers decide which convention applies; the engine itself
// treats an empty DNF as "no clauses satisfied" i.e. false).
func (fs Filters) IsEmpty() bool { return len(fs) == 0 }

// isValidOp reports whether op is one of the closed set.
func isValidOp(op Op) bool {
	for _, o := range operatorsLongestFirst {
		if o == op {
			return true
		}
	}
	return false
}
