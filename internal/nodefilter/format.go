package nodefilter

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders a DNF filter set back to the textual grammar. It always
// quotes string scalars so that Format(Parse(s)) round-trips to an
// equivalent DNF whatever characters the original value contained, except
// a literal double quote (see formatScalar): Format(Parse(s)) parses back
// to the same DNF.
func Format(fs Filters) string {
	groups := make([]string, 0, len(fs))
	for _, conj := range fs {
		clauses := make([]string, 0, len(conj))
		for _, f := range conj {
			clauses = append(clauses, formatClause(f))
		}
		groups = append(groups, strings.Join(clauses, ","))
	}
	return strings.Join(groups, "|")
}

// formatClause renders one triple. Word operators ("in", "contains-any",
// "match", ...) are set off by spaces, since the parser only recognises
// them on word boundaries.
func formatClause(f Filter) string {
	if isWordOp(f.Op) {
		return fmt.Sprintf("%s %s %s", f.Field, f.Op, formatValue(f.Value))
	}
	return fmt.Sprintf("%s%s%s", f.Field, f.Op, formatValue(f.Value))
}

func formatValue(v any) string {
	switch vv := v.(type) {
	case nil:
		return "null"
	case []any:
		parts := make([]string, 0, len(vv))
		for _, e := range vv {
			parts = append(parts, formatScalar(e))
		}
		return "(" + strings.Join(parts, ",") + ")"
	default:
		return formatScalar(v)
	}
}

func formatScalar(v any) string {
	switch vv := v.(type) {
	case string:
		// Values containing a literal double quote are not round-trippable
		// by this grammar (the parser has no escape sequence); callers must
		// avoid embedding '"' in filter values.
		return `"` + vv + `"`
	case bool:
		if vv {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(vv)
	case int64:
		return strconv.FormatInt(vv, 10)
	case float64:
		return strconv.FormatFloat(vv, 'g', -1, 64)
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%v", vv)
	}
}
