package translate

import (
	"fmt"
	"strings"

	"github.com/antbox/antbox/internal/nodefilter"
)

// PromotedColumns are the metadata fields projected out of the JSON
// envelope into first-class columns for query planners.
var PromotedColumns = map[string]bool{
	"uuid": true, "fid": true, "title": true, "parent": true, "mimetype": true,
}

// ToSQL renders a DNF filter set into a parameterised SQL WHERE clause for
// the gorm/postgres repository. Promoted columns are referenced directly;
// everything else is read out of the `envelope` JSONB column with `#>>`.
func ToSQL(fs nodefilter.Filters) (string, []any) {
	if len(fs) == 0 {
		return "", nil
	}
	var args []any
	orClauses := make([]string, 0, len(fs))
	for _, conj := range fs {
		andClauses := make([]string, 0, len(conj))
		for _, f := range conj {
			clause, a, ok := sqlCondition(f)
			if !ok {
				continue
			}
			andClauses = append(andClauses, clause)
			args = append(args, a...)
		}
		if len(andClauses) == 0 {
			orClauses = append(orClauses, "TRUE")
			continue
		}
		orClauses = append(orClauses, "("+strings.Join(andClauses, " AND ")+")")
	}
	return strings.Join(orClauses, " OR "), args
}

func sqlColumn(field string) string {
	if PromotedColumns[field] {
		return field
	}
	// properties.* and everything else lives in the envelope JSONB column.
	return fmt.Sprintf("envelope #>> '{%s}'", strings.ReplaceAll(field, ".", ","))
}

func sqlCondition(f nodefilter.Filter) (string, []any, bool) {
	col := sqlColumn(f.Field)
	switch f.Op {
	case nodefilter.OpEq:
		return col + " = ?", []any{f.Value}, true
	case nodefilter.OpNeq:
		return col + " <> ?", []any{f.Value}, true
	case nodefilter.OpLt:
		return col + " < ?", []any{f.Value}, true
	case nodefilter.OpLte:
		return col + " <= ?", []any{f.Value}, true
	case nodefilter.OpGt:
		return col + " > ?", []any{f.Value}, true
	case nodefilter.OpGte:
		return col + " >= ?", []any{f.Value}, true
	case nodefilter.OpIn:
		return col + " IN ?", []any{f.Value}, true
	case nodefilter.OpNotIn:
		return col + " NOT IN ?", []any{f.Value}, true
	case nodefilter.OpMatch:
		return col + " ILIKE ?", []any{"%" + strings.Join(strings.Fields(fmt.Sprintf("%v", f.Value)), "%") + "%"}, true
	default:
		return "", nil, false
	}
}
