package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/antbox/antbox/internal/nodefilter"
)

func TestToMangoPushesPromotedEquality(t *testing.T) {
	fs, _ := nodefilter.Parse(`parent=="p1"`)
	m := ToMango(fs)
	assert.Equal(t, map[string]any{"parent": map[string]any{"$eq": "p1"}}, m)
}

func TestToSQLUsesPromotedColumnDirectly(t *testing.T) {
	fs, _ := nodefilter.Parse(`parent=="p1"`)
	where, args := ToSQL(fs)
	assert.Equal(t, "(parent = ?)", where)
	assert.Equal(t, []any{"p1"}, args)
}

func TestToSQLFallsBackToJSONBForNonPromoted(t *testing.T) {
	fs, _ := nodefilter.Parse(`properties.code=="ABC"`)
	where, _ := ToSQL(fs)
	assert.Contains(t, where, "envelope #>> '{properties,code}'")
}

func TestToMongoFilterContainsAll(t *testing.T) {
	fs, _ := nodefilter.Parse(`tags contains-all (a,b)`)
	m := ToMongoFilter(fs)
	assert.Equal(t, map[string]any{"tags": map[string]any{"$all": []any{"a", "b"}}}, m)
}
