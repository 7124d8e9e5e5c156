package nodefilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasic(t *testing.T) {
	fs, err := Parse(`title=="r",mimetype==FOLDER|owner=="a@b.com"`)
	require.NoError(t, err)
	require.Len(t, fs, 2)
	assert.Len(t, fs[0], 2)
	assert.Equal(t, Filter{Field: "title", Op: OpEq, Value: "r"}, fs[0][0])
	assert.Equal(t, Filter{Field: "mimetype", Op: OpEq, Value: "FOLDER"}, fs[0][1])
	assert.Len(t, fs[1], 1)
	assert.Equal(t, Filter{Field: "owner", Op: OpEq, Value: "a@b.com"}, fs[1][0])
}

func TestParseOperatorsLongestFirst(t *testing.T) {
	fs, err := Parse(`tags contains-all (a,"b c")`)
	require.NoError(t, err)
	require.Len(t, fs, 1)
	f := fs[0][0]
	assert.Equal(t, OpContainsAll, f.Op)
	assert.Equal(t, []any{"a", "b c"}, f.Value)

	fs2, err := Parse(`size>=10`)
	require.NoError(t, err)
	assert.Equal(t, OpGte, fs2[0][0].Op)
}

func TestParseBareStringIsNotAFilter(t *testing.T) {
	_, err := Parse("not-a-filter")
	assert.Error(t, err)
}

func TestFormatRoundTrip(t *testing.T) {
	original := `title=="r",size>=10|tags contains-any (a,b)`
	fs, err := Parse(original)
	require.NoError(t, err)
	formatted := Format(fs)
	reparsed, err := Parse(formatted)
	require.NoError(t, err)
	assert.Equal(t, fs, reparsed)
}

func TestEvaluateDNF(t *testing.T) {
	node := MapFielder{
		"title":    "report.txt",
		"mimetype": "File",
		"owner":    "a@b.com",
		"properties": map[string]any{
			"tags": []any{"red", "blue"},
		},
	}
	fs, err := Parse(`title=="missing"|owner=="a@b.com"`)
	require.NoError(t, err)
	assert.True(t, Evaluate(fs, node))

	fs2, err := Parse(`owner=="nobody"`)
	require.NoError(t, err)
	assert.False(t, Evaluate(fs2, node))
}

func TestAbsentFieldTruthyOperators(t *testing.T) {
	node := MapFielder{"title": "x"}
	fs, _ := Parse(`missing!="y"`)
	assert.True(t, Evaluate(fs, node))
	fs2, _ := Parse(`missing=="y"`)
	assert.False(t, Evaluate(fs2, node))
}

func TestContainsOperators(t *testing.T) {
	node := MapFielder{
		"properties": map[string]any{"tags": []any{"red", "blue", "green"}},
	}
	fsAll, _ := Parse(`properties.tags contains-all (red,blue)`)
	assert.True(t, Evaluate(fsAll, node))
	fsAny, _ := Parse(`properties.tags contains-any (purple,green)`)
	assert.True(t, Evaluate(fsAny, node))
	fsNone, _ := Parse(`properties.tags contains-none (purple,yellow)`)
	assert.True(t, Evaluate(fsNone, node))
}

func TestMatchOperatorWhitespace(t *testing.T) {
	node := MapFielder{"title": "Quarterly Sales Report 2026"}
	fs, _ := Parse(`title match "sales  report"`)
	assert.True(t, Evaluate(fs, node))
}
