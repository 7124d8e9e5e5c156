package aspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antbox/antbox/internal/node"
)

func TestSpecificationRequiresAndRegex(t *testing.T) {
	props := []node.AspectProperty{
		{Name: "code", Type: node.PropString, Required: true, ValidationRegex: `^[A-Z]+$`},
	}
	spec := SpecificationFrom("A", props)

	err := spec(map[string]any{"A:code": "abc"})
	require.NotNil(t, err)
	assert.True(t, err.Has("PropertyDoesNotMatchRegex"))

	assert.Nil(t, spec(map[string]any{"A:code": "ABC"}))

	err = spec(map[string]any{})
	require.NotNil(t, err)
	assert.True(t, err.Has("PropertyRequired"))
}

func TestSpecificationValidationList(t *testing.T) {
	props := []node.AspectProperty{
		{Name: "status", Type: node.PropString, ValidationList: []string{"open", "closed"}},
	}
	spec := SpecificationFrom("A", props)
	assert.Nil(t, spec(map[string]any{"A:status": "open"}))
	err := spec(map[string]any{"A:status": "pending"})
	require.NotNil(t, err)
	assert.True(t, err.Has("PropertyNotInList"))
}

func TestSpecificationArrayType(t *testing.T) {
	props := []node.AspectProperty{
		{Name: "tags", Type: node.PropArray, ArrayType: node.PropString, Required: true},
	}
	spec := SpecificationFrom("A", props)
	assert.Nil(t, spec(map[string]any{"A:tags": []any{"a", "b"}}))
	err := spec(map[string]any{"A:tags": []any{}})
	require.NotNil(t, err)
	assert.True(t, err.Has("PropertyRequired"))
}

func TestFalseLiteralCountsAsPresent(t *testing.T) {
	props := []node.AspectProperty{
		{Name: "active", Type: node.PropBoolean, Required: true},
	}
	spec := SpecificationFrom("A", props)
	assert.Nil(t, spec(map[string]any{"A:active": false}))
}

func TestValidateAspectDefaultRejectsBadDefault(t *testing.T) {
	p := node.AspectProperty{Name: "code", Type: node.PropString, ValidationRegex: `^[A-Z]+$`, Default: "bad"}
	err := ValidateAspectDefault(p)
	require.NotNil(t, err)
	assert.True(t, err.Has("PropertyDoesNotMatchRegex"))
}
