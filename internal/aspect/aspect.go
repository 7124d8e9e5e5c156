// Package aspect implements user-defined property schemas attachable to
// aspectable node variants. It is a pure function of an Aspect
// definition and a properties map so it can be unit tested without a
// repository dependency.
package aspect

import (
	"fmt"
	"regexp"

	"github.com/antbox/antbox/internal/node"
	"github.com/antbox/antbox/internal/result"
)

// Key returns the composite properties-map key for a property of aspect
// aspectUUID: aspectUUID + ":" + propName.
func Key(aspectUUID, propName string) string {
	return aspectUUID + ":" + propName
}

// SpecificationFrom returns a predicate function that is the AND of one
// sub-predicate per declared property. The predicate reads
// values out of props keyed by Key(aspectUUID, prop.Name).
func SpecificationFrom(aspectUUID string, properties []node.AspectProperty) func(props map[string]any) *result.Error {
	return func(props map[string]any) *result.Error {
		var errs []result.PropertyError
		for _, p := range properties {
			key := Key(aspectUUID, p.Name)
			v, present := props[key]
			errs = append(errs, checkProperty(p, key, v, present)...)
		}
		if len(errs) > 0 {
			return result.NewValidation(errs...)
		}
		return nil
	}
}

// Validate is a convenience wrapper matching NodeService's call shape:
// fetch the Aspect node, derive its specification, evaluate it against the
// node's properties.
func Validate(aspectUUID string, aspectPayload node.AspectPayload, props map[string]any) *result.Error {
	return SpecificationFrom(aspectUUID, aspectPayload.Properties)(props)
}

func checkProperty(p node.AspectProperty, key string, v any, present bool) []result.PropertyError {
	var errs []result.PropertyError

	// 1. Required: a literal false counts as present; empty arrays fail.
	if !propertyPresent(v, present) {
		if p.Required {
			errs = append(errs, result.PropertyError{
				PropertyCode: result.PropertyRequired, Property: key,
				Message: fmt.Sprintf("property %s is required", p.Name),
			})
		}
		return errs // nothing further to check on an absent value
	}

	// 2. Type.
	if !checkType(p.Type, p.ArrayType, v) {
		errs = append(errs, result.PropertyError{
			PropertyCode: result.PropertyType, Property: key,
			Message: fmt.Sprintf("property %s does not match declared type %s", p.Name, p.Type),
		})
		return errs // type mismatch makes list/regex checks meaningless
	}

	// 3 & 4: validation list / regex apply only to string or array-of-string.
	if isStringLike(p.Type, p.ArrayType) {
		values := scalarsOf(v)
		if len(p.ValidationList) > 0 {
			for _, s := range values {
				if !inList(s, p.ValidationList) {
					errs = append(errs, result.PropertyError{
						PropertyCode: result.PropertyNotInList, Property: key,
						Message: fmt.Sprintf("property %s value %q is not in the validation list", p.Name, s),
					})
				}
			}
		}
		if p.ValidationRegex != "" {
			re, err := regexp.Compile(p.ValidationRegex)
			if err == nil {
				for _, s := range values {
					if !re.MatchString(s) {
						errs = append(errs, result.PropertyError{
							PropertyCode: result.PropertyDoesNotMatchRegex, Property: key,
							Message: fmt.Sprintf("property %s value %q does not match %s", p.Name, s, p.ValidationRegex),
						})
					}
				}
			}
		}
	}

	if p.Readonly {
		// Readonly is enforced by NodeService refusing to apply a patch
		// touching the key at all (caught upstream as result.ReadonlyProperty);
		// nothing further to validate here about the value itself.
		_ = p.Readonly
	}

	return errs
}

func propertyPresent(v any, present bool) bool {
	if !present {
		return false
	}
	if arr, ok := v.([]any); ok {
		return len(arr) > 0
	}
	return true
}

func checkType(t, arrayType node.AspectPropertyType, v any) bool {
	switch t {
	case node.PropString, node.PropText, node.PropRichText, node.PropUUID, node.PropDate, node.PropDateTime:
		_, ok := v.(string)
		return ok
	case node.PropNumber:
		return isNumber(v)
	case node.PropBoolean:
		_, ok := v.(bool)
		return ok
	case node.PropArray:
		arr, ok := v.([]any)
		if !ok {
			return false
		}
		if arrayType == "" {
			return true
		}
		for _, e := range arr {
			if !checkType(arrayType, "", e) {
				return false
			}
		}
		return true
	default:
		// json and unrecognised types defer to the caller.
		return true
	}
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int64, float64, float32:
		return true
	default:
		return false
	}
}

func isStringLike(t, arrayType node.AspectPropertyType) bool {
	if t == node.PropString {
		return true
	}
	if t == node.PropArray && arrayType == node.PropString {
		return true
	}
	return false
}

func scalarsOf(v any) []string {
	if arr, ok := v.([]any); ok {
		out := make([]string, 0, len(arr))
		for _, e := range arr {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	if s, ok := v.(string); ok {
		return []string{s}
	}
	return nil
}

func inList(s string, list []string) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}

// ValidateAspectDefault is invoked at Aspect create time:
// an aspect whose declared default fails its own property constraints is
// rejected outright.
func ValidateAspectDefault(p node.AspectProperty) *result.Error {
	if p.Default == nil {
		return nil
	}
	errs := checkProperty(p, p.Name, p.Default, true)
	if len(errs) > 0 {
		return result.NewValidation(errs...)
	}
	return nil
}
