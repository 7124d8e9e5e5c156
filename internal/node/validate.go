package node

import "github.com/antbox/antbox/internal/result"

// Validate enforces the construction-time invariants: required fields per
// variant, mimetype/payload agreement, canonical parent for system-scoped
// variants, and identifier formats. It never touches a repository.
// Existence of `parent` and fid/uuid uniqueness are NodeService's job,
// because those require I/O.
func Validate(n *Node) *result.Error {
	var errs []result.PropertyError

	if n.Title == "" {
		errs = append(errs, result.PropertyError{
			PropertyCode: result.NodeTitleRequired, Property: "title",
			Message: "title is required",
		})
	}

	if n.Payload != nil && n.Payload.Kind() != n.Kind {
		errs = append(errs, result.PropertyError{
			PropertyCode: result.InvalidMimetype, Property: "mimetype",
			Message: "mimetype does not match the node's payload variant",
		})
	}

	if n.UUID != "" && !IsValidUUID(n.UUID) {
		errs = append(errs, result.PropertyError{
			PropertyCode: result.InvalidMimetype, Property: "uuid",
			Message: "uuid does not match the required identifier format",
		})
	}

	if canonical, ok := CanonicalParent(n.Kind); ok && n.Parent != "" && n.Parent != canonical {
		errs = append(errs, result.PropertyError{
			PropertyCode: result.InvalidParent, Property: "parent",
			Message: "this variant must be parented under its system folder",
		})
	}

	if n.Kind == KindUser {
		email, _ := n.Properties["email"].(string)
		if email == "" || !IsValidEmail(email) {
			errs = append(errs, result.PropertyError{
				PropertyCode: result.PropertyType, Property: "email",
				Message: "user nodes require a valid email",
			})
		}
	}

	if n.Kind == KindApiKey {
		if _, ok := n.Properties["secret"].(string); !ok {
			errs = append(errs, result.PropertyError{
				PropertyCode: result.PropertyRequired, Property: "secret",
				Message: "api key nodes require a secret",
			})
		}
	}

	if len(errs) > 0 {
		return result.NewValidation(errs...)
	}
	return nil
}

// These fields cannot change across Update.
var immutableFieldNames = map[string]bool{
	"uuid": true, "mimetype": true, "createdTime": true,
}

// ValidateUpdate checks that patch does not attempt to touch an immutable
// field and does not clear title. patch is the raw field-name keyed
// metadata delta NodeService applies.
func ValidateUpdate(current *Node, patch map[string]any) *result.Error {
	var errs []result.PropertyError
	for field := range patch {
		if immutableFieldNames[field] {
			errs = append(errs, result.PropertyError{
				PropertyCode: result.ImmutableField, Property: field,
				Message: "field is immutable and cannot be updated",
			})
		}
	}
	if canonical, ok := CanonicalParent(current.Kind); ok {
		if newParent, touched := patch["parent"]; touched {
			if s, _ := newParent.(string); s != canonical {
				errs = append(errs, result.PropertyError{
					PropertyCode: result.InvalidParent, Property: "parent",
					Message: "this variant's parent is canonical and cannot change",
				})
			}
		}
	}
	if title, touched := patch["title"]; touched {
		if s, _ := title.(string); s == "" {
			errs = append(errs, result.PropertyError{
				PropertyCode: result.NodeTitleRequired, Property: "title",
				Message: "update cannot clear title",
			})
		}
	}
	if len(errs) > 0 {
		return result.NewValidation(errs...)
	}
	return nil
}
