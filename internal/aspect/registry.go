package aspect

import (
	"context"

	"github.com/antbox/antbox/internal/node"
	"github.com/antbox/antbox/internal/result"
)

// Fetcher resolves an Aspect node by uuid. NodeService's repository
// satisfies this trivially; kept as a narrow interface so this package
// doesn't import the repository port.
type Fetcher interface {
	GetAspect(ctx context.Context, uuid string) (*node.Node, *result.Error)
}

// ValidateAll evaluates every aspect attached to props against the
// corresponding Aspect node fetched through f, aggregating all failures
// into a single ValidationError.
func ValidateAll(ctx context.Context, f Fetcher, aspectUUIDs []string, props map[string]any) *result.Error {
	var agg *result.Error
	for _, uuid := range aspectUUIDs {
		aspectNode, err := f.GetAspect(ctx, uuid)
		if err != nil {
			agg = result.Merge(agg, result.NewValidation(result.PropertyError{
				PropertyCode: result.PropertyType, Property: "aspects",
				Message: "aspect " + uuid + " could not be loaded: " + err.Error(),
			}))
			continue
		}
		payload, ok := aspectNode.Payload.(node.AspectPayload)
		if !ok {
			continue
		}
		if verr := Validate(uuid, payload, props); verr != nil {
			agg = result.Merge(agg, verr)
		}
	}
	return agg
}
