package nodeservice

import (
	"context"

	"github.com/antbox/antbox/internal/eventbus"
	"github.com/antbox/antbox/internal/node"
	"github.com/antbox/antbox/internal/permission"
	"github.com/antbox/antbox/internal/result"
)

// Update applies patch to the node named by id: Write check (propagated
// to the immediate parent only), immutable-field/canonical-parent
// rejection, cycle detection
// when parent changes, aspect re-validation, and ModifiedTime stamping.
func (s *Service) Update(ctx context.Context, caller permission.Principal, id string, patch map[string]any) (*node.Node, *result.Error) {
	current, err := s.resolveID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !permission.CanWithAncestry(caller, current, node.PermWrite, s.ancestorLookup(ctx)) {
		return nil, writeDenied(caller, current)
	}
	if err := node.ValidateUpdate(current, patch); err != nil {
		return nil, err
	}

	if newParent, touched := patch["parent"]; touched {
		p, _ := newParent.(string)
		if node.WouldCreateCycle(current.UUID, p, s.parentLookup(ctx)) {
			return nil, result.BadRequest("update would create a cycle in the node tree")
		}
		if _, perr := s.Repo.GetByID(ctx, p); perr != nil && p != node.RootFolderUUID {
			return nil, result.BadRequest("new parent does not exist: " + p)
		}
		current.Parent = p
	}
	if title, touched := patch["title"]; touched {
		current.Title, _ = title.(string)
	}
	if description, touched := patch["description"]; touched {
		current.Description, _ = description.(string)
	}
	if props, touched := patch["properties"]; touched {
		if m, ok := props.(map[string]any); ok {
			current.Properties = mergeProperties(current.Properties, m)
		}
	}
	if aspects, touched := patch["aspects"]; touched {
		current.Aspects = toStringSlice(aspects)
	}

	if err := s.validateAspects(ctx, current); err != nil {
		return nil, err
	}

	current.ModifiedTime = s.now()
	if err := s.Repo.Update(ctx, current); err != nil {
		return nil, err
	}

	s.publish(eventbus.Envelope{Type: eventbus.NodeUpdated, UUID: current.UUID, ParentID: current.Parent})
	return current, nil
}

// UpdateFile replaces a File-variant node's binary body, re-stamping
// ModifiedTime and the payload's recorded
// size, after the same Write check Update applies.
func (s *Service) UpdateFile(ctx context.Context, caller permission.Principal, id string, body []byte) (*node.Node, *result.Error) {
	current, err := s.resolveID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Kind != node.KindFile {
		return nil, result.NodeType("updateFile requires a File-variant node")
	}
	if !permission.CanWithAncestry(caller, current, node.PermWrite, s.ancestorLookup(ctx)) {
		return nil, writeDenied(caller, current)
	}
	if werr := s.Store.Write(ctx, current.UUID, bytesReader(body), storageOptsFor(current)); werr != nil {
		return nil, werr
	}
	current.Payload = node.FilePayload{Size: int64(len(body))}
	current.ModifiedTime = s.now()
	if uerr := s.Repo.Update(ctx, current); uerr != nil {
		return nil, uerr
	}
	s.publish(eventbus.Envelope{Type: eventbus.NodeUpdated, UUID: current.UUID, ParentID: current.Parent})
	return current, nil
}

func mergeProperties(base, patch map[string]any) map[string]any {
	out := map[string]any{}
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

func toStringSlice(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
