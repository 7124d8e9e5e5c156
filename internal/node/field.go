package node

import "strings"

// fieldFromEnvelope resolves dotted field paths against the envelope's
// well-known attributes and falls through to Properties for everything
// else, including "properties.<key>" explicit addressing and bare
// "<aspectUuid>:<propName>" keys.
func fieldFromEnvelope(path string, e *Envelope) (any, bool) {
	head, rest, hasRest := cutDot(path)
	switch head {
	case "uuid":
		return e.UUID, true
	case "fid":
		if e.Fid == "" {
			return nil, false
		}
		return e.Fid, true
	case "title":
		return e.Title, true
	case "description":
		if e.Description == "" {
			return nil, false
		}
		return e.Description, true
	case "parent":
		return e.Parent, true
	case "mimetype":
		return string(e.Kind), true
	case "owner":
		return e.Owner, true
	case "createdTime":
		return e.CreatedTime, true
	case "modifiedTime":
		return e.ModifiedTime, true
	case "locked":
		return e.Locked, true
	case "lockedBy":
		if e.LockedBy == "" {
			return nil, false
		}
		return e.LockedBy, true
	case "unlockAuthorizedGroups":
		return toAnySlice(e.UnlockAuthorizedGroups), true
	case "workflowInstanceUuid":
		if e.WorkflowInstanceUUID == "" {
			return nil, false
		}
		return e.WorkflowInstanceUUID, true
	case "workflowState":
		if e.WorkflowState == "" {
			return nil, false
		}
		return e.WorkflowState, true
	case "aspects":
		return toAnySlice(e.Aspects), true
	case "properties":
		if !hasRest {
			return e.Properties, e.Properties != nil
		}
		return lookupDotted(e.Properties, rest)
	case "permissions":
		if !hasRest {
			return e.Permissions, true
		}
		return fieldFromPermissions(rest, e.Permissions)
	default:
		// Aspect-scoped and ad-hoc properties are stored flat in
		// Properties, either as "<aspectUuid>:<propName>" or a bare name;
		// fall through to a direct (possibly dotted) lookup there first.
		if e.Properties != nil {
			if v, ok := e.Properties[path]; ok {
				return v, true
			}
		}
		return lookupDotted(e.Properties, path)
	}
}

func fieldFromPermissions(path string, p Permissions) (any, bool) {
	head, rest, hasRest := cutDot(path)
	switch head {
	case "group":
		return toPermSlice(p.Group), true
	case "authenticated":
		return toPermSlice(p.Authenticated), true
	case "anonymous":
		return toPermSlice(p.Anonymous), true
	case "advanced":
		if !hasRest {
			return p.Advanced, p.Advanced != nil
		}
		v, ok := p.Advanced[rest]
		if !ok {
			return nil, false
		}
		return toPermSlice(v), true
	}
	return nil, false
}

func toPermSlice(perms []Perm) []any {
	out := make([]any, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func cutDot(path string) (head, rest string, hasRest bool) {
	i := strings.IndexByte(path, '.')
	if i < 0 {
		return path, "", false
	}
	return path[:i], path[i+1:], true
}

func lookupDotted(m map[string]any, path string) (any, bool) {
	if m == nil {
		return nil, false
	}
	head, rest, hasRest := cutDot(path)
	v, ok := m[head]
	if !ok {
		return nil, false
	}
	if !hasRest {
		return v, true
	}
	sub, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return lookupDotted(sub, rest)
}
