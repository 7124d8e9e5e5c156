package node

import (
	"fmt"
	"time"
)

// FromMetadata rehydrates a typed Node (envelope + variant Payload) from a
// raw metadata map, the shape a document-oriented repository hands back,
// failing if the mimetype discriminator is unknown. It is the read-side
// inverse of ToMetadata.
func FromMetadata(m map[string]any) (*Node, error) {
	mimetype, _ := m["mimetype"].(string)
	if mimetype == "" {
		return nil, fmt.Errorf("node: metadata missing mimetype discriminator")
	}
	kind := Kind(mimetype)

	n := &Node{
		Envelope: Envelope{
			UUID:        str(m["uuid"]),
			Fid:         str(m["fid"]),
			Title:       str(m["title"]),
			Description: str(m["description"]),
			Parent:      str(m["parent"]),
			Kind:        kind,
			Owner:       str(m["owner"]),
			Locked:      boolOf(m["locked"]),
			LockedBy:    str(m["lockedBy"]),

			WorkflowInstanceUUID: str(m["workflowInstanceUuid"]),
			WorkflowState:        str(m["workflowState"]),
		},
	}
	n.CreatedTime = timeOf(m["createdTime"])
	n.ModifiedTime = timeOf(m["modifiedTime"])
	n.UnlockAuthorizedGroups = strSlice(m["unlockAuthorizedGroups"])
	n.Aspects = strSlice(m["aspects"])
	if props, ok := m["properties"].(map[string]any); ok {
		n.Properties = props
	}
	n.Permissions = permissionsOf(m["permissions"])

	switch kind {
	case KindFolder:
		n.Payload = FolderPayload{
			OnCreate: strSlice(m["onCreate"]),
			OnUpdate: strSlice(m["onUpdate"]),
		}
	case KindSmartFolder:
		n.Payload = SmartFolderPayload{Filters: m["filters"]}
	case KindFile:
		n.Payload = FilePayload{Size: int64Of(m["size"])}
	case KindMeta:
		n.Payload = MetaPayload{}
	case KindAspect:
		n.Payload = AspectPayload{
			Filters:    m["filters"],
			Properties: aspectPropertiesOf(m["properties_schema"]),
		}
	case KindUser, KindGroup, KindApiKey, KindAgent, KindWorkflow, KindFeature, KindArticle:
		// These variants keep their specifics in Properties; no typed
		// Payload beyond the Kind discriminator.
	default:
		return nil, fmt.Errorf("node: unknown mimetype discriminator %q", mimetype)
	}
	return n, nil
}

// ToMetadata flattens a Node back to a raw map, the write-side counterpart
// repositories serialize (couchdb/mongo documents, postgres JSONB column).
func ToMetadata(n *Node) map[string]any {
	m := map[string]any{
		"uuid":        n.UUID,
		"fid":         n.Fid,
		"title":       n.Title,
		"description": n.Description,
		"parent":      n.Parent,
		"mimetype":    string(n.Kind),
		"owner":       n.Owner,
		"createdTime": n.CreatedTime.UTC().Format(time.RFC3339),
		"modifiedTime": n.ModifiedTime.UTC().Format(time.RFC3339),
		"locked":      n.Locked,
		"lockedBy":    n.LockedBy,
		"unlockAuthorizedGroups": n.UnlockAuthorizedGroups,
		"workflowInstanceUuid":   n.WorkflowInstanceUUID,
		"workflowState":          n.WorkflowState,
		"aspects":                n.Aspects,
		"properties":             n.Properties,
		"permissions": map[string]any{
			"group":         permStrings(n.Permissions.Group),
			"authenticated": permStrings(n.Permissions.Authenticated),
			"anonymous":     permStrings(n.Permissions.Anonymous),
			"advanced":      advancedStrings(n.Permissions.Advanced),
		},
	}
	switch p := n.Payload.(type) {
	case FolderPayload:
		m["onCreate"] = p.OnCreate
		m["onUpdate"] = p.OnUpdate
	case SmartFolderPayload:
		m["filters"] = p.Filters
	case FilePayload:
		m["size"] = p.Size
	case AspectPayload:
		m["filters"] = p.Filters
		m["properties_schema"] = p.Properties
	}
	return m
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func boolOf(v any) bool {
	b, _ := v.(bool)
	return b
}

func int64Of(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

func timeOf(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func strSlice(v any) []string {
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

func permissionsOf(v any) Permissions {
	m, ok := v.(map[string]any)
	if !ok {
		return Permissions{Advanced: map[string][]Perm{}}
	}
	return Permissions{
		Group:         permSlice(m["group"]),
		Authenticated: permSlice(m["authenticated"]),
		Anonymous:     permSlice(m["anonymous"]),
		Advanced:      advancedPerms(m["advanced"]),
	}
}

func permSlice(v any) []Perm {
	ss := strSlice(v)
	out := make([]Perm, len(ss))
	for i, s := range ss {
		out[i] = Perm(s)
	}
	return out
}

func permStrings(perms []Perm) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}

func advancedPerms(v any) map[string][]Perm {
	m, ok := v.(map[string]any)
	out := map[string][]Perm{}
	if !ok {
		return out
	}
	for k, val := range m {
		out[k] = permSlice(val)
	}
	return out
}

func advancedStrings(m map[string][]Perm) map[string][]string {
	out := map[string][]string{}
	for k, v := range m {
		out[k] = permStrings(v)
	}
	return out
}

func aspectPropertiesOf(v any) []AspectProperty {
	list, ok := v.([]any)
	if !ok {
		if typed, ok := v.([]AspectProperty); ok {
			return typed
		}
		return nil
	}
	out := make([]AspectProperty, 0, len(list))
	for _, e := range list {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, AspectProperty{
			Name:            str(m["name"]),
			Title:           str(m["title"]),
			Type:            AspectPropertyType(str(m["type"])),
			ArrayType:       AspectPropertyType(str(m["arrayType"])),
			Required:        boolOf(m["required"]),
			Readonly:        boolOf(m["readonly"]),
			Searchable:      boolOf(m["searchable"]),
			Default:         m["default"],
			ValidationRegex: str(m["validationRegex"]),
			ValidationList:  strSlice(m["validationList"]),
			StringMimetype:  str(m["stringMimetype"]),
		})
	}
	return out
}
