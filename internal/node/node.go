// Package node implements the Antbox tagged-variant node model: a shared
// metadata envelope plus a discriminated payload per kind. Shared
// behaviour (timestamps, field lookup for the filter engine, the
// owner/admin/lock checks consumed by the permission evaluator) lives on
// the envelope; per-variant validation dispatches on the Kind
// discriminator.
package node

import "time"

// Kind discriminates the node variant; it is immutable once a node is
// created.
type Kind string

const (
	KindFolder      Kind = "Folder"
	KindSmartFolder Kind = "SmartFolder"
	KindFile        Kind = "File"
	KindMeta        Kind = "Meta"
	KindAspect      Kind = "Aspect"
	KindUser        Kind = "User"
	KindGroup       Kind = "Group"
	KindApiKey      Kind = "ApiKey"
	KindAgent       Kind = "Agent"
	KindWorkflow    Kind = "Workflow"
	KindFeature     Kind = "Feature"
	KindArticle     Kind = "Article"
)

// Perm is one of the three permission grants a principal can hold on a
// node.
type Perm string

const (
	PermRead   Perm = "Read"
	PermWrite  Perm = "Write"
	PermExport Perm = "Export"
)

// Permissions is the permission vector carried by every non-system node.
type Permissions struct {
	Group         []Perm            `json:"group"`
	Authenticated []Perm            `json:"authenticated"`
	Anonymous     []Perm            `json:"anonymous"`
	Advanced      map[string][]Perm `json:"advanced"`
}

// HasPerm reports whether perms contains p.
func HasPerm(perms []Perm, p Perm) bool {
	for _, x := range perms {
		if x == p {
			return true
		}
	}
	return false
}

// Envelope carries the attributes every node variant shares.
type Envelope struct {
	UUID        string `json:"uuid"`
	Fid         string `json:"fid,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Parent      string `json:"parent"`
	Kind        Kind   `json:"mimetype"`
	Owner       string `json:"owner"`

	CreatedTime  time.Time `json:"createdTime"`
	ModifiedTime time.Time `json:"modifiedTime"`

	Permissions Permissions `json:"permissions"`

	Locked                 bool     `json:"locked,omitempty"`
	LockedBy               string   `json:"lockedBy,omitempty"`
	UnlockAuthorizedGroups []string `json:"unlockAuthorizedGroups,omitempty"`

	WorkflowInstanceUUID string `json:"workflowInstanceUuid,omitempty"`
	WorkflowState        string `json:"workflowState,omitempty"`

	// Aspects lists the uuids of Aspect nodes attached to this node.
	Aspects []string `json:"aspects,omitempty"`

	// Properties holds variant-specific and aspect-scoped values. Aspect
	// properties are keyed "<aspectUuid>:<propName>"; plain variant
	// properties (e.g. group/groups on a User) are keyed by their own
	// name.
	Properties map[string]any `json:"properties,omitempty"`
}

// Node is the sum type over all variants: the shared Envelope plus a Kind-
// specific Payload. Payload is nil for variants with nothing beyond the
// envelope once their fields have been folded into Properties (User,
// Group, ApiKey use Properties for simplicity; Folder/SmartFolder/File/
// Aspect carry a typed Payload because their fields participate directly
// in validation and in NodeService algorithms).
type Node struct {
	Envelope
	Payload Payload
}

// Payload is implemented by each variant's specific fields.
type Payload interface {
	Kind() Kind
}

// FolderPayload backs the Folder variant.
type FolderPayload struct {
	OnCreate []string `json:"onCreate,omitempty"`
	OnUpdate []string `json:"onUpdate,omitempty"`
}

func (FolderPayload) Kind() Kind { return KindFolder }

// SmartFolderPayload backs the SmartFolder variant: no children are
// stored, contents are computed on read via Filters.
type SmartFolderPayload struct {
	Filters any `json:"filters"` // nodefilter.Filters, kept as `any` to avoid an import cycle with nodefilter's Fielder-only surface
}

func (SmartFolderPayload) Kind() Kind { return KindSmartFolder }

// FilePayload backs the File variant. The binary body itself lives in the
// storage provider, addressed by the node's uuid.
type FilePayload struct {
	Size int64 `json:"size"`
}

func (FilePayload) Kind() Kind { return KindFile }

// MetaPayload backs the Meta variant: metadata-only, aspect-typed, no
// binary body.
type MetaPayload struct{}

func (MetaPayload) Kind() Kind { return KindMeta }

// AspectPropertyType is the closed set of property value types an Aspect
// can declare.
type AspectPropertyType string

const (
	PropString   AspectPropertyType = "string"
	PropNumber   AspectPropertyType = "number"
	PropBoolean  AspectPropertyType = "boolean"
	PropDate     AspectPropertyType = "date"
	PropDateTime AspectPropertyType = "dateTime"
	PropUUID     AspectPropertyType = "uuid"
	PropRichText AspectPropertyType = "richText"
	PropText     AspectPropertyType = "text"
	PropJSON     AspectPropertyType = "json"
	PropArray    AspectPropertyType = "array"
)

// AspectProperty is a single declared property inside an Aspect.
type AspectProperty struct {
	Name             string             `json:"name"`
	Title            string             `json:"title"`
	Type             AspectPropertyType `json:"type"`
	ArrayType        AspectPropertyType `json:"arrayType,omitempty"`
	Required         bool               `json:"required,omitempty"`
	Readonly         bool               `json:"readonly,omitempty"`
	Searchable       bool               `json:"searchable,omitempty"`
	Default          any                `json:"default,omitempty"`
	ValidationRegex  string             `json:"validationRegex,omitempty"`
	ValidationList   []string           `json:"validationList,omitempty"`
	ValidationFilter any                `json:"validationFilters,omitempty"`
	StringMimetype   string             `json:"stringMimetype,omitempty"`
}

// AspectPayload backs the Aspect variant: a reusable schema.
type AspectPayload struct {
	Filters    any              `json:"filters,omitempty"`
	Properties []AspectProperty `json:"properties"`
}

func (AspectPayload) Kind() Kind { return KindAspect }

// Field implements nodefilter.Fielder: it resolves a dotted field path
// against the envelope first, then against Properties, so filter
// expressions can address either shared metadata or aspect-scoped values
// uniformly.
func (n *Node) Field(path string) (any, bool) {
	return fieldFromEnvelope(path, &n.Envelope)
}
