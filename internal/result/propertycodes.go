package result

// Property-level validation codes, the values carried in
// PropertyError.PropertyCode.
const (
	PropertyRequired          = "PropertyRequired"
	PropertyType              = "PropertyType"
	PropertyNotInList         = "PropertyNotInList"
	PropertyDoesNotMatchRegex = "PropertyDoesNotMatchRegex"
	ReadonlyProperty          = "ReadonlyProperty"
	NodeTitleRequired         = "NodeTitleRequired"
	InvalidMimetype           = "InvalidMimetype"
	InvalidParent             = "InvalidParent"
	ImmutableField            = "ImmutableField"
)
