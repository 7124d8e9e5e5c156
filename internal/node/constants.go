package node

// System singleton uuids. These are reserved and indelible: the kernel
// creates them on first use and refuses delete().
const (
	RootFolderUUID  = "--root--"
	AspectsUUID     = "--aspects--"
	UsersUUID       = "--users--"
	GroupsUUID      = "--groups--"
	ApiKeysUUID     = "--api-keys--"
	AgentsUUID      = "--agents--"
	WorkflowsUUID   = "--workflows--"
	FeaturesUUID    = "--features--"
	AdminsGroupUUID = "--admins--"
	AnonymousUUID   = "--anonymous--"
	RootUserUUID    = "--root--"
	RagAgentUUID    = "--rag-agent--"
)

// systemFolders are never deletable and always exist.
var systemFolders = map[string]bool{
	RootFolderUUID: true,
	AspectsUUID:    true,
	UsersUUID:      true,
	GroupsUUID:     true,
	ApiKeysUUID:    true,
	AgentsUUID:     true,
	WorkflowsUUID:  true,
	FeaturesUUID:   true,
}

// IsSystemFolder reports whether uuid names a reserved, indelible system
// folder.
func IsSystemFolder(uuid string) bool { return systemFolders[uuid] }

// canonicalParent maps a variant Kind to the system folder it must live
// under, when the variant is system-scoped. Variants absent from this map
// (File, Folder, Meta, SmartFolder, Article, Workflow) have no fixed
// canonical parent; Workflow definitions are filed under WorkflowsUUID by
// NodeService convention rather than enforced here.
var canonicalParent = map[Kind]string{
	KindAspect:  AspectsUUID,
	KindUser:    UsersUUID,
	KindGroup:   GroupsUUID,
	KindApiKey:  ApiKeysUUID,
	KindAgent:   AgentsUUID,
	KindFeature: FeaturesUUID,
}

// CanonicalParent returns the system folder a variant of this kind must be
// parented under, and whether that kind is system-scoped at all.
func CanonicalParent(k Kind) (string, bool) {
	p, ok := canonicalParent[k]
	return p, ok
}
