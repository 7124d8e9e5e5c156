package authctx

import (
	"context"

	"github.com/antbox/antbox/internal/node"
	"github.com/antbox/antbox/internal/permission"
	"github.com/antbox/antbox/internal/result"
)

// ApiKeyLookup resolves an ApiKey node by its uuid. Kept as a function
// value rather than a concrete repository dependency, matching the
// function-parameter dependency-injection style used across this module
// (permission.AncestorLookup, pathresolve.Finder, workflow.InstanceStore).
type ApiKeyLookup func(ctx context.Context, uuid string) (*node.Node, bool)

// NewApiKeySecret mints a fresh opaque secret for an ApiKey node along with
// its bcrypt hash for storage in Properties["secret"]. The caller hands the
// plaintext to the principal exactly once, at creation time.
func NewApiKeySecret() (plaintext, hash string, rerr *result.Error) {
	plaintext, err := newOpaqueSecret()
	if err != nil {
		return "", "", result.Wrap(result.CodeUnknownError, "failed to generate api key secret", err)
	}
	hash, rerr = HashPassword(plaintext)
	if rerr != nil {
		return "", "", rerr
	}
	return plaintext, hash, nil
}

// VerifyApiKey resolves the ApiKey node identified by keyUUID and checks
// presentedSecret against its stored hash, returning the principal the
// key grants through its group.
func VerifyApiKey(ctx context.Context, keyUUID, presentedSecret string, lookup ApiKeyLookup) (permission.Principal, *result.Error) {
	n, ok := lookup(ctx, keyUUID)
	if !ok || n.Kind != node.KindApiKey {
		return permission.Principal{}, result.Unauthorized("unknown api key")
	}
	hash, _ := n.Properties["secret"].(string)
	if hash == "" || !ValidatePassword(presentedSecret, hash) {
		return permission.Principal{}, result.Unauthorized("invalid api key secret")
	}
	var groups []string
	if g, ok := n.Properties["group"].(string); ok && g != "" {
		groups = []string{g}
	}
	return permission.Principal{Email: n.UUID, Groups: groups}, nil
}
