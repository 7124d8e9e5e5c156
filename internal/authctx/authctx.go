// Package authctx builds the AuthenticationContext that every NodeService
// call carries (tenant, mode, principal): bearer-token and API-key
// extraction into a permission.Principal, plus the password hashing used
// for the credentials reference kept outside the User node itself. This
// package covers only the token/credential plumbing; permission
// resolution itself lives in internal/permission, not here.
package authctx

import "github.com/antbox/antbox/internal/permission"

// Mode is the operation mode under which a request is being made.
type Mode string

const (
	ModeDirect Mode = "Direct" // an interactive principal acting directly
	ModeAction Mode = "Action" // a scheduled/triggered action running on a principal's behalf
	ModeAI     Mode = "AI"     // an agent/RAG orchestration acting on a principal's behalf
)

// Context is the AuthenticationContext threaded through NodeService calls.
type Context struct {
	Tenant    string
	Mode      Mode
	Principal permission.Principal
}

// Anonymous returns the unauthenticated AuthenticationContext for tenant.
func Anonymous(tenant string) Context {
	return Context{Tenant: tenant, Mode: ModeDirect, Principal: permission.Principal{}}
}
