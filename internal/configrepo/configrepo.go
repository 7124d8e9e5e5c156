// Package configrepo is a small key/value persistence port for data that
// lives outside the node graph entirely: tenant settings, workflow
// definitions' enabled/disabled flag, feature toggles. It is an
// interface-first port with a handful of narrow verbs rather than a
// generic repository, because credential/config storage doesn't need
// filtering or paging.
package configrepo

import "github.com/antbox/antbox/internal/result"

// Repository is the configuration-storage port.
type Repository interface {
	Get(key string) (string, *result.Error)
	Put(key, value string) *result.Error
	Delete(key string) *result.Error
	List(prefix string) (map[string]string, *result.Error)
}
