// Package nodeservice is the Antbox kernel: the single place
// where node creation, mutation, listing and deletion enforce every
// cross-cutting invariant (permission checks, aspect validation, cycle
// detection, lock rules, system-folder protection) before delegating the
// actual persistence to a repository.Repository and storage.Storage pair.
// A small core struct holds its collaborators as interfaces/function
// values, with one exported method per operation and the invariant
// checks inlined rather than scattered across callers.
package nodeservice

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/antbox/antbox/internal/aspect"
	"github.com/antbox/antbox/internal/eventbus"
	"github.com/antbox/antbox/internal/node"
	"github.com/antbox/antbox/internal/permission"
	"github.com/antbox/antbox/internal/repository"
	"github.com/antbox/antbox/internal/result"
	"github.com/antbox/antbox/internal/storage"
)

// Publisher is the subset of eventbus.Bus the kernel needs, kept as an
// interface so callers can wire a redisbus-backed publisher in its
// place without nodeservice importing redisbus.
type Publisher interface {
	Publish(eventbus.Envelope)
}

// Service is the node kernel. Create it with New; its zero value is not
// usable (Repo and Store are required collaborators).
type Service struct {
	Repo   repository.Repository
	Store  storage.Storage
	Bus    Publisher
	Clock  func() time.Time
	NewID  func() string
}

// New wires a Service with production defaults for Clock/NewID.
func New(repo repository.Repository, store storage.Storage, bus Publisher) *Service {
	return &Service{
		Repo:  repo,
		Store: store,
		Bus:   bus,
		Clock: time.Now,
		NewID: node.NewUUID,
	}
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return node.NewUUID()
}

func (s *Service) publish(env eventbus.Envelope) {
	if s.Bus == nil {
		return
	}
	env.Timestamp = s.now()
	s.Bus.Publish(env)
}

// GetAspect satisfies aspect.Fetcher, letting validateAspects delegate to
// aspect.ValidateAll instead of re-deriving the fetch-then-evaluate loop.
func (s *Service) GetAspect(ctx context.Context, uuid string) (*node.Node, *result.Error) {
	n, err := s.Repo.GetByID(ctx, uuid)
	if err != nil {
		return nil, err
	}
	if _, ok := n.Payload.(node.AspectPayload); !ok {
		return nil, result.BadRequest(fmt.Sprintf("%s is not an Aspect node", uuid))
	}
	return n, nil
}

// validateAspects runs every attached aspect's specification against n's
// Properties, merging all resulting ValidationErrors into one: a node
// may carry more than one aspect, and all of their specifications must
// hold simultaneously.
func (s *Service) validateAspects(ctx context.Context, n *node.Node) *result.Error {
	return aspect.ValidateAll(ctx, s, n.Aspects, n.Properties)
}

// ancestorLookup adapts the repository into the function-parameter shape
// permission.CanWithAncestry expects, keeping that package free of a
// Repository import.
func (s *Service) ancestorLookup(ctx context.Context) permission.AncestorLookup {
	return func(uuid string) (*node.Node, bool) {
		n, err := s.Repo.GetByID(ctx, uuid)
		if err != nil {
			return nil, false
		}
		return n, true
	}
}

func (s *Service) parentLookup(ctx context.Context) node.ParentLookup {
	return func(uuid string) (string, bool) {
		n, err := s.Repo.GetByID(ctx, uuid)
		if err != nil {
			return "", false
		}
		return n.Parent, true
	}
}

// resolveID loads the node id names: a plain uuid, or a "--fid--<fid>"
// compound id looked up by fid.
func (s *Service) resolveID(ctx context.Context, id string) (*node.Node, *result.Error) {
	if fid, ok := node.IsFidAddress(id); ok {
		return s.Repo.GetByFid(ctx, fid)
	}
	return s.Repo.GetByID(ctx, id)
}

func (s *Service) readWithIO(ctx context.Context, file io.Reader) ([]byte, *result.Error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, result.Wrap(result.CodeUnknownError, "read upload body failed", err)
	}
	return data, nil
}

// requireParentExists checks that parent resolves to a real node, the
// repository-backed half of node.Validate's construction-time checks.
func (s *Service) requireParentExists(ctx context.Context, parent string) *result.Error {
	if parent == "" {
		return result.BadRequest("parent is required")
	}
	if parent == node.RootFolderUUID {
		return nil
	}
	if _, err := s.Repo.GetByID(ctx, parent); err != nil {
		return result.BadRequest("parent does not exist: " + parent)
	}
	return nil
}
