package nodeservice

import (
	"context"
	"fmt"

	"github.com/antbox/antbox/internal/eventbus"
	"github.com/antbox/antbox/internal/node"
	"github.com/antbox/antbox/internal/permission"
	"github.com/antbox/antbox/internal/result"
)

// maxFidAttempts bounds fid disambiguation retries on duplicate-fid
// collisions during Create.
const maxFidAttempts = 5

// Create builds and persists a new node:
//  1. parent must exist
//  2. structural validation (node.Validate)
//  3. attached-aspect validation (aspect.Validate per aspect)
//  4. caller must hold Write on the parent
//  5. uuid/fid are minted and uniqueness-checked
//  6. CreatedTime/ModifiedTime are stamped
//  7. a NodeCreated event is published after a successful Add
func (s *Service) Create(ctx context.Context, caller permission.Principal, n *node.Node) (*node.Node, *result.Error) {
	if err := s.requireParentExists(ctx, n.Parent); err != nil {
		return nil, err
	}
	if err := node.Validate(n); err != nil {
		return nil, err
	}
	if err := s.validateAspects(ctx, n); err != nil {
		return nil, err
	}

	parent, err := s.Repo.GetByID(ctx, n.Parent)
	if err != nil {
		return nil, err
	}
	if !permission.CanWithAncestry(caller, parent, node.PermWrite, s.ancestorLookup(ctx)) {
		return nil, result.Forbidden("caller does not hold Write on the parent folder")
	}

	if n.UUID == "" {
		n.UUID = s.newID()
	}
	autoFid := n.Fid == ""
	if autoFid {
		n.Fid = node.Slugify(n.Title)
	}
	now := s.now()
	n.CreatedTime = now
	n.ModifiedTime = now
	if n.Owner == "" {
		n.Owner = caller.Email
	}

	// A minted fid is just the slugified title, so two same-titled nodes
	// collide; disambiguate with a numeric suffix and retry Add a bounded
	// number of times. Collisions on a caller-supplied fid surface as-is.
	for attempt := 0; ; attempt++ {
		aerr := s.Repo.Add(ctx, n)
		if aerr == nil {
			break
		}
		if !autoFid || aerr.Code != result.CodeDuplicatedNode || attempt >= maxFidAttempts {
			return nil, aerr
		}
		n.Fid = fmt.Sprintf("%s-%d", node.Slugify(n.Title), attempt+2)
	}

	s.publish(eventbus.Envelope{
		Type: eventbus.NodeCreated, UUID: n.UUID, ParentID: n.Parent,
		Payload: map[string]any{"kind": string(n.Kind), "fid": n.Fid},
	})
	return n, nil
}

// CreateFile creates a File-variant node and writes its binary body to
// storage in the same call, rolling the node
// back out of the repository if the storage write fails so the two
// stores never disagree about a file's existence.
func (s *Service) CreateFile(ctx context.Context, caller permission.Principal, n *node.Node, body []byte) (*node.Node, *result.Error) {
	n.Kind = node.KindFile
	created, err := s.Create(ctx, caller, n)
	if err != nil {
		return nil, err
	}
	created.Payload = node.FilePayload{Size: int64(len(body))}

	if werr := s.Store.Write(ctx, created.UUID, bytesReader(body), storageOptsFor(created)); werr != nil {
		_ = s.Repo.Delete(ctx, created.UUID)
		return nil, werr
	}
	if uerr := s.Repo.Update(ctx, created); uerr != nil {
		return nil, uerr
	}
	return created, nil
}
