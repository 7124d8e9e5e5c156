package nodeservice

import (
	"context"

	"github.com/antbox/antbox/internal/node"
	"github.com/antbox/antbox/internal/permission"
	"github.com/antbox/antbox/internal/result"
)

// Copy duplicates a node under a new parent with a fresh uuid/fid:
// requires Read on the source and Write on the destination parent.
// Copying a folder copies the folder node itself, not its descendants;
// recursive copy is left to callers that want it.
func (s *Service) Copy(ctx context.Context, caller permission.Principal, id, destParent string) (*node.Node, *result.Error) {
	src, err := s.resolveID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !permission.CanWithAncestry(caller, src, node.PermRead, s.ancestorLookup(ctx)) {
		return nil, result.Forbidden("caller does not hold Read on the source node")
	}

	// Clearing uuid/fid lets Create mint fresh ones, disambiguating the
	// fid when the copy lands beside its source.
	dup := &node.Node{Envelope: src.Envelope, Payload: src.Payload}
	dup.UUID = ""
	dup.Fid = ""
	dup.Parent = destParent
	dup.Locked = false
	dup.LockedBy = ""
	dup.UnlockAuthorizedGroups = nil
	dup.Properties = mergeProperties(src.Properties, map[string]any{})

	created, cerr := s.Create(ctx, caller, dup)
	if cerr != nil {
		return nil, cerr
	}

	if src.Kind == node.KindFile {
		body, rerr := s.Store.Read(ctx, src.UUID)
		if rerr != nil {
			return nil, rerr
		}
		data, ierr := s.readWithIO(ctx, body)
		body.Close()
		if ierr != nil {
			return nil, ierr
		}
		if werr := s.Store.Write(ctx, created.UUID, bytesReader(data), storageOptsFor(created)); werr != nil {
			return nil, werr
		}
		created.Payload = node.FilePayload{Size: int64(len(data))}
		if uerr := s.Repo.Update(ctx, created); uerr != nil {
			return nil, uerr
		}
	}
	return created, nil
}
