package workflow

import (
	"context"
	"time"

	"github.com/antbox/antbox/internal/node"
	"github.com/antbox/antbox/internal/nodefilter"
	"github.com/antbox/antbox/internal/nodeservice"
	"github.com/antbox/antbox/internal/permission"
	"github.com/antbox/antbox/internal/result"
)

// InstanceStore persists workflow instances. Kept as its own small port
// (rather than reusing repository.Repository) because instances aren't
// nodes: they have no permission vector of their own and are never
// addressed through the path resolver.
type InstanceStore interface {
	Save(ctx context.Context, inst *Instance) error
	Get(ctx context.Context, uuid string) (*Instance, error)
	GetByNode(ctx context.Context, nodeUUID string) (*Instance, error)
}

// ActionRunner executes one named workflow action (onEnter/onExit/
// transition action) against the bound node. Kept as a function value so
// the engine doesn't depend on whatever executes actions (features,
// external webhooks, scripts).
type ActionRunner func(ctx context.Context, action string, inst *Instance) error

// Engine runs workflow instances against a nodeservice.Service.
type Engine struct {
	Nodes     *nodeservice.Service
	Instances InstanceStore
	Actions   ActionRunner
	NewID     func() string
	Clock     func() time.Time
}

func (e *Engine) newID() string {
	if e.NewID != nil {
		return e.NewID()
	}
	return node.NewUUID()
}

func (e *Engine) now() time.Time {
	if e.Clock != nil {
		return e.Clock()
	}
	return time.Now()
}

func (e *Engine) runAction(ctx context.Context, action string, inst *Instance) error {
	if e.Actions == nil || action == "" {
		return nil
	}
	return e.Actions(ctx, action, inst)
}

// Start binds def to nodeUUID and begins the instance in its initial
// state: rejects if the node is already bound, the node must satisfy
// def.Filters, the node is locked by the caller with no unlock
// groups (so the caller and admins can unlock it; finalization unlocks
// as engineAuthority), and the definition is snapshotted into the
// instance.
func (e *Engine) Start(ctx context.Context, caller permission.Principal, nodeUUID string, def Definition) (*Instance, *result.Error) {
	n, err := e.Nodes.Get(ctx, caller, nodeUUID)
	if err != nil {
		return nil, err
	}
	if n.WorkflowInstanceUUID != "" {
		return nil, result.BadRequest("node already has a running workflow instance")
	}
	if filters, ok := def.Filters.(nodefilter.Filters); ok && !filters.IsEmpty() {
		if !nodefilter.Evaluate(filters, n) {
			return nil, result.BadRequest("node does not satisfy the workflow definition's applicability filters")
		}
	}
	initial, ok := def.InitialState()
	if !ok {
		return nil, result.BadRequest("workflow definition has no initial state")
	}

	if _, lerr := e.Nodes.Lock(ctx, caller, nodeUUID, nil); lerr != nil {
		// Lock acquisition failure rolls back instance creation entirely.
		return nil, lerr
	}

	inst := &Instance{
		UUID: e.newID(), NodeUUID: nodeUUID, WorkflowDefinitionUUID: def.UUID,
		Definition: def, CurrentStateName: initial.Name, Running: true,
		GroupsAllowed: def.GroupsAllowed, Owner: caller.Email, StartedTime: e.now(),
	}

	if serr := e.setNodeWorkflowFields(ctx, nodeUUID, inst.UUID, initial.Name); serr != nil {
		_, _ = e.Nodes.Unlock(ctx, caller, nodeUUID)
		return nil, serr
	}

	for _, action := range initial.OnEnter {
		if aerr := e.runAction(ctx, action, inst); aerr != nil {
			_, _ = e.Nodes.Unlock(ctx, caller, nodeUUID)
			return nil, result.Wrap(result.CodeUnknownError, "onEnter action failed", aerr)
		}
	}

	if err := e.Instances.Save(ctx, inst); err != nil {
		return nil, result.Wrap(result.CodeUnknownError, "failed to persist workflow instance", err)
	}
	return inst, nil
}

// Transition applies signal to instanceUUID's current state: rejects if
// cancelled, requires a matching transition on the current state whose
// filters and groupsAllowed both pass, executes
// onExit -> transition.actions -> onEnter in order, appends history, and
// finalizes (unlock + clear workflow fields) when the target state is
// final.
func (e *Engine) Transition(ctx context.Context, caller permission.Principal, instanceUUID, signal string) (*Instance, *result.Error) {
	inst, err := e.Instances.Get(ctx, instanceUUID)
	if err != nil {
		return nil, result.NotFound("workflow instance not found: " + instanceUUID)
	}
	if inst.Cancelled {
		return nil, result.BadRequest("workflow instance has been cancelled")
	}
	current, ok := inst.CurrentState()
	if !ok {
		return nil, result.Wrap(result.CodeUnknownError, "instance's current state is not in its snapshotted definition", nil)
	}
	var matched *Transition
	for i := range current.Transitions {
		if current.Transitions[i].Signal == signal {
			matched = &current.Transitions[i]
			break
		}
	}
	if matched == nil {
		return nil, result.BadRequest("no transition for signal " + signal + " from state " + current.Name)
	}

	n, gerr := e.Nodes.Get(ctx, caller, inst.NodeUUID)
	if gerr != nil {
		return nil, gerr
	}
	if filters, ok := matched.Filters.(nodefilter.Filters); ok && !filters.IsEmpty() && !nodefilter.Evaluate(filters, n) {
		return nil, result.Forbidden("node does not satisfy this transition's filters")
	}
	if len(matched.GroupsAllowed) > 0 && !inGroups(caller.Groups, matched.GroupsAllowed) {
		return nil, result.Forbidden("caller is not in a group authorized for this transition")
	}

	for _, action := range current.OnExit {
		if aerr := e.runAction(ctx, action, inst); aerr != nil {
			return nil, result.Wrap(result.CodeUnknownError, "onExit action failed, transition aborted", aerr)
		}
	}
	for _, action := range matched.Actions {
		if aerr := e.runAction(ctx, action, inst); aerr != nil {
			return nil, result.Wrap(result.CodeUnknownError, "transition action failed, transition aborted", aerr)
		}
	}
	target, ok := inst.Definition.StateByName(matched.TargetState)
	if !ok {
		return nil, result.Wrap(result.CodeUnknownError, "transition target state not in definition", nil)
	}
	for _, action := range target.OnEnter {
		if aerr := e.runAction(ctx, action, inst); aerr != nil {
			return nil, result.Wrap(result.CodeUnknownError, "onEnter action failed, transition aborted", aerr)
		}
	}

	inst.History = append(inst.History, HistoryEntry{
		FromState: current.Name, ToState: target.Name, Signal: signal,
		Principal: caller.Email, At: e.now(),
	})
	inst.CurrentStateName = target.Name

	if target.IsFinal {
		inst.Running = false
		if uerr := e.finalize(ctx, inst); uerr != nil {
			return nil, uerr
		}
	} else if serr := e.setNodeWorkflowFields(ctx, inst.NodeUUID, inst.UUID, target.Name); serr != nil {
		return nil, serr
	}

	if err := e.Instances.Save(ctx, inst); err != nil {
		return nil, result.Wrap(result.CodeUnknownError, "failed to persist workflow instance", err)
	}
	return inst, nil
}

// Cancel ends an instance outside its normal transition flow, unlocking
// the node and clearing its workflow fields the same way finalization
// does. Only the instance owner or an admin may cancel.
func (e *Engine) Cancel(ctx context.Context, caller permission.Principal, instanceUUID string) *result.Error {
	inst, err := e.Instances.Get(ctx, instanceUUID)
	if err != nil {
		return result.NotFound("workflow instance not found: " + instanceUUID)
	}
	if caller.Email != inst.Owner && !caller.IsAdmin() {
		return result.Forbidden("only the instance owner or an admin may cancel a workflow")
	}
	inst.Cancelled = true
	inst.Running = false
	if ferr := e.finalize(ctx, inst); ferr != nil {
		return ferr
	}
	if serr := e.Instances.Save(ctx, inst); serr != nil {
		return result.Wrap(result.CodeUnknownError, "failed to persist workflow instance", serr)
	}
	return nil
}

// engineAuthority is the principal the engine unlocks with. Bound nodes
// are locked with no unlock groups, so the locker and admins are the
// only principals that can release them; finalization must not depend
// on whoever happened to drive the terminal transition being one of
// those.
var engineAuthority = permission.Principal{
	Email:  node.RootUserUUID,
	Groups: []string{node.AdminsGroupUUID},
}

func (e *Engine) finalize(ctx context.Context, inst *Instance) *result.Error {
	if _, uerr := e.Nodes.Unlock(ctx, engineAuthority, inst.NodeUUID); uerr != nil {
		return uerr
	}
	return e.clearNodeWorkflowFields(ctx, inst.NodeUUID)
}

// setNodeWorkflowFields and clearNodeWorkflowFields reach past Update's
// normal patch mechanism because workflowInstanceUuid/workflowState are
// engine-managed, not client-settable envelope fields.
func (e *Engine) setNodeWorkflowFields(ctx context.Context, nodeUUID, instanceUUID, state string) *result.Error {
	n, err := e.Nodes.Repo.GetByID(ctx, nodeUUID)
	if err != nil {
		return err
	}
	n.WorkflowInstanceUUID = instanceUUID
	n.WorkflowState = state
	return e.Nodes.Repo.Update(ctx, n)
}

func (e *Engine) clearNodeWorkflowFields(ctx context.Context, nodeUUID string) *result.Error {
	n, err := e.Nodes.Repo.GetByID(ctx, nodeUUID)
	if err != nil {
		return err
	}
	n.WorkflowInstanceUUID = ""
	n.WorkflowState = ""
	return e.Nodes.Repo.Update(ctx, n)
}

// Visible reports instance visibility: a non-admin principal sees
// a running instance only if its groupsAllowed is empty or overlaps the
// principal's groups, and the principal could perform at least one
// transition from the current state.
func Visible(caller permission.Principal, inst *Instance) bool {
	if len(inst.GroupsAllowed) > 0 && !inGroups(caller.Groups, inst.GroupsAllowed) {
		return false
	}
	current, ok := inst.CurrentState()
	if !ok {
		return false
	}
	for _, t := range current.Transitions {
		if len(t.GroupsAllowed) == 0 || inGroups(caller.Groups, t.GroupsAllowed) {
			return true
		}
	}
	return false
}

func inGroups(callerGroups, allowed []string) bool {
	for _, g := range callerGroups {
		for _, a := range allowed {
			if g == a {
				return true
			}
		}
	}
	return false
}
