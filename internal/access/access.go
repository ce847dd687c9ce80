// Package access implements the authorization gate that decides which
// projects and tasks a caller may see or change.
//
// Projects are always owner-scoped: a caller acts only on projects whose
// owner is their own identity. Tasks follow the configured [Policy]; the open
// policy preserves the historical behavior where any authenticated caller may
// act on any task, while the owner policy derives task ownership from the
// owning project.
//
// Denials are always reported as NotFound so a caller can never confirm the
// existence of another user's records. Scopes are applied inside the storage
// queries themselves rather than by filtering results afterwards, so there is
// no separate check that a concurrent write could invalidate.
package access

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/stolasapp/tracker/internal/config"
	"github.com/stolasapp/tracker/internal/sec"
	"github.com/stolasapp/tracker/internal/storage"
)

// Kind is a kind of protected resource.
type Kind string

// Resource kinds.
const (
	KindProject Kind = "project"
	KindTask    Kind = "task"
)

// Policy is the authorization configuration.
type Policy struct {
	// OwnerScopedTasks scopes tasks to the owner of their project.
	OwnerScopedTasks bool
	// StrictProjectRefs requires task writes to reference an existing (and,
	// with OwnerScopedTasks, owned) project.
	StrictProjectRefs bool
}

// PolicyFromConfig builds the policy selected by cfg.
func PolicyFromConfig(cfg config.Access) Policy {
	return Policy{
		OwnerScopedTasks:  cfg.TaskPolicy == config.TaskPolicyOwner,
		StrictProjectRefs: cfg.ProjectRefs == config.ProjectRefsStrict,
	}
}

// Gate narrows project and task queries to the records a caller may act on.
// The allow or deny decision is made by the storage predicates built from
// these scopes, in the same statement as the read or write.
type Gate struct {
	policy Policy
}

// NewGate creates a gate enforcing policy.
func NewGate(policy Policy) *Gate {
	return &Gate{policy: policy}
}

// ProjectOwner returns the owner that project queries for id are narrowed to.
func (g *Gate) ProjectOwner(id sec.Identity) uint64 {
	return id.ID
}

// TaskScope returns the scope that task queries for id are narrowed to.
func (g *Gate) TaskScope(id sec.Identity) storage.Scope {
	scope := storage.Scope{RequireProject: g.policy.StrictProjectRefs}
	if g.policy.OwnerScopedTasks {
		scope.OwnerID = id.ID
		// an owner-scoped task must never be attached to someone else's
		// project, regardless of reference strictness
		scope.RequireProject = true
	}
	return scope
}

// Deny converts a storage error for a resource of kind into the error reported
// to the caller. A nil err is returned unchanged.
func Deny(kind Kind, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return NotFound(kind)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// NotFound returns the error reported for a resource of kind that is missing
// or not visible to the caller.
func NotFound(kind Kind) error {
	return connect.NewError(connect.CodeNotFound, fmt.Errorf("%s not found", kind))
}
