// Package storage provides the state management for users, their projects and
// tasks, and login sessions.
package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/stolasapp/tracker/internal/storage/db"
)

const (
	// ErrNotFound is returned when a record cannot be found, including when it
	// exists but falls outside of the requested [Scope].
	ErrNotFound Error = "not found"
	// ErrAlreadyExists is returned if a unique user already exists.
	ErrAlreadyExists Error = "already exists"
	// ErrInvalidUser is returned when a user fails validation.
	ErrInvalidUser Error = "username and a valid email are required"
	// ErrInvalidReference is returned when a task references a project that
	// does not exist within the requested [Scope].
	ErrInvalidReference Error = "referenced project does not exist"
	// ErrInternal is returned for any other type of error.
	ErrInternal Error = "internal error"
)

// Error is an error type returned by the storage implementation.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// Scope narrows task queries to the records visible to a single owner. The
// zero Scope is unrestricted.
type Scope struct {
	// OwnerID limits results to tasks whose project is owned by this user. Zero
	// disables ownership filtering.
	OwnerID uint64
	// RequireProject makes task writes verify that the referenced project
	// exists (and, with OwnerID set, is owned by OwnerID).
	RequireProject bool
}

// Field is a single column of a partial update. Columns without Set are left
// unchanged.
type Field[T any] struct {
	Set   bool
	Value T
}

// SetTo returns a Field that replaces the column with v.
func SetTo[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// ProjectPatch describes a partial update of a project.
type ProjectPatch struct {
	Name        Field[string]
	Description Field[sql.NullString]
	Status      Field[string]
	DueTime     Field[sql.NullTime]
}

// TaskPatch describes a partial update of a task.
type TaskPatch struct {
	Title       Field[string]
	Description Field[sql.NullString]
	Completed   Field[bool]
	Priority    Field[sql.NullString]
	DueTime     Field[sql.NullTime]
	ProjectID   Field[uint64]
}

// Users are the methods on a storage implementation that are responsible for
// accessing and modifying user credentials.
type Users interface {
	// CreateUser inserts a new user, assigning its ID and timestamps. An
	// [ErrAlreadyExists] is returned if the email is already registered, and
	// [ErrInvalidUser] if the username or email are missing.
	CreateUser(ctx context.Context, user db.User) (db.User, error)
	// GetUser returns a single user with the specified ID. An [ErrNotFound] is
	// returned if the user ID does not exist.
	GetUser(ctx context.Context, userID uint64) (db.User, error)
	// GetUserByEmail returns the user registered with exactly this email. An
	// [ErrNotFound] is returned if no such user exists.
	GetUserByEmail(ctx context.Context, email string) (db.User, error)
	// DeleteUser removes a user along with their sessions, projects, and the
	// tasks of those projects. This is a hard delete; data is not recoverable.
	DeleteUser(ctx context.Context, userID uint64) error
}

// Projects are the methods responsible for projects. Every method is scoped to
// the owning user; projects of other users behave as if they do not exist.
type Projects interface {
	// CreateProject inserts a project, assigning its ID and timestamps.
	CreateProject(ctx context.Context, project db.Project) (db.Project, error)
	// GetProject returns the project with id owned by ownerID, or [ErrNotFound].
	GetProject(ctx context.Context, ownerID, id uint64) (db.Project, error)
	// ListProjects returns every project owned by ownerID.
	ListProjects(ctx context.Context, ownerID uint64) ([]db.Project, error)
	// UpdateProject applies patch to the project with id owned by ownerID and
	// returns the result, or [ErrNotFound] leaving nothing changed.
	UpdateProject(ctx context.Context, ownerID, id uint64, patch ProjectPatch) (db.Project, error)
	// DeleteProject removes the project and all of its tasks, or returns
	// [ErrNotFound].
	DeleteProject(ctx context.Context, ownerID, id uint64) error
}

// Tasks are the methods responsible for tasks, filtered by a [Scope].
type Tasks interface {
	// CreateTask inserts a task. With scope.RequireProject, an
	// [ErrInvalidReference] is returned if the project is not visible.
	CreateTask(ctx context.Context, scope Scope, task db.Task) (db.Task, error)
	// GetTask returns the task with id within scope, or [ErrNotFound].
	GetTask(ctx context.Context, scope Scope, id uint64) (db.Task, error)
	// ListTasks returns every task within scope.
	ListTasks(ctx context.Context, scope Scope) ([]db.Task, error)
	// UpdateTask applies patch to the task with id within scope and returns the
	// result. [ErrNotFound] is returned if the task is not visible, and
	// [ErrInvalidReference] if the patch moves it to a project that is not.
	UpdateTask(ctx context.Context, scope Scope, id uint64, patch TaskPatch) (db.Task, error)
	// DeleteTask removes the task with id within scope, or returns [ErrNotFound].
	DeleteTask(ctx context.Context, scope Scope, id uint64) error
}

// Sessions are the methods responsible for persisting login sessions, keyed by
// a hash of the session token.
type Sessions interface {
	// CreateSession stores a new session.
	CreateSession(ctx context.Context, session db.Session) error
	// GetSession returns the session for tokenHash, or [ErrNotFound]. Expired
	// sessions may still be returned; callers check the expiry.
	GetSession(ctx context.Context, tokenHash []byte) (db.Session, error)
	// DeleteSession removes a session. Deleting an unknown session is not an
	// error.
	DeleteSession(ctx context.Context, tokenHash []byte) error
	// DeleteUserSessions removes every session of a user.
	DeleteUserSessions(ctx context.Context, userID uint64) error
	// DeleteExpiredSessions removes sessions expired as of now, returning how
	// many were removed.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Store is the combination interface for [Users], [Projects], [Tasks], and
// [Sessions].
type Store interface {
	Users
	Projects
	Tasks
	Sessions
	// Close releases any resources held by the store. An error is returned if
	// the store cannot be cleanly closed.
	Close() error
}
