package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/influxdata/influxdb/pkg/snowflake"

	"github.com/stolasapp/tracker/internal/config"
	"github.com/stolasapp/tracker/internal/storage/db"
)

// MaxUsernameLength bounds the username at registration.
const MaxUsernameLength = 64

// validateUser normalizes the username and checks that the required
// credentials are present.
func validateUser(user *db.User) bool {
	user.Username = strings.TrimSpace(user.Username)
	return user.Username != "" &&
		len(user.Username) <= MaxUsernameLength &&
		strings.Contains(user.Email, "@") &&
		len(user.PasswordHash) > 0
}

// DB is a [Store] backed by a SQLite database.
type DB struct {
	ids     *snowflake.Generator
	db      *sql.DB
	queries *db.Queries
	now     func() time.Time
}

// NewDB initializes a DB with the given config and logger.
func NewDB(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*DB, error) {
	handle, err := db.Open(ctx, logger, cfg.DBFilepath)
	if err != nil {
		return nil, err
	}
	return &DB{
		ids:     snowflake.New(rand.IntN(1023)), //nolint:gosec,mnd // this isn't for crypto
		db:      handle,
		queries: db.New(handle),
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close satisfies the [Store] interface.
func (d *DB) Close() error {
	return d.db.Close()
}

// CreateUser satisfies the [Users] interface.
func (d *DB) CreateUser(ctx context.Context, user db.User) (db.User, error) {
	if !validateUser(&user) {
		return user, ErrInvalidUser
	}
	now := d.now()
	created, err := d.queries.CreateUser(ctx, db.CreateUserParams{
		ID:           d.ids.Next(),
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreateTime:   now,
		UpdateTime:   now,
	})
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return user, ErrAlreadyExists
	default:
		return created, err
	}
}

// GetUser satisfies the [Users] interface.
func (d *DB) GetUser(ctx context.Context, userID uint64) (db.User, error) {
	user, err := d.queries.GetUser(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return user, ErrNotFound
	}
	return user, err
}

// GetUserByEmail satisfies the [Users] interface.
func (d *DB) GetUserByEmail(ctx context.Context, email string) (db.User, error) {
	user, err := d.queries.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return user, ErrNotFound
	}
	return user, err
}

// DeleteUser satisfies the [Users] interface.
func (d *DB) DeleteUser(ctx context.Context, userID uint64) (err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()
	queries := d.queries.WithTx(tx)
	// projects and sessions cascade from the user row; tasks are removed first
	// so the transaction never depends on trigger ordering
	if err = queries.DeleteUserTasks(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user tasks: %w", err)
	}
	if _, err = queries.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return tx.Commit()
}

// CreateProject satisfies the [Projects] interface.
func (d *DB) CreateProject(ctx context.Context, project db.Project) (db.Project, error) {
	now := d.now()
	return d.queries.CreateProject(ctx, db.CreateProjectParams{
		ID:          d.ids.Next(),
		OwnerID:     project.OwnerID,
		Name:        project.Name,
		Description: project.Description,
		Status:      project.Status,
		DueTime:     project.DueTime,
		CreateTime:  now,
		UpdateTime:  now,
	})
}

// GetProject satisfies the [Projects] interface.
func (d *DB) GetProject(ctx context.Context, ownerID, id uint64) (db.Project, error) {
	project, err := d.queries.GetProject(ctx, db.GetProjectParams{
		ID:      id,
		OwnerID: ownerID,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return project, ErrNotFound
	}
	return project, err
}

// ListProjects satisfies the [Projects] interface.
func (d *DB) ListProjects(ctx context.Context, ownerID uint64) ([]db.Project, error) {
	return d.queries.ListProjects(ctx, ownerID)
}

// UpdateProject satisfies the [Projects] interface.
func (d *DB) UpdateProject(ctx context.Context, ownerID, id uint64, patch ProjectPatch) (db.Project, error) {
	project, err := d.queries.UpdateProject(ctx, db.UpdateProjectParams{
		SetName:        patch.Name.Set,
		Name:           patch.Name.Value,
		SetDescription: patch.Description.Set,
		Description:    patch.Description.Value,
		SetStatus:      patch.Status.Set,
		Status:         patch.Status.Value,
		SetDueTime:     patch.DueTime.Set,
		DueTime:        patch.DueTime.Value,
		UpdateTime:     d.now(),
		ID:             id,
		OwnerID:        ownerID,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return project, ErrNotFound
	}
	return project, err
}

// DeleteProject satisfies the [Projects] interface.
func (d *DB) DeleteProject(ctx context.Context, ownerID, id uint64) error {
	n, err := d.queries.DeleteProject(ctx, db.DeleteProjectParams{
		ID:      id,
		OwnerID: ownerID,
	})
	if err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateTask satisfies the [Tasks] interface.
func (d *DB) CreateTask(ctx context.Context, scope Scope, task db.Task) (db.Task, error) {
	now := d.now()
	if !scope.RequireProject {
		return d.queries.CreateTask(ctx, db.CreateTaskParams{
			ID:          d.ids.Next(),
			ProjectID:   task.ProjectID,
			Title:       task.Title,
			Description: task.Description,
			Completed:   task.Completed,
			Priority:    task.Priority,
			DueTime:     task.DueTime,
			CreateTime:  now,
			UpdateTime:  now,
		})
	}
	created, err := d.queries.CreateTaskInProject(ctx, db.CreateTaskInProjectParams{
		ID:          d.ids.Next(),
		ProjectID:   task.ProjectID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		Priority:    task.Priority,
		DueTime:     task.DueTime,
		CreateTime:  now,
		UpdateTime:  now,
		OwnerID:     scope.OwnerID,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return created, ErrInvalidReference
	}
	return created, err
}

// GetTask satisfies the [Tasks] interface.
func (d *DB) GetTask(ctx context.Context, scope Scope, id uint64) (db.Task, error) {
	task, err := d.queries.GetTask(ctx, db.GetTaskParams{
		ID:      id,
		OwnerID: scope.OwnerID,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return task, ErrNotFound
	}
	return task, err
}

// ListTasks satisfies the [Tasks] interface.
func (d *DB) ListTasks(ctx context.Context, scope Scope) ([]db.Task, error) {
	return d.queries.ListTasks(ctx, scope.OwnerID)
}

// UpdateTask satisfies the [Tasks] interface.
func (d *DB) UpdateTask(ctx context.Context, scope Scope, id uint64, patch TaskPatch) (db.Task, error) {
	checkProject := scope.RequireProject && patch.ProjectID.Set
	task, err := d.queries.UpdateTask(ctx, db.UpdateTaskParams{
		SetTitle:       patch.Title.Set,
		Title:          patch.Title.Value,
		SetDescription: patch.Description.Set,
		Description:    patch.Description.Value,
		SetCompleted:   patch.Completed.Set,
		Completed:      patch.Completed.Value,
		SetPriority:    patch.Priority.Set,
		Priority:       patch.Priority.Value,
		SetDueTime:     patch.DueTime.Set,
		DueTime:        patch.DueTime.Value,
		SetProjectID:   patch.ProjectID.Set,
		ProjectID:      patch.ProjectID.Value,
		UpdateTime:     d.now(),
		ID:             id,
		OwnerID:        scope.OwnerID,
		CheckProject:   checkProject,
	})
	if !errors.Is(err, sql.ErrNoRows) {
		return task, err
	}
	if !checkProject {
		return task, ErrNotFound
	}
	// no rows either because the task is not visible or because the new
	// project is not; only the former is a not found
	if _, err = d.GetTask(ctx, scope, id); err != nil {
		return task, err
	}
	return task, ErrInvalidReference
}

// DeleteTask satisfies the [Tasks] interface.
func (d *DB) DeleteTask(ctx context.Context, scope Scope, id uint64) error {
	n, err := d.queries.DeleteTask(ctx, db.DeleteTaskParams{
		ID:      id,
		OwnerID: scope.OwnerID,
	})
	if err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateSession satisfies the [Sessions] interface.
func (d *DB) CreateSession(ctx context.Context, session db.Session) error {
	return d.queries.CreateSession(ctx, db.CreateSessionParams(session))
}

// GetSession satisfies the [Sessions] interface.
func (d *DB) GetSession(ctx context.Context, tokenHash []byte) (db.Session, error) {
	session, err := d.queries.GetSession(ctx, tokenHash)
	if errors.Is(err, sql.ErrNoRows) {
		return session, ErrNotFound
	}
	return session, err
}

// DeleteSession satisfies the [Sessions] interface.
func (d *DB) DeleteSession(ctx context.Context, tokenHash []byte) error {
	_, err := d.queries.DeleteSession(ctx, tokenHash)
	return err
}

// DeleteUserSessions satisfies the [Sessions] interface.
func (d *DB) DeleteUserSessions(ctx context.Context, userID uint64) error {
	return d.queries.DeleteUserSessions(ctx, userID)
}

// DeleteExpiredSessions satisfies the [Sessions] interface.
func (d *DB) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	return d.queries.DeleteExpiredSessions(ctx, now.Unix())
}

var _ Store = (*DB)(nil)
