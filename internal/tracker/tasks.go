package tracker

import (
	"context"
	"errors"
	"strings"

	"connectrpc.com/connect"
	"go.opentelemetry.io/otel/attribute"

	"github.com/stolasapp/tracker/internal/access"
	"github.com/stolasapp/tracker/internal/storage"
	"github.com/stolasapp/tracker/internal/storage/db"
)

var errInvalidProject = errors.New("projectId does not reference an existing project")

// CreateTask creates a task in task.ProjectID. Whether the project has to
// exist, and be owned by the caller, depends on the gate's policy.
func (s *Service) CreateTask(ctx context.Context, task db.Task) (created db.Task, err error) {
	ctx, span := s.start(ctx, "CreateTask")
	defer func() { finish(span, err) }()

	id, err := caller(ctx)
	if err != nil {
		return created, err
	}
	switch {
	case strings.TrimSpace(task.Title) == "":
		return created, invalidArgument("title is required")
	case task.ProjectID == 0:
		return created, invalidArgument("projectId is required")
	}
	task.ID = 0

	created, err = s.store.CreateTask(ctx, s.gate.TaskScope(id), task)
	if err != nil {
		return created, taskError(err)
	}
	span.SetAttributes(
		attribute.String("task.id", formatID(created.ID)),
		attribute.String("project.id", formatID(created.ProjectID)),
	)
	return created, nil
}

// GetTask returns a task visible to the caller.
func (s *Service) GetTask(ctx context.Context, taskID uint64) (task db.Task, err error) {
	ctx, span := s.start(ctx, "GetTask", attribute.String("task.id", formatID(taskID)))
	defer func() { finish(span, err) }()

	id, err := caller(ctx)
	if err != nil {
		return task, err
	}
	task, err = s.store.GetTask(ctx, s.gate.TaskScope(id), taskID)
	return task, taskError(err)
}

// ListTasks returns every task visible to the caller. Under the open policy
// this is every task in the system.
func (s *Service) ListTasks(ctx context.Context) (tasks []db.Task, err error) {
	ctx, span := s.start(ctx, "ListTasks")
	defer func() { finish(span, err) }()

	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err = s.store.ListTasks(ctx, s.gate.TaskScope(id))
	if err != nil {
		return nil, internal(err)
	}
	return tasks, nil
}

// UpdateTask applies patch to a task visible to the caller and returns the
// updated task.
func (s *Service) UpdateTask(ctx context.Context, taskID uint64, patch storage.TaskPatch) (task db.Task, err error) {
	ctx, span := s.start(ctx, "UpdateTask", attribute.String("task.id", formatID(taskID)))
	defer func() { finish(span, err) }()

	id, err := caller(ctx)
	if err != nil {
		return task, err
	}
	if patch.Title.Set && strings.TrimSpace(patch.Title.Value) == "" {
		return task, invalidArgument("title must not be empty")
	}
	if patch.ProjectID.Set && patch.ProjectID.Value == 0 {
		return task, invalidArgument("projectId must not be empty")
	}
	task, err = s.store.UpdateTask(ctx, s.gate.TaskScope(id), taskID, patch)
	return task, taskError(err)
}

// DeleteTask removes a task visible to the caller.
func (s *Service) DeleteTask(ctx context.Context, taskID uint64) (err error) {
	ctx, span := s.start(ctx, "DeleteTask", attribute.String("task.id", formatID(taskID)))
	defer func() { finish(span, err) }()

	id, err := caller(ctx)
	if err != nil {
		return err
	}
	return taskError(s.store.DeleteTask(ctx, s.gate.TaskScope(id), taskID))
}

func taskError(err error) error {
	if errors.Is(err, storage.ErrInvalidReference) {
		return connect.NewError(connect.CodeInvalidArgument, errInvalidProject)
	}
	return access.Deny(access.KindTask, err)
}
