package tracker

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/stolasapp/tracker/internal/access"
	"github.com/stolasapp/tracker/internal/storage"
	"github.com/stolasapp/tracker/internal/storage/db"
)

// DefaultProjectStatus is the status of a project created without one.
const DefaultProjectStatus = "active"

// CreateProject creates a project owned by the caller. The ID and OwnerID of
// project are ignored.
func (s *Service) CreateProject(ctx context.Context, project db.Project) (created db.Project, err error) {
	ctx, span := s.start(ctx, "CreateProject")
	defer func() { finish(span, err) }()

	id, err := caller(ctx)
	if err != nil {
		return created, err
	}
	if strings.TrimSpace(project.Name) == "" {
		return created, invalidArgument("name is required")
	}
	if project.Status == "" {
		project.Status = DefaultProjectStatus
	}
	project.ID = 0
	project.OwnerID = s.gate.ProjectOwner(id)

	created, err = s.store.CreateProject(ctx, project)
	if err != nil {
		return created, internal(err)
	}
	span.SetAttributes(attribute.String("project.id", formatID(created.ID)))
	return created, nil
}

// GetProject returns one of the caller's projects.
func (s *Service) GetProject(ctx context.Context, projectID uint64) (project db.Project, err error) {
	ctx, span := s.start(ctx, "GetProject", attribute.String("project.id", formatID(projectID)))
	defer func() { finish(span, err) }()

	id, err := caller(ctx)
	if err != nil {
		return project, err
	}
	project, err = s.store.GetProject(ctx, s.gate.ProjectOwner(id), projectID)
	return project, access.Deny(access.KindProject, err)
}

// ListProjects returns all of the caller's projects.
func (s *Service) ListProjects(ctx context.Context) (projects []db.Project, err error) {
	ctx, span := s.start(ctx, "ListProjects")
	defer func() { finish(span, err) }()

	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	projects, err = s.store.ListProjects(ctx, s.gate.ProjectOwner(id))
	if err != nil {
		return nil, internal(err)
	}
	return projects, nil
}

// UpdateProject applies patch to one of the caller's projects and returns the
// updated project.
func (s *Service) UpdateProject(
	ctx context.Context,
	projectID uint64,
	patch storage.ProjectPatch,
) (project db.Project, err error) {
	ctx, span := s.start(ctx, "UpdateProject", attribute.String("project.id", formatID(projectID)))
	defer func() { finish(span, err) }()

	id, err := caller(ctx)
	if err != nil {
		return project, err
	}
	if patch.Name.Set && strings.TrimSpace(patch.Name.Value) == "" {
		return project, invalidArgument("name must not be empty")
	}
	if patch.Status.Set && patch.Status.Value == "" {
		return project, invalidArgument("status must not be empty")
	}
	project, err = s.store.UpdateProject(ctx, s.gate.ProjectOwner(id), projectID, patch)
	return project, access.Deny(access.KindProject, err)
}

// DeleteProject removes one of the caller's projects along with its tasks.
func (s *Service) DeleteProject(ctx context.Context, projectID uint64) (err error) {
	ctx, span := s.start(ctx, "DeleteProject", attribute.String("project.id", formatID(projectID)))
	defer func() { finish(span, err) }()

	id, err := caller(ctx)
	if err != nil {
		return err
	}
	err = s.store.DeleteProject(ctx, s.gate.ProjectOwner(id), projectID)
	return access.Deny(access.KindProject, err)
}
