package app

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stolasapp/tracker/internal/access"
)

func (h handler) listProjects(c echo.Context) error {
	projects, err := h.svc.ListProjects(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapViews(projects, newProjectView))
}

func (h handler) getProject(c echo.Context) error {
	id, err := pathID(c, access.KindProject)
	if err != nil {
		return err
	}
	project, err := h.svc.GetProject(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newProjectView(project))
}

func (h handler) createProject(c echo.Context) error {
	var req projectRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	project, err := h.svc.CreateProject(c.Request().Context(), req.project())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newProjectView(project))
}

func (h handler) updateProject(c echo.Context) error {
	id, err := pathID(c, access.KindProject)
	if err != nil {
		return err
	}
	var req projectRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	project, err := h.svc.UpdateProject(c.Request().Context(), id, req.patch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newProjectView(project))
}

func (h handler) deleteProject(c echo.Context) error {
	id, err := pathID(c, access.KindProject)
	if err != nil {
		return err
	}
	if err = h.svc.DeleteProject(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageView{Message: "Project deleted successfully"})
}
