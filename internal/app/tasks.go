package app

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stolasapp/tracker/internal/access"
)

func (h handler) listTasks(c echo.Context) error {
	tasks, err := h.svc.ListTasks(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapViews(tasks, newTaskView))
}

func (h handler) getTask(c echo.Context) error {
	id, err := pathID(c, access.KindTask)
	if err != nil {
		return err
	}
	task, err := h.svc.GetTask(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newTaskView(task))
}

func (h handler) createTask(c echo.Context) error {
	var req taskRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	task, err := h.svc.CreateTask(c.Request().Context(), req.task())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newTaskView(task))
}

func (h handler) updateTask(c echo.Context) error {
	id, err := pathID(c, access.KindTask)
	if err != nil {
		return err
	}
	var req taskRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	task, err := h.svc.UpdateTask(c.Request().Context(), id, req.patch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newTaskView(task))
}

func (h handler) deleteTask(c echo.Context) error {
	id, err := pathID(c, access.KindTask)
	if err != nil {
		return err
	}
	if err = h.svc.DeleteTask(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageView{Message: "Task deleted successfully"})
}
