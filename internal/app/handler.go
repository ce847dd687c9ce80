package app

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/stolasapp/tracker/internal/access"
	"github.com/stolasapp/tracker/internal/storage/db"
	"github.com/stolasapp/tracker/internal/tracker"
)

const messageInvalidBody = "Invalid request body"

type handler struct {
	svc     *tracker.Service
	cookies cookieConfig
}

func (h handler) register(e *echo.Echo) {
	api := e.Group("/api")
	api.POST("/register", h.registerUser)
	api.POST("/login", h.login)
	api.POST("/logout", h.logout)

	projects := api.Group("/projects", requireSession(h.svc.Sessions()))
	projects.GET("", h.listProjects)
	projects.POST("", h.createProject)
	projects.GET("/:id", h.getProject)
	projects.PUT("/:id", h.updateProject)
	projects.DELETE("/:id", h.deleteProject)

	tasks := api.Group("/tasks", requireSession(h.svc.Sessions()))
	tasks.GET("", h.listTasks)
	tasks.POST("", h.createTask)
	tasks.GET("/:id", h.getTask)
	tasks.PUT("/:id", h.updateTask)
	tasks.DELETE("/:id", h.deleteTask)
}

func (h handler) registerUser(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.svc.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accountView{
		Message: "User registered successfully",
		User:    newUserView(user),
	})
}

func (h handler) login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	session, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.cookies.set(c, session)
	return c.JSON(http.StatusOK, accountView{
		Message: "Login successful",
		User: userView{
			ID:       ID(session.Identity.ID),
			Username: session.Identity.Username,
			Email:    session.Identity.Email,
		},
	})
}

func (h handler) logout(c echo.Context) error {
	if err := h.svc.Logout(c.Request().Context(), sessionToken(c)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Logout failed").SetInternal(err)
	}
	h.cookies.clear(c)
	return c.JSON(http.StatusOK, messageView{Message: "Logged out successfully"})
}

// bind decodes the JSON request body into dst.
func bind(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, messageInvalidBody).SetInternal(err)
	}
	return nil
}

// pathID parses the :id parameter. An unparsable id names no record, so it is
// reported the same as a missing one. Stored ids fit in an int64.
func pathID(c echo.Context, kind access.Kind) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 63)
	if err != nil || id == 0 {
		return 0, access.NotFound(kind)
	}
	return id, nil
}

func newUserView(user db.User) userView {
	return userView{
		ID:       ID(user.ID),
		Username: user.Username,
		Email:    user.Email,
	}
}

