package app

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/stolasapp/tracker/internal/storage"
	"github.com/stolasapp/tracker/internal/storage/db"
)

// ID is a record identifier. It is written as a decimal string, since 64-bit
// ids do not survive a round trip through a JavaScript number, and read from
// either a string or a number.
type ID uint64

// MarshalJSON satisfies [json.Marshaler].
func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatUint(uint64(id), 10))), nil
}

// UnmarshalJSON satisfies [json.Unmarshaler].
func (id *ID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	text := string(data)
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = unquoted
	}
	// sqlite stores ids as signed integers
	val, err := strconv.ParseUint(text, 10, 63)
	if err != nil {
		return fmt.Errorf("invalid id %s", data)
	}
	*id = ID(val)
	return nil
}

// Date is a due date, read as RFC 3339 or as a plain YYYY-MM-DD date.
type Date time.Time

// UnmarshalJSON satisfies [json.Unmarshaler].
func (d *Date) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, text); err == nil {
			*d = Date(t.UTC())
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", text)
}

// Optional is a field of a partial update. A field missing from the body is
// left unchanged, an explicit null clears it, and any other value sets it.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// UnmarshalJSON satisfies [json.Unmarshaler]. It is only called for fields
// present in the body.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) field() storage.Field[T] {
	if !o.Set {
		return storage.Field[T]{}
	}
	return storage.SetTo(o.Value)
}

func nullString(o Optional[string]) storage.Field[sql.NullString] {
	if !o.Set {
		return storage.Field[sql.NullString]{}
	}
	return storage.SetTo(sql.NullString{String: o.Value, Valid: !o.Null})
}

func nullTime(o Optional[Date]) storage.Field[sql.NullTime] {
	if !o.Set {
		return storage.Field[sql.NullTime]{}
	}
	return storage.SetTo(sql.NullTime{Time: time.Time(o.Value), Valid: !o.Null})
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type projectRequest struct {
	Name        Optional[string] `json:"name"`
	Description Optional[string] `json:"description"`
	Status      Optional[string] `json:"status"`
	DueDate     Optional[Date]   `json:"dueDate"`
}

func (req projectRequest) project() db.Project {
	return db.Project{
		Name:        req.Name.Value,
		Description: nullString(req.Description).Value,
		Status:      req.Status.Value,
		DueTime:     nullTime(req.DueDate).Value,
	}
}

func (req projectRequest) patch() storage.ProjectPatch {
	return storage.ProjectPatch{
		Name:        req.Name.field(),
		Description: nullString(req.Description),
		Status:      req.Status.field(),
		DueTime:     nullTime(req.DueDate),
	}
}

type taskRequest struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	Completed   Optional[bool]   `json:"completed"`
	Priority    Optional[string] `json:"priority"`
	DueDate     Optional[Date]   `json:"dueDate"`
	ProjectID   Optional[ID]     `json:"projectId"`
}

func (req taskRequest) task() db.Task {
	return db.Task{
		ProjectID:   uint64(req.ProjectID.Value),
		Title:       req.Title.Value,
		Description: nullString(req.Description).Value,
		Completed:   req.Completed.Value,
		Priority:    nullString(req.Priority).Value,
		DueTime:     nullTime(req.DueDate).Value,
	}
}

func (req taskRequest) patch() storage.TaskPatch {
	patch := storage.TaskPatch{
		Title:       req.Title.field(),
		Description: nullString(req.Description),
		Completed:   req.Completed.field(),
		Priority:    nullString(req.Priority),
		DueTime:     nullTime(req.DueDate),
	}
	if req.ProjectID.Set {
		patch.ProjectID = storage.SetTo(uint64(req.ProjectID.Value))
	}
	return patch
}

type userView struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type accountView struct {
	Message string   `json:"message"`
	User    userView `json:"user"`
}

type projectView struct {
	ID          ID         `json:"id"`
	OwnerID     ID         `json:"ownerId"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func newProjectView(project db.Project) projectView {
	return projectView{
		ID:          ID(project.ID),
		OwnerID:     ID(project.OwnerID),
		Name:        project.Name,
		Description: stringPtr(project.Description),
		Status:      project.Status,
		DueDate:     timePtr(project.DueTime),
		CreatedAt:   project.CreateTime,
		UpdatedAt:   project.UpdateTime,
	}
}

type taskView struct {
	ID          ID         `json:"id"`
	ProjectID   ID         `json:"projectId"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func newTaskView(task db.Task) taskView {
	return taskView{
		ID:          ID(task.ID),
		ProjectID:   ID(task.ProjectID),
		Title:       task.Title,
		Description: stringPtr(task.Description),
		Completed:   task.Completed,
		Priority:    stringPtr(task.Priority),
		DueDate:     timePtr(task.DueTime),
		CreatedAt:   task.CreateTime,
		UpdatedAt:   task.UpdateTime,
	}
}

func mapViews[T, V any](records []T, view func(T) V) []V {
	views := make([]V, 0, len(records))
	for _, record := range records {
		views = append(views, view(record))
	}
	return views
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
