package storage

import (
	"database/sql"
	"errors"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/stolasapp/tracker/internal/config"
	"github.com/stolasapp/tracker/internal/storage/db"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	cfg := config.Default()
	cfg.DBFilepath = filepath.Join(t.TempDir(), "db.sqlite")
	store, err := NewDB(t.Context(), cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func createTestUser(t *testing.T, store *DB) db.User {
	t.Helper()
	user, err := store.CreateUser(t.Context(), db.User{
		Username:     gofakeit.Username(),
		Email:        gofakeit.UUID() + "@example.com",
		PasswordHash: []byte("hash"),
	})
	require.NoError(t, err)
	return user
}

func createTestProject(t *testing.T, store *DB, ownerID uint64) db.Project {
	t.Helper()
	project, err := store.CreateProject(t.Context(), db.Project{
		OwnerID: ownerID,
		Name:    gofakeit.AppName(),
		Status:  "active",
	})
	require.NoError(t, err)
	return project
}

func TestDB_Users(t *testing.T) {
	t.Parallel()
	store := newTestDB(t)

	t.Run("CreateAndGet", func(t *testing.T) {
		t.Parallel()

		user, err := store.CreateUser(t.Context(), db.User{
			Username:     "  alice ",
			Email:        "alice@example.com",
			PasswordHash: []byte("hash"),
		})
		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.Equal(t, "alice", user.Username)

		actual, err := store.GetUser(t.Context(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, actual.Email)
		assert.Equal(t, user.PasswordHash, actual.PasswordHash)

		actual, err = store.GetUserByEmail(t.Context(), "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, actual.ID)

		_, err = store.GetUserByEmail(t.Context(), "ALICE@example.com")
		require.ErrorIs(t, err, ErrNotFound)

		_, err = store.GetUser(t.Context(), 0)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		t.Parallel()

		user := db.User{Username: "bob", Email: "bob@example.com", PasswordHash: []byte("hash")}
		_, err := store.CreateUser(t.Context(), user)
		require.NoError(t, err)

		user.Username = "other bob"
		_, err = store.CreateUser(t.Context(), user)
		require.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("ConcurrentDuplicateEmail", func(t *testing.T) {
		t.Parallel()

		const attempts = 16
		var created atomic.Int32
		var grp errgroup.Group
		for i := range attempts {
			grp.Go(func() error {
				_, err := store.CreateUser(t.Context(), db.User{
					Username:     gofakeit.Username(),
					Email:        "race@example.com",
					PasswordHash: []byte{byte(i + 1)},
				})
				switch {
				case err == nil:
					created.Add(1)
					return nil
				case errors.Is(err, ErrAlreadyExists):
					return nil
				default:
					return err
				}
			})
		}
		require.NoError(t, grp.Wait())
		assert.Equal(t, int32(1), created.Load())
	})

	t.Run("Validation", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			user db.User
		}{
			{"missing username", db.User{Username: " ", Email: "x@example.com", PasswordHash: []byte("h")}},
			{"missing email", db.User{Username: "x", PasswordHash: []byte("h")}},
			{"malformed email", db.User{Username: "x", Email: "example.com", PasswordHash: []byte("h")}},
			{"missing hash", db.User{Username: "x", Email: "y@example.com"}},
		}
		for _, test := range tests {
			_, err := store.CreateUser(t.Context(), test.user)
			require.ErrorIs(t, err, ErrInvalidUser, test.name)
		}
	})
}

func TestDB_DeleteUserCascades(t *testing.T) {
	t.Parallel()
	store := newTestDB(t)

	user := createTestUser(t, store)
	other := createTestUser(t, store)
	project := createTestProject(t, store, user.ID)
	otherProject := createTestProject(t, store, other.ID)

	task, err := store.CreateTask(t.Context(), Scope{}, db.Task{ProjectID: project.ID, Title: "mine"})
	require.NoError(t, err)
	otherTask, err := store.CreateTask(t.Context(), Scope{}, db.Task{ProjectID: otherProject.ID, Title: "theirs"})
	require.NoError(t, err)

	hash := []byte("token-hash")
	err = store.CreateSession(t.Context(), db.Session{
		TokenHash:  hash,
		UserID:     user.ID,
		Username:   user.Username,
		Email:      user.Email,
		CreateTime: time.Now().Unix(),
		ExpireTime: time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	require.NoError(t, store.DeleteUser(t.Context(), user.ID))

	_, err = store.GetUser(t.Context(), user.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetProject(t.Context(), user.ID, project.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetTask(t.Context(), Scope{}, task.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetSession(t.Context(), hash)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetTask(t.Context(), Scope{}, otherTask.ID)
	require.NoError(t, err)

	// idempotent
	require.NoError(t, store.DeleteUser(t.Context(), user.ID))
}

func TestDB_Projects(t *testing.T) {
	t.Parallel()
	store := newTestDB(t)
	owner := createTestUser(t, store)
	stranger := createTestUser(t, store)

	t.Run("OwnerScoping", func(t *testing.T) {
		t.Parallel()

		project := createTestProject(t, store, owner.ID)

		actual, err := store.GetProject(t.Context(), owner.ID, project.ID)
		require.NoError(t, err)
		assert.Equal(t, project.Name, actual.Name)
		assert.Equal(t, "active", actual.Status)

		_, err = store.GetProject(t.Context(), stranger.ID, project.ID)
		require.ErrorIs(t, err, ErrNotFound)

		_, err = store.UpdateProject(t.Context(), stranger.ID, project.ID, ProjectPatch{Name: SetTo("stolen")})
		require.ErrorIs(t, err, ErrNotFound)

		err = store.DeleteProject(t.Context(), stranger.ID, project.ID)
		require.ErrorIs(t, err, ErrNotFound)

		actual, err = store.GetProject(t.Context(), owner.ID, project.ID)
		require.NoError(t, err)
		assert.Equal(t, project.Name, actual.Name)

		list, err := store.ListProjects(t.Context(), stranger.ID)
		require.NoError(t, err)
		for _, p := range list {
			assert.Equal(t, stranger.ID, p.OwnerID)
		}
	})

	t.Run("PartialUpdate", func(t *testing.T) {
		t.Parallel()

		due := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
		project, err := store.CreateProject(t.Context(), db.Project{
			OwnerID:     owner.ID,
			Name:        "before",
			Description: sql.NullString{String: "desc", Valid: true},
			Status:      "active",
			DueTime:     sql.NullTime{Time: due, Valid: true},
		})
		require.NoError(t, err)

		updated, err := store.UpdateProject(t.Context(), owner.ID, project.ID, ProjectPatch{
			Status: SetTo("archived"),
		})
		require.NoError(t, err)
		assert.Equal(t, "before", updated.Name)
		assert.Equal(t, "archived", updated.Status)
		assert.Equal(t, sql.NullString{String: "desc", Valid: true}, updated.Description)
		require.True(t, updated.DueTime.Valid)
		assert.True(t, due.Equal(updated.DueTime.Time))

		updated, err = store.UpdateProject(t.Context(), owner.ID, project.ID, ProjectPatch{
			Name:        SetTo("after"),
			Description: SetTo(sql.NullString{}),
			DueTime:     SetTo(sql.NullTime{}),
		})
		require.NoError(t, err)
		assert.Equal(t, "after", updated.Name)
		assert.Equal(t, "archived", updated.Status)
		assert.False(t, updated.Description.Valid)
		assert.False(t, updated.DueTime.Valid)
	})

	t.Run("DeleteCascadesToTasks", func(t *testing.T) {
		t.Parallel()

		project := createTestProject(t, store, owner.ID)
		var ids []uint64
		for range 3 {
			task, err := store.CreateTask(t.Context(), Scope{}, db.Task{ProjectID: project.ID, Title: gofakeit.HackerVerb()})
			require.NoError(t, err)
			ids = append(ids, task.ID)
		}

		require.NoError(t, store.DeleteProject(t.Context(), owner.ID, project.ID))
		for _, id := range ids {
			_, err := store.GetTask(t.Context(), Scope{}, id)
			require.ErrorIs(t, err, ErrNotFound)
		}

		err := store.DeleteProject(t.Context(), owner.ID, project.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDB_Tasks(t *testing.T) {
	t.Parallel()
	store := newTestDB(t)
	owner := createTestUser(t, store)
	stranger := createTestUser(t, store)
	project := createTestProject(t, store, owner.ID)
	strangerProject := createTestProject(t, store, stranger.ID)

	open := Scope{}
	owned := Scope{OwnerID: owner.ID, RequireProject: true}

	t.Run("LenientCreateAllowsDanglingProject", func(t *testing.T) {
		t.Parallel()

		task, err := store.CreateTask(t.Context(), open, db.Task{ProjectID: 42, Title: "dangling"})
		require.NoError(t, err)
		assert.Equal(t, uint64(42), task.ProjectID)
		assert.False(t, task.Completed)
	})

	t.Run("StrictCreateRejectsDanglingProject", func(t *testing.T) {
		t.Parallel()

		_, err := store.CreateTask(t.Context(), Scope{RequireProject: true}, db.Task{ProjectID: 42, Title: "dangling"})
		require.ErrorIs(t, err, ErrInvalidReference)

		_, err = store.CreateTask(t.Context(), owned, db.Task{ProjectID: strangerProject.ID, Title: "spoof"})
		require.ErrorIs(t, err, ErrInvalidReference)

		task, err := store.CreateTask(t.Context(), owned, db.Task{ProjectID: project.ID, Title: "ok"})
		require.NoError(t, err)
		assert.Equal(t, project.ID, task.ProjectID)
	})

	t.Run("OwnerScope", func(t *testing.T) {
		t.Parallel()

		mine, err := store.CreateTask(t.Context(), open, db.Task{ProjectID: project.ID, Title: "mine"})
		require.NoError(t, err)
		theirs, err := store.CreateTask(t.Context(), open, db.Task{ProjectID: strangerProject.ID, Title: "theirs"})
		require.NoError(t, err)

		_, err = store.GetTask(t.Context(), open, theirs.ID)
		require.NoError(t, err)
		_, err = store.GetTask(t.Context(), owned, theirs.ID)
		require.ErrorIs(t, err, ErrNotFound)
		_, err = store.GetTask(t.Context(), owned, mine.ID)
		require.NoError(t, err)

		list, err := store.ListTasks(t.Context(), owned)
		require.NoError(t, err)
		for _, task := range list {
			assert.NotEqual(t, theirs.ID, task.ID)
		}
		all, err := store.ListTasks(t.Context(), open)
		require.NoError(t, err)
		assert.Greater(t, len(all), len(list))

		_, err = store.UpdateTask(t.Context(), owned, theirs.ID, TaskPatch{Completed: SetTo(true)})
		require.ErrorIs(t, err, ErrNotFound)
		err = store.DeleteTask(t.Context(), owned, theirs.ID)
		require.ErrorIs(t, err, ErrNotFound)
		_, err = store.GetTask(t.Context(), open, theirs.ID)
		require.NoError(t, err)
	})

	t.Run("PartialUpdate", func(t *testing.T) {
		t.Parallel()

		task, err := store.CreateTask(t.Context(), open, db.Task{
			ProjectID: project.ID,
			Title:     "write tests",
			Priority:  sql.NullString{String: "high", Valid: true},
		})
		require.NoError(t, err)

		updated, err := store.UpdateTask(t.Context(), open, task.ID, TaskPatch{Completed: SetTo(true)})
		require.NoError(t, err)
		assert.True(t, updated.Completed)
		assert.Equal(t, "write tests", updated.Title)
		assert.Equal(t, "high", updated.Priority.String)

		_, err = store.UpdateTask(t.Context(), owned, task.ID, TaskPatch{ProjectID: SetTo(strangerProject.ID)})
		require.ErrorIs(t, err, ErrInvalidReference)

		_, err = store.UpdateTask(t.Context(), open, 1, TaskPatch{Completed: SetTo(true)})
		require.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, store.DeleteTask(t.Context(), open, task.ID))
		err = store.DeleteTask(t.Context(), open, task.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDB_Sessions(t *testing.T) {
	t.Parallel()
	store := newTestDB(t)
	user := createTestUser(t, store)

	now := time.Now()
	live := db.Session{
		TokenHash:  []byte("live"),
		UserID:     user.ID,
		Username:   user.Username,
		Email:      user.Email,
		CreateTime: now.Unix(),
		ExpireTime: now.Add(time.Hour).Unix(),
	}
	stale := live
	stale.TokenHash = []byte("stale")
	stale.ExpireTime = now.Add(-time.Minute).Unix()

	require.NoError(t, store.CreateSession(t.Context(), live))
	require.NoError(t, store.CreateSession(t.Context(), stale))

	actual, err := store.GetSession(t.Context(), live.TokenHash)
	require.NoError(t, err)
	assert.Equal(t, live, actual)

	n, err := store.DeleteExpiredSessions(t.Context(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = store.GetSession(t.Context(), stale.TokenHash)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.DeleteSession(t.Context(), live.TokenHash))
	require.NoError(t, store.DeleteSession(t.Context(), live.TokenHash))
	_, err = store.GetSession(t.Context(), live.TokenHash)
	require.ErrorIs(t, err, ErrNotFound)
}
