package access

import (
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/tracker/internal/config"
	"github.com/stolasapp/tracker/internal/sec"
	"github.com/stolasapp/tracker/internal/storage"
	"github.com/stolasapp/tracker/internal/storage/db"
)

type fixture struct {
	store    *storage.DB
	owner    sec.Identity
	stranger sec.Identity
	project  db.Project
	task     db.Task
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	cfg := config.Default()
	cfg.DBFilepath = filepath.Join(t.TempDir(), "db.sqlite")
	store, err := storage.NewDB(t.Context(), cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	identity := func(name string) sec.Identity {
		user, err := store.CreateUser(t.Context(), db.User{
			Username:     name,
			Email:        name + "@example.com",
			PasswordHash: []byte("hash"),
		})
		require.NoError(t, err)
		return sec.Identity{ID: user.ID, Username: user.Username, Email: user.Email}
	}
	f := fixture{
		store:    store,
		owner:    identity("owner"),
		stranger: identity("stranger"),
	}
	f.project, err = store.CreateProject(t.Context(), db.Project{OwnerID: f.owner.ID, Name: "p", Status: "active"})
	require.NoError(t, err)
	f.task, err = store.CreateTask(t.Context(), storage.Scope{}, db.Task{ProjectID: f.project.ID, Title: "t"})
	require.NoError(t, err)
	return f
}

func TestPolicyFromConfig(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Policy{}, PolicyFromConfig(config.Default().Access))
	assert.Equal(t,
		Policy{OwnerScopedTasks: true, StrictProjectRefs: true},
		PolicyFromConfig(config.Access{TaskPolicy: config.TaskPolicyOwner, ProjectRefs: config.ProjectRefsStrict}),
	)
}

// lookup resolves a resource through the gate's scopes, as the service does.
func (f fixture) lookup(t *testing.T, gate *Gate, caller sec.Identity, kind Kind, id uint64) error {
	t.Helper()
	var err error
	switch kind {
	case KindProject:
		_, err = f.store.GetProject(t.Context(), gate.ProjectOwner(caller), id)
	case KindTask:
		_, err = f.store.GetTask(t.Context(), gate.TaskScope(caller), id)
	}
	return Deny(kind, err)
}

func TestGate_Scopes(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	tests := []struct {
		name   string
		policy Policy
		caller sec.Identity
		kind   Kind
		id     uint64
		want   connect.Code // zero means allowed
	}{
		{"owner reads project", Policy{}, f.owner, KindProject, f.project.ID, 0},
		{"stranger reads project", Policy{}, f.stranger, KindProject, f.project.ID, connect.CodeNotFound},
		{"owner reads missing project", Policy{}, f.owner, KindProject, 1, connect.CodeNotFound},
		{"open policy lets stranger read task", Policy{}, f.stranger, KindTask, f.task.ID, 0},
		{"owner policy hides task from stranger", Policy{OwnerScopedTasks: true}, f.stranger, KindTask, f.task.ID, connect.CodeNotFound},
		{"owner policy allows owner", Policy{OwnerScopedTasks: true}, f.owner, KindTask, f.task.ID, 0},
		{"missing task", Policy{}, f.owner, KindTask, 1, connect.CodeNotFound},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			err := f.lookup(t, NewGate(test.policy), test.caller, test.kind, test.id)
			if test.want == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, test.want, connect.CodeOf(err))
		})
	}
}

func TestGate_DenialsDoNotLeakExistence(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	gate := NewGate(Policy{OwnerScopedTasks: true})

	for _, kind := range []Kind{KindProject, KindTask} {
		existing := f.project.ID
		if kind == KindTask {
			existing = f.task.ID
		}
		hidden := f.lookup(t, gate, f.stranger, kind, existing)
		missing := f.lookup(t, gate, f.stranger, kind, 1)
		require.Error(t, hidden)
		require.Error(t, missing)
		assert.Equal(t, missing.Error(), hidden.Error())
		assert.Equal(t, connect.CodeNotFound, connect.CodeOf(hidden))
	}
}

func TestDeny(t *testing.T) {
	t.Parallel()

	require.NoError(t, Deny(KindProject, nil))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(Deny(KindTask, storage.ErrNotFound)))
	assert.Equal(t, connect.CodeInternal, connect.CodeOf(Deny(KindTask, errors.New("disk I/O error"))))
}

func TestGate_TaskScope(t *testing.T) {
	t.Parallel()
	id := sec.Identity{ID: 7}

	tests := []struct {
		policy Policy
		want   storage.Scope
	}{
		{Policy{}, storage.Scope{}},
		{Policy{StrictProjectRefs: true}, storage.Scope{RequireProject: true}},
		{Policy{OwnerScopedTasks: true}, storage.Scope{OwnerID: 7, RequireProject: true}},
	}
	for _, test := range tests {
		gate := NewGate(test.policy)
		assert.Equal(t, test.want, gate.TaskScope(id))
		assert.Equal(t, uint64(7), gate.ProjectOwner(id))
	}
}
