package sec

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/tracker/internal/config"
	"github.com/stolasapp/tracker/internal/storage"
	"github.com/stolasapp/tracker/internal/storage/db"
	"github.com/stolasapp/tracker/internal/storage/redisstore"
)

const (
	testEmail    = "alice@example.com"
	testPassword = "correct horse battery staple"
)

func newTestStore(t *testing.T) *storage.DB {
	t.Helper()
	cfg := config.Default()
	cfg.DBFilepath = filepath.Join(t.TempDir(), "db.sqlite")
	store, err := storage.NewDB(t.Context(), cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	hash, err := HashPassword(testPassword)
	require.NoError(t, err)
	_, err = store.CreateUser(t.Context(), db.User{
		Username:     "alice",
		Email:        testEmail,
		PasswordHash: hash,
	})
	require.NoError(t, err)
	return store
}

func sessionBackends(t *testing.T, store *storage.DB) map[string]storage.Sessions {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return map[string]storage.Sessions{
		"sqlite": store,
		"redis":  redisstore.New(client, "test:"),
	}
}

func TestManager(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	for name, sessions := range sessionBackends(t, store) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			logger := slog.New(slog.DiscardHandler)
			mgr := NewManager(logger, store, sessions, time.Hour)

			t.Run("LoginResolveLogout", func(t *testing.T) {
				session, err := mgr.Login(t.Context(), testEmail, testPassword)
				require.NoError(t, err)
				assert.NotEmpty(t, session.Token)
				assert.Equal(t, "alice", session.Identity.Username)
				assert.Equal(t, testEmail, session.Identity.Email)
				assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpireTime, time.Minute)

				id, err := mgr.Resolve(t.Context(), session.Token)
				require.NoError(t, err)
				assert.Equal(t, session.Identity, id)

				require.NoError(t, mgr.Logout(t.Context(), session.Token))
				_, err = mgr.Resolve(t.Context(), session.Token)
				assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

				// logging out again is not an error
				require.NoError(t, mgr.Logout(t.Context(), session.Token))
				require.NoError(t, mgr.Logout(t.Context(), ""))
			})

			t.Run("InvalidCredentialsAreIndistinguishable", func(t *testing.T) {
				_, wrongPassword := mgr.Login(t.Context(), testEmail, "nope")
				_, unknownEmail := mgr.Login(t.Context(), "bob@example.com", testPassword)

				require.Error(t, wrongPassword)
				require.Error(t, unknownEmail)
				assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(wrongPassword))
				assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
			})

			t.Run("ResolveRejectsUnknownTokens", func(t *testing.T) {
				for _, token := range []string{"", "garbage", "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"} {
					_, err := mgr.Resolve(t.Context(), token)
					assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err), token)
				}
			})

			t.Run("RevokeUser", func(t *testing.T) {
				first, err := mgr.Login(t.Context(), testEmail, testPassword)
				require.NoError(t, err)
				second, err := mgr.Login(t.Context(), testEmail, testPassword)
				require.NoError(t, err)
				assert.NotEqual(t, first.Token, second.Token)

				require.NoError(t, mgr.RevokeUser(t.Context(), first.Identity.ID))
				for _, token := range []string{first.Token, second.Token} {
					_, err = mgr.Resolve(t.Context(), token)
					assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
				}
			})
		})
	}
}

func TestManager_Expiry(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	mgr := NewManager(slog.New(slog.DiscardHandler), store, store, time.Minute)

	session, err := mgr.Login(t.Context(), testEmail, testPassword)
	require.NoError(t, err)

	mgr.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = mgr.Resolve(t.Context(), session.Token)
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	// expired sessions are removed once observed
	_, err = store.GetSession(t.Context(), hashToken(session.Token))
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIdentityContext(t *testing.T) {
	t.Parallel()

	assert.Zero(t, GetIdentity(t.Context()))

	id := Identity{ID: 1, Username: "alice", Email: testEmail}
	ctx := SetIdentity(t.Context(), id)
	assert.Equal(t, id, GetIdentity(ctx))
}
