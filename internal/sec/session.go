package sec

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/authn"
	"connectrpc.com/connect"

	"github.com/stolasapp/tracker/internal/storage"
	"github.com/stolasapp/tracker/internal/storage/db"
)

// tokenSize is the number of random bytes in a session token.
const tokenSize = 32

// ErrSessionTeardown is wrapped by the error returned from [Manager.Logout]
// when the session could not be destroyed.
var ErrSessionTeardown = errors.New("failed to destroy session")

var tokenEncoding = base64.RawURLEncoding

// Session is the result of a successful login.
type Session struct {
	// Token is the opaque capability handed to the client. It is never
	// stored.
	Token      string
	Identity   Identity
	ExpireTime time.Time
}

// Manager maps session tokens to authenticated identities. A single Manager
// should be created at startup and shared by every request.
type Manager struct {
	users    storage.Users
	sessions storage.Sessions
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewManager creates a session manager that verifies credentials against
// users and persists sessions lasting ttl in sessions.
func NewManager(
	logger *slog.Logger,
	users storage.Users,
	sessions storage.Sessions,
	ttl time.Duration,
) *Manager {
	return &Manager{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Login verifies the email and password and establishes a new session. An
// unknown email and a wrong password produce the same Unauthenticated error.
func (m *Manager) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := m.users.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		_ = ComparePassword(password, dummyHash())
		return Session{}, invalidCredentials()
	} else if err != nil {
		return Session{}, connect.NewError(connect.CodeInternal, err)
	}
	if err = ComparePassword(password, user.PasswordHash); err != nil {
		return Session{}, invalidCredentials()
	}

	token, err := newToken()
	if err != nil {
		return Session{}, connect.NewError(connect.CodeInternal, err)
	}
	now := m.now()
	session := Session{
		Token: token,
		Identity: Identity{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
		ExpireTime: now.Add(m.ttl),
	}
	err = m.sessions.CreateSession(ctx, db.Session{
		TokenHash:  hashToken(token),
		UserID:     user.ID,
		Username:   user.Username,
		Email:      user.Email,
		CreateTime: now.Unix(),
		ExpireTime: session.ExpireTime.Unix(),
	})
	if err != nil {
		return Session{}, connect.NewError(connect.CodeInternal, err)
	}
	return session, nil
}

// Logout invalidates the session identified by token. Missing or unknown
// sessions are not an error; failing to delete one wraps [ErrSessionTeardown].
func (m *Manager) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.sessions.DeleteSession(ctx, hashToken(token)); err != nil {
		return connect.NewError(connect.CodeInternal, fmt.Errorf("%w: %w", ErrSessionTeardown, err))
	}
	return nil
}

// Resolve returns the identity bound to token. An Unauthenticated error is
// returned if the token is missing, unknown, or expired.
func (m *Manager) Resolve(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, unauthenticated()
	}
	hash := hashToken(token)
	session, err := m.sessions.GetSession(ctx, hash)
	if errors.Is(err, storage.ErrNotFound) {
		return Identity{}, unauthenticated()
	} else if err != nil {
		return Identity{}, connect.NewError(connect.CodeInternal, err)
	}
	if session.Expired(m.now()) {
		if err = m.sessions.DeleteSession(ctx, hash); err != nil {
			m.logger.WarnContext(ctx, "failed to delete expired session", slog.Any("error", err))
		}
		return Identity{}, unauthenticated()
	}
	return Identity{
		ID:       session.UserID,
		Username: session.Username,
		Email:    session.Email,
	}, nil
}

// RevokeUser invalidates every session of a user.
func (m *Manager) RevokeUser(ctx context.Context, userID uint64) error {
	return m.sessions.DeleteUserSessions(ctx, userID)
}

// Sweep periodically removes expired sessions until ctx is canceled.
func (m *Manager) Sweep(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := m.sessions.DeleteExpiredSessions(ctx, m.now())
			if err != nil {
				m.logger.WarnContext(ctx, "failed to sweep expired sessions", slog.Any("error", err))
				continue
			}
			if n > 0 {
				m.logger.DebugContext(ctx, "swept expired sessions", slog.Int64("count", n))
			}
		}
	}
}

func invalidCredentials() error {
	return authn.Errorf("invalid email or password")
}

func unauthenticated() error {
	return authn.Errorf("unauthorized")
}

func newToken() (string, error) {
	var buf [tokenSize]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return tokenEncoding.EncodeToString(buf[:]), nil
}

func hashToken(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}
