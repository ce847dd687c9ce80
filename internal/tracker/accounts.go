package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"connectrpc.com/connect"
	"go.opentelemetry.io/otel/attribute"

	"github.com/stolasapp/tracker/internal/sec"
	"github.com/stolasapp/tracker/internal/storage"
	"github.com/stolasapp/tracker/internal/storage/db"
)

var errEmailExists = errors.New("email already exists")

// Register creates a user with the given credentials. The email must not be
// registered already.
func (s *Service) Register(ctx context.Context, username, email, password string) (user db.User, err error) {
	ctx, span := s.start(ctx, "Register")
	defer func() { finish(span, err) }()

	switch {
	case strings.TrimSpace(username) == "":
		return user, invalidArgument("username is required")
	case len(strings.TrimSpace(username)) > storage.MaxUsernameLength:
		return user, invalidArgument(fmt.Sprintf("username must be at most %d characters", storage.MaxUsernameLength))
	case !strings.Contains(email, "@"):
		return user, invalidArgument("a valid email is required")
	case password == "":
		return user, invalidArgument("password is required")
	case len(password) > sec.MaxPasswordLength:
		return user, connect.NewError(connect.CodeInvalidArgument, sec.ErrPasswordTooLong)
	}

	hash, err := sec.HashPassword(password)
	if err != nil {
		return user, internal(err)
	}
	user, err = s.store.CreateUser(ctx, db.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	switch {
	case errors.Is(err, storage.ErrAlreadyExists):
		return user, connect.NewError(connect.CodeAlreadyExists, errEmailExists)
	case errors.Is(err, storage.ErrInvalidUser):
		return user, connect.NewError(connect.CodeInvalidArgument, err)
	case err != nil:
		return user, internal(err)
	}
	span.SetAttributes(attribute.String("user.id", formatID(user.ID)))
	return user, nil
}

// Login establishes a session for the user with the given credentials.
func (s *Service) Login(ctx context.Context, email, password string) (session sec.Session, err error) {
	ctx, span := s.start(ctx, "Login")
	defer func() { finish(span, err) }()
	return s.sessions.Login(ctx, email, password)
}

// Logout destroys the session identified by token, if any.
func (s *Service) Logout(ctx context.Context, token string) (err error) {
	ctx, span := s.start(ctx, "Logout")
	defer func() { finish(span, err) }()
	return s.sessions.Logout(ctx, token)
}

// DeleteAccount permanently removes a user with all of their projects, tasks,
// and sessions.
func (s *Service) DeleteAccount(ctx context.Context, userID uint64) (err error) {
	ctx, span := s.start(ctx, "DeleteAccount", attribute.String("user.id", formatID(userID)))
	defer func() { finish(span, err) }()

	if err = s.store.DeleteUser(ctx, userID); err != nil {
		return internal(err)
	}
	// sqlite sessions cascade with the user, other backends do not
	if err = s.sessions.RevokeUser(ctx, userID); err != nil {
		return internal(err)
	}
	return nil
}
