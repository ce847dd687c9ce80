// Package tracker implements the project and task service on top of the
// storage layer.
//
// Every operation on projects and tasks acts as the identity found in the
// request context (see [sec.GetIdentity]); owners are never taken from input.
// Visibility is decided by an [access.Gate]. Errors are ConnectRPC errors whose
// codes the transport maps to its own status codes:
//
//   - InvalidArgument: a required field is missing or a reference is invalid
//   - AlreadyExists: the email is already registered
//   - Unauthenticated: no session, or invalid credentials at login
//   - NotFound: the record is missing or not visible to the caller
//   - Internal: a storage failure; the cause is attached but not user facing
package tracker

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"connectrpc.com/authn"
	"connectrpc.com/connect"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/stolasapp/tracker/internal/access"
	"github.com/stolasapp/tracker/internal/sec"
	"github.com/stolasapp/tracker/internal/storage"
)

const tracerName = "github.com/stolasapp/tracker/internal/tracker"

// Service implements account, project, and task operations.
type Service struct {
	logger   *slog.Logger
	store    storage.Store
	sessions *sec.Manager
	gate     *access.Gate
	tracer   trace.Tracer
}

// New creates a Service. The session manager and gate are shared with the
// rest of the process and must be the same instances the transport uses.
func New(
	logger *slog.Logger,
	store storage.Store,
	sessions *sec.Manager,
	gate *access.Gate,
) *Service {
	return &Service{
		logger:   logger,
		store:    store,
		sessions: sessions,
		gate:     gate,
		tracer:   otel.Tracer(tracerName),
	}
}

// Sessions returns the session manager used for login and logout.
func (s *Service) Sessions() *sec.Manager {
	return s.sessions
}

func (s *Service) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "tracker."+op, trace.WithAttributes(attrs...))
}

func finish(span trace.Span, err error) {
	if err != nil && connect.CodeOf(err) == connect.CodeInternal {
		span.RecordError(err)
		span.SetStatus(codes.Error, "internal error")
	}
	span.End()
}

// caller returns the authenticated identity, or an Unauthenticated error.
func caller(ctx context.Context) (sec.Identity, error) {
	id := sec.GetIdentity(ctx)
	if id.ID == 0 {
		return id, authn.Errorf("unauthorized")
	}
	return id, nil
}

func invalidArgument(msg string) error {
	return connect.NewError(connect.CodeInvalidArgument, errors.New(msg))
}

func internal(err error) error {
	return connect.NewError(connect.CodeInternal, err)
}

func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
