// Package apitest runs the API on a real listener for end-to-end tests.
package apitest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/stolasapp/tracker/internal/access"
	"github.com/stolasapp/tracker/internal/app"
	"github.com/stolasapp/tracker/internal/config"
	"github.com/stolasapp/tracker/internal/sec"
	"github.com/stolasapp/tracker/internal/server"
	"github.com/stolasapp/tracker/internal/storage"
	"github.com/stolasapp/tracker/internal/storage/redisstore"
	"github.com/stolasapp/tracker/internal/tracker"
)

// Server is a running API server backed by a temporary database.
type Server struct {
	baseURL string
}

// NewServer starts a server configured by Default with mutate applied. It is
// stopped when the test ends. A redis session backend is served by an
// in-process miniredis.
func NewServer(tb testing.TB, mutate func(cfg *config.Config)) *Server {
	tb.Helper()
	cfg := config.Default()
	cfg.LogLevel = slog.LevelDebug
	cfg.DBFilepath = filepath.Join(tb.TempDir(), "db.sqlite")
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(tb, cfg.Validate())

	ctx, cancel := context.WithCancel(context.Background())
	grp, ctx := errgroup.WithContext(ctx)
	logger := slog.New(slog.DiscardHandler)

	store, err := storage.NewDB(ctx, cfg, logger)
	require.NoError(tb, err)

	var sessions storage.Sessions = store
	if cfg.Session.Backend == config.SessionBackendRedis {
		mini := miniredis.RunT(tb)
		client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
		tb.Cleanup(func() { _ = client.Close() })
		sessions = redisstore.New(client, cfg.Redis.Prefix)
	}

	svc := tracker.New(
		logger,
		store,
		sec.NewManager(logger, store, sessions, cfg.Session.TTL),
		access.NewGate(access.PolicyFromConfig(cfg.Access)),
	)
	addr, err := server.Start(ctx, grp, logger, app.New(cfg, logger, svc), "127.0.0.1:0")
	if err != nil {
		cancel()
		_ = store.Close()
		require.NoError(tb, err)
	}

	// Errors are ignored since this runs during test cleanup where failures
	// are typically unrecoverable.
	tb.Cleanup(func() {
		cancel()
		_ = grp.Wait()
		_ = store.Close()
	})
	return &Server{baseURL: "http://" + addr.String()}
}

// URL constructs a full URL from the server base URL and a path.
func (s *Server) URL(path string) string {
	return fmt.Sprintf("%s%s", s.baseURL, path)
}

// Client is an API client holding its own session cookie.
type Client struct {
	tb     testing.TB
	server *Server
	http   *http.Client
}

// Client creates a client with an empty cookie jar.
func (s *Server) Client(tb testing.TB) *Client {
	tb.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(tb, err)
	return &Client{
		tb:     tb,
		server: s,
		http:   &http.Client{Jar: jar},
	}
}

// Response is a decoded API response.
type Response struct {
	Status int
	Body   []byte
}

// Decode unmarshals the body into dst.
func (r Response) Decode(tb testing.TB, dst any) {
	tb.Helper()
	require.NoError(tb, json.Unmarshal(r.Body, dst), string(r.Body))
}

// Message returns the message field of the body.
func (r Response) Message(tb testing.TB) string {
	tb.Helper()
	var msg struct {
		Message string `json:"message"`
	}
	r.Decode(tb, &msg)
	return msg.Message
}

// Do sends a request with body encoded as JSON, if not nil.
func (c *Client) Do(method, path string, body any) Response {
	c.tb.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.tb, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(c.tb.Context(), method, c.server.URL(path), reader)
	require.NoError(c.tb, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	require.NoError(c.tb, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(c.tb, err)
	return Response{Status: resp.StatusCode, Body: data}
}
