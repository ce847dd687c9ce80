// Package config handles resolving configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every environment variable read by [Load].
const EnvPrefix = "TRACKER_"

// SessionBackend selects where login sessions are persisted.
type SessionBackend string

// Supported session backends.
const (
	SessionBackendSQLite SessionBackend = "sqlite"
	SessionBackendRedis  SessionBackend = "redis"
)

// TaskPolicy selects how task reads and writes are scoped.
type TaskPolicy string

// Supported task policies.
const (
	// TaskPolicyOpen lets any authenticated user act on any task.
	TaskPolicyOpen TaskPolicy = "open"
	// TaskPolicyOwner scopes tasks to the owner of their project.
	TaskPolicyOwner TaskPolicy = "owner"
)

// ProjectRefs selects whether task writes must reference an existing project.
type ProjectRefs string

// Supported project reference modes.
const (
	ProjectRefsLenient ProjectRefs = "lenient"
	ProjectRefsStrict  ProjectRefs = "strict"
)

// Config is the complete process configuration.
type Config struct {
	LogLevel   slog.Level `env:"LOG_LEVEL"`
	WebAddress string     `env:"WEB_ADDRESS"`
	DBFilepath string     `env:"DB_FILEPATH"`
	DevMode    bool       `env:"DEV_MODE"`
	// DevSeed fixes the generated demo data in dev mode. Zero picks a random
	// seed.
	DevSeed uint64 `env:"DEV_SEED"`

	Session Session `envPrefix:"SESSION_"`
	Redis   Redis   `envPrefix:"REDIS_"`
	Access  Access
}

// Session configures login sessions and their cookie.
type Session struct {
	Backend       SessionBackend `env:"BACKEND"`
	TTL           time.Duration  `env:"TTL"`
	SweepInterval time.Duration  `env:"SWEEP_INTERVAL"`
	CookieSecure  bool           `env:"COOKIE_SECURE"`
}

// Redis configures the redis session backend.
type Redis struct {
	Address  string `env:"ADDRESS"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB"`
	Prefix   string `env:"PREFIX"`
}

// Access configures the authorization policy.
type Access struct {
	TaskPolicy  TaskPolicy  `env:"TASK_POLICY"`
	ProjectRefs ProjectRefs `env:"PROJECT_REFS"`
}

// Default returns a version of the config with all default values populated.
func Default() *Config {
	return &Config{
		LogLevel:   slog.LevelInfo,
		WebAddress: "localhost:9999",
		DBFilepath: filepath.Join(xdg.DataHome, "tracker", "db.sqlite"),
		Session: Session{
			Backend:       SessionBackendSQLite,
			TTL:           24 * time.Hour,
			SweepInterval: 10 * time.Minute,
		},
		Redis: Redis{
			Address: "localhost:6379",
			Prefix:  "tracker:",
		},
		Access: Access{
			TaskPolicy:  TaskPolicyOpen,
			ProjectRefs: ProjectRefsLenient,
		},
	}
}

// Load overlays the TRACKER_* environment variables on the defaults and
// validates the result.
func Load() (*Config, error) {
	return load(env.Options{Prefix: EnvPrefix})
}

func load(opts env.Options) (*Config, error) {
	cfg := Default()
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid field of the config.
func (c *Config) Validate() error {
	var errs []error
	if c.DBFilepath == "" {
		errs = append(errs, errors.New("db filepath is required"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session ttl must be positive"))
	}
	switch c.Session.Backend {
	case SessionBackendSQLite:
	case SessionBackendRedis:
		if c.Redis.Address == "" {
			errs = append(errs, errors.New("redis address is required for the redis session backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown session backend %q", c.Session.Backend))
	}
	switch c.Access.TaskPolicy {
	case TaskPolicyOpen, TaskPolicyOwner:
	default:
		errs = append(errs, fmt.Errorf("unknown task policy %q", c.Access.TaskPolicy))
	}
	switch c.Access.ProjectRefs {
	case ProjectRefsLenient, ProjectRefsStrict:
	default:
		errs = append(errs, fmt.Errorf("unknown project refs mode %q", c.Access.ProjectRefs))
	}
	return errors.Join(errs...)
}

// LogValue satisfies [slog.LogValuer], omitting secrets.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("log_level", c.LogLevel.String()),
		slog.String("web_address", c.WebAddress),
		slog.String("db_filepath", c.DBFilepath),
		slog.Bool("dev_mode", c.DevMode),
		slog.String("session_backend", string(c.Session.Backend)),
		slog.Duration("session_ttl", c.Session.TTL),
		slog.String("task_policy", string(c.Access.TaskPolicy)),
		slog.String("project_refs", string(c.Access.ProjectRefs)),
	)
}
