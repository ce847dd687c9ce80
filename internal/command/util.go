package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/redis/go-redis/v9"
	"golang.org/x/term"

	"github.com/stolasapp/tracker/internal/access"
	"github.com/stolasapp/tracker/internal/config"
	"github.com/stolasapp/tracker/internal/sec"
	"github.com/stolasapp/tracker/internal/storage"
	"github.com/stolasapp/tracker/internal/storage/redisstore"
	"github.com/stolasapp/tracker/internal/tracker"
)

type configKey struct{}

func prompt(prompt string, mask bool) ([]byte, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		if _, err := os.Stderr.WriteString(prompt); err != nil {
			return nil, err
		}
	}
	return readLine(os.Stdin, mask)
}

// cloned from term.readPasswordLine.
func readLine(stdin *os.File, mask bool) ([]byte, error) {
	if mask && term.IsTerminal(int(stdin.Fd())) {
		return term.ReadPassword(int(stdin.Fd()))
	}
	var buf [1]byte
	var ret []byte

	for {
		n, err := stdin.Read(buf[:])
		if n > 0 {
			switch buf[0] {
			case '\b':
				if len(ret) > 0 {
					ret = ret[:len(ret)-1]
				}
			case '\n':
				if runtime.GOOS != "windows" {
					return ret, nil
				}
				// otherwise ignore \n
			case '\r':
				if runtime.GOOS == "windows" {
					return ret, nil
				}
				// otherwise ignore \r
			default:
				ret = append(ret, buf[0]) //nolint:gosec // erroneous error
			}
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(ret) > 0 {
				return ret, nil
			}
			return ret, err
		}
	}
}

func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown-dev"
	}
	ver := "unknown"
	dirty := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			ver = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if dirty {
		ver += "-dev"
	}
	return ver
}

// deps is the set of long-lived dependencies shared by the commands.
type deps struct {
	cfg    *config.Config
	logger *slog.Logger
	store  storage.Store
	redis  redis.UniversalClient
	svc    *tracker.Service
}

func loadDeps(ctx context.Context) (*deps, error) {
	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok {
		return nil, errors.New("config resolution failed")
	}
	rt := &deps{
		cfg:    cfg,
		logger: slog.Default(),
	}
	store, err := storage.NewDB(ctx, cfg, rt.logger)
	if err != nil {
		return nil, err
	}
	rt.store = store

	var sessions storage.Sessions = store
	if cfg.Session.Backend == config.SessionBackendRedis {
		rt.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err = rt.redis.Ping(ctx).Err(); err != nil {
			return nil, errors.Join(fmt.Errorf("failed to connect to redis: %w", err), rt.Close())
		}
		sessions = redisstore.New(rt.redis, cfg.Redis.Prefix)
	}

	rt.svc = tracker.New(
		rt.logger,
		store,
		sec.NewManager(rt.logger, store, sessions, cfg.Session.TTL),
		access.NewGate(access.PolicyFromConfig(cfg.Access)),
	)
	return rt, nil
}

// Close releases the open connections.
func (rt *deps) Close() error {
	var errs []error
	if rt.redis != nil {
		errs = append(errs, rt.redis.Close())
	}
	if rt.store != nil {
		errs = append(errs, rt.store.Close())
	}
	return errors.Join(errs...)
}
