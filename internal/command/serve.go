package command

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stolasapp/tracker/internal/app"
	"github.com/stolasapp/tracker/internal/app/devseed"
	"github.com/stolasapp/tracker/internal/server"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "serve the tracker JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			rt, err := loadDeps(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := rt.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			grp, ctx := errgroup.WithContext(cmd.Context())

			if rt.cfg.DevMode {
				seed := devseed.Seed(rt.cfg.DevSeed)
				if err = devseed.Run(ctx, rt.logger, rt.svc, seed); err != nil {
					return err
				}
			}

			if interval := rt.cfg.Session.SweepInterval; interval > 0 {
				rt.logger.DebugContext(ctx, "sweeping expired sessions", slog.Duration("interval", interval))
				grp.Go(func() error {
					return rt.svc.Sessions().Sweep(ctx, interval)
				})
			}

			srv := app.New(rt.cfg, rt.logger, rt.svc)
			if _, err = server.Start(ctx, grp, rt.logger, srv, rt.cfg.WebAddress); err != nil {
				return err
			}
			return grp.Wait()
		},
	}
}
