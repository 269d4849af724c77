package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/sevenrooms-watcher/internal/auth"
	"github.com/example/sevenrooms-watcher/internal/scheduler"
	"github.com/example/sevenrooms-watcher/internal/web"
)

func newWatchCmd(configPath *string) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll availability forever and notify on wanted slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, dryRun)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			board := &scheduler.Board{}
			s := a.scheduler()
			s.Reporter = board

			if addr := a.cfg.Status.Addr; addr != "" {
				hashKey, blockKey, err := a.cfg.Status.SessionKeys()
				if err != nil {
					return err
				}
				ws := &web.Server{
					Auth:     auth.NewStore(hashKey, blockKey, a.cfg.Status.PasswordBcrypt),
					Status:   board,
					Venue:    a.cfg.Venue,
					Interval: a.cfg.PollInterval(),
					Log:      a.log,
				}
				go func() {
					if err := web.Start(ctx, addr, ws.Routes(), a.log); err != nil {
						a.log.Error("status server failed", zap.Error(err))
					}
				}()
			}

			a.log.Info("watching availability",
				zap.String("venue", a.cfg.Venue),
				zap.Int("party_size", a.cfg.PartySize),
				zap.Strings("dates", a.cfg.DatesNeeded),
				zap.Strings("times", a.cfg.TimesNeeded),
				zap.Duration("interval", a.cfg.PollInterval()),
				zap.Bool("dry_run", dryRun),
			)
			if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "match and log slots without sending notifications")
	return cmd
}
