package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"astrofiler/internal/cardwatch"
	"astrofiler/internal/logging"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Announce capture cards as they are inserted",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger(cmd)
			if err != nil {
				return err
			}
			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			monitor := cardwatch.New(logger, func(_ context.Context, card cardwatch.Card) error {
				label := card.Label
				if label == "" {
					label = "unlabelled"
				}
				fmt.Fprintf(out, "Card %s (%s) attached; once mounted, queue it with `astrofiler frames queue <id> --from <mountpoint>`\n",
					card.Device, label)
				return nil
			})
			if err := monitor.Start(runCtx); err != nil {
				return err
			}
			defer monitor.Stop()
			if !monitor.Running() {
				return fmt.Errorf("card detection unavailable on this system")
			}

			logger.Info("watching for capture cards", logging.String(logging.FieldEventType, "watch_started"))
			<-runCtx.Done()
			return nil
		},
	}
}
