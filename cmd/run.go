package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"skyrng/internal/log"
	"skyrng/internal/tail"
)

func newRunCmd() *cobra.Command {
	var logPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Follow the game client log and track meter progress",
		Long:  "Follows the client chat log, feeds every chat line through the extractors, and keeps the local snapshot and backend in sync until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := wireApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := log.SetFileOutput(a.cfg.LogFile); err != nil {
				return fmt.Errorf("configure log file: %w", err)
			}
			defer log.Close()

			path := logPath
			if path == "" {
				path = a.cfg.GameLogPath
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			fmt.Fprintf(cmd.OutOrStdout(), "Following %s (ctrl-c to stop)\n", path)
			log.Info("Run: following game log", "path", path)

			follower := tail.New(path, 0)
			err = follower.Run(ctx, func(line string) {
				if msg, ok := tail.ChatMessage(line); ok {
					a.chat.ProcessLine(msg)
				}
			})

			if err != nil && ctx.Err() == nil {
				return fmt.Errorf("log follower stopped: %w", err)
			}

			// shutdown: flush local state, then one last push if linked
			if flushErr := a.gateway.FlushNow(); flushErr != nil {
				log.Warn("Run: final flush failed", "error", flushErr)
			}
			if a.links.Linked() && a.store.HasData() {
				if syncErr := a.engine.SyncNow(context.Background(), a.store.Snapshot()); syncErr != nil {
					log.Warn("Run: final sync failed", "error", syncErr)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&logPath, "log", "", "game client log file to follow (defaults to the configured path)")
	return cmd
}
