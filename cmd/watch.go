package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"skyrng/internal/log"
	"skyrng/internal/tail"
	"skyrng/internal/tui"
)

func newWatchCmd() *cobra.Command {
	var logPath string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the game client log with a live meter view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) {
				return fmt.Errorf("watch requires a terminal; use 'skyrng run' otherwise")
			}

			a, err := wireApp()
			if err != nil {
				return err
			}
			defer a.close()

			// stdout belongs to the UI from here on
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

			follower := tail.New(path, 0)
			go func() {
				err := follower.Run(ctx, func(line string) {
					if msg, ok := tail.ChatMessage(line); ok {
						a.chat.ProcessLine(msg)
					}
				})
				if err != nil && ctx.Err() == nil {
					log.Error("Watch: log follower stopped", "error", err)
				}
			}()

			view := tui.NewWatchApp(a.store, a.engine.Status)
			if err := view.Run(); err != nil {
				return fmt.Errorf("terminal view failed: %w", err)
			}

			if flushErr := a.gateway.FlushNow(); flushErr != nil {
				log.Warn("Watch: final flush failed", "error", flushErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&logPath, "log", "", "game client log file to follow (defaults to the configured path)")
	return cmd
}
