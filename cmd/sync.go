package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"skyrng/internal/syncer"
)

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Push the current snapshot to the backend immediately",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := wireApp()
			if err != nil {
				return err
			}
			defer a.close()

			err = a.engine.SyncNow(cmd.Context(), a.store.Snapshot())
			if errors.Is(err, syncer.ErrNotLinked) {
				return fmt.Errorf("no account linked: run 'skyrng link <code>' first")
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Synced")
			return nil
		},
	}
}
