package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show link state and the last sync outcome",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := wireApp()
			if err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()

			if a.links.Linked() {
				fmt.Fprintf(out, "Account:   linked (%s)\n", a.links.Username())
			} else {
				fmt.Fprintln(out, "Account:   not linked")
			}

			status := a.engine.Status()
			switch {
			case status.LastError != "":
				fmt.Fprintf(out, "Last sync: failed - %s\n", status.LastError)
			case status.LastSyncAt.IsZero():
				fmt.Fprintln(out, "Last sync: never")
			default:
				fmt.Fprintf(out, "Last sync: %s\n", status.LastSyncAt.Format("2006-01-02 15:04:05"))
			}

			if a.store.HasData() {
				fmt.Fprintln(out, "Data:      captured (see 'skyrng show')")
			} else {
				fmt.Fprintln(out, "Data:      nothing observed yet")
			}
			return nil
		},
	}
}
