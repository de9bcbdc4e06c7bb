package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"skyrng/internal/linkstate"
	"skyrng/internal/log"
)

func newLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link <code>",
		Short: "Link an account using an 8-character code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]
			if !linkstate.ValidCode(code) {
				return fmt.Errorf("invalid link code %q: expected 8 alphanumeric characters", code)
			}

			a, err := wireApp()
			if err != nil {
				return err
			}
			defer a.close()

			cred, err := a.client.Verify(cmd.Context(), code)
			if err != nil {
				return fmt.Errorf("link verification failed: %w", err)
			}

			if err := a.links.Link(cred.Token, cred.Username); err != nil {
				return fmt.Errorf("store link credential: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Linked as %s\n", cred.Username)
			return nil
		},
	}
}

func newUnlinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlink",
		Short: "Unlink the account and discard the credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := wireApp()
			if err != nil {
				return err
			}
			defer a.close()

			token, ok := a.links.Token()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No account is linked")
				return nil
			}

			// revoke remotely best-effort; the local credential goes either way
			if err := a.client.Unlink(cmd.Context(), token); err != nil {
				log.Warn("Unlink: remote revoke failed", "error", err)
			}

			if err := a.links.Unlink(); err != nil {
				return fmt.Errorf("discard link credential: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Unlinked")
			return nil
		},
	}
}
