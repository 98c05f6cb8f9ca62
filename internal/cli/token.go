package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Store or remove the bearer token sent with every request",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <token>",
		Short: "Save a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := save(a.path, keyToken, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "token saved to %s\n", a.path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget the saved token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := save(a.path, keyToken, ""); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "token cleared")
			return nil
		},
	})

	return cmd
}
