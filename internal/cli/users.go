package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect users",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			u, err := c.Profile(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), u)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "List every other user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			list, err := c.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(no users)")
				return nil
			}
			for _, u := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s\t%s\n", u.ID, u.Email)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Revoke the saved token on the server and forget it locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			revoked, err := c.Logout(cmd.Context())
			if err != nil {
				return err
			}
			if err := save(a.path, keyToken, ""); err != nil {
				return err
			}
			if revoked {
				fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "logged out locally; the server could not revoke the token, it stays valid until it expires")
			}
			return nil
		},
	})

	return cmd
}
