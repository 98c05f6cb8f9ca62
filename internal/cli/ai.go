package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sohammathur/Chat-Application--AI/pkg/client"
)

func (a *app) aiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ai",
		Short: "Ask the code assistant",
	}

	var applyTo string
	var raw bool
	ask := &cobra.Command{
		Use:   "ask <prompt>...",
		Short: "Send a prompt; optionally write the generated tree into a project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			answer, err := c.GenerateResult(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if raw {
				fmt.Fprintln(out, answer)
				return nil
			}

			res, err := client.ParseAIResult(answer)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, res.Text)
			if res.BuildCommand != nil {
				fmt.Fprintf(out, "build: %s\n", res.BuildCommand)
			}
			if res.StartCommand != nil {
				fmt.Fprintf(out, "start: %s\n", res.StartCommand)
			}

			if applyTo == "" {
				return nil
			}
			if res.FileTree == nil {
				return fmt.Errorf("answer has no file tree to apply")
			}
			p, err := c.UpdateFileTree(cmd.Context(), applyTo, res.FileTree)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "file tree applied to %s (version %d)\n", p.ID, p.Version)
			return nil
		},
	}
	ask.Flags().StringVar(&applyTo, "apply", "", "project id whose file tree is replaced by the generated one")
	ask.Flags().BoolVar(&raw, "raw", false, "print the unparsed answer")
	cmd.AddCommand(ask)

	return cmd
}
