package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func (a *app) projectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project", "p"},
		Short:   "Create and manage projects",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a project owned by you",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			p, err := c.CreateProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List projects you are a member of",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			list, err := c.ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(no projects)")
				return nil
			}
			for _, p := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s\t%s\t(%d members)\n", p.ID, p.Name, len(p.Users))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <projectId>",
		Short: "Show a project with its members and file tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			p, err := c.GetProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add-users <projectId> <userId>...",
		Short: "Add collaborators to a project",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			p, err := c.AddUsers(cmd.Context(), args[0], args[1:])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	})

	var treeFile string
	fileTree := &cobra.Command{
		Use:   "file-tree <projectId>",
		Short: "Replace a project's file tree with a JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := readTree(cmd.InOrStdin(), treeFile)
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			p, err := c.UpdateFileTree(cmd.Context(), args[0], tree)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}
	fileTree.Flags().StringVarP(&treeFile, "file", "f", "-", "JSON file holding the tree (- for stdin)")
	cmd.AddCommand(fileTree)

	return cmd
}

func readTree(stdin io.Reader, path string) (map[string]any, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open tree: %w", err)
		}
		defer f.Close()
		r = f
	}

	var tree map[string]any
	if err := json.NewDecoder(r).Decode(&tree); err != nil {
		return nil, fmt.Errorf("file tree must be a JSON object: %w", err)
	}
	if tree == nil {
		return nil, fmt.Errorf("file tree must be a JSON object")
	}
	return tree, nil
}
