// Package cli implements workspacectl, a command-line client for the
// workspace API.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Sohammathur/Chat-Application--AI/pkg/client"
)

type app struct {
	cfgFile string
	baseURL string

	v    *viper.Viper
	path string
}

// NewRootCmd builds the command tree. Configuration is loaded lazily before
// each command runs.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "workspacectl",
		Short:         "Manage collaborative workspace projects from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ~/.workspacectl/config.yaml)")
	root.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "API base URL (overrides config)")

	root.AddCommand(
		a.projectsCmd(),
		a.aiCmd(),
		a.usersCmd(),
		a.tokenCmd(),
	)
	return root
}

// Execute is the entry point called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) load() error {
	v, path, err := loadViper(a.cfgFile)
	if err != nil {
		return err
	}
	if a.baseURL != "" {
		v.Set(keyBaseURL, a.baseURL)
	}
	a.v, a.path = v, path
	return nil
}

func (a *app) client() (*client.Client, error) {
	s, err := settingsFrom(a.v)
	if err != nil {
		return nil, err
	}
	return client.New(s.BaseURL, client.StoredToken(s.Token)), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
