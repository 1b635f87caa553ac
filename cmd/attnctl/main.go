// Package main implements attnctl, the command-line host for the
// attention-routing engine.
//
// # File Index
//
// Entry Point & Global State:
//   - main.go       - rootCmd, global flags, workspace resolution
//
// Commands:
//   - cmd_index.go  - index build/query (SearchIndex)
//   - cmd_map.go    - map rank (RepoMapper)
//   - cmd_route.go  - route (Router.UpdateAttention + BuildContextOutput)
//   - cmd_learn.go  - learn show/reset (Learner)
//   - cmd_tui.go    - tui (Bubble Tea HOT/WARM/COLD dashboard)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"attnrouter/internal/config"
	"attnrouter/internal/logging"

	"github.com/spf13/cobra"
)

var (
	workspace string
	cfg       *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "attnctl",
	Short: "attnctl drives the attention-routing engine from the command line",
	Long: `attnctl is the reference host for the attention-routing engine: it
builds the SearchIndex and RepoMapper, runs the Router over a persisted
AttentionState turn by turn, and lets the Learner observe file touches
in between.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ws := workspace
		if ws == "" {
			var err error
			ws, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("resolve workspace: %w", err)
			}
		}
		abs, err := filepath.Abs(ws)
		if err != nil {
			return fmt.Errorf("resolve workspace: %w", err)
		}
		workspace = abs

		if err := logging.Initialize(workspace); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}

		loaded, err := config.Load(configPath())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded

		logging.CLI("attnctl starting in %s", workspace)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
	},
}

func configPath() string {
	return filepath.Join(workspace, ".attn", "config.yaml")
}

func stateDir() string {
	return filepath.Join(workspace, ".attn")
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "project root (defaults to the current directory)")
	rootCmd.AddCommand(indexCmd, mapCmd, routeCmd, learnCmd, tuiCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
