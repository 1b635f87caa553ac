package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"attnrouter/internal/attnstate"
	"attnrouter/internal/learner"
	"attnrouter/internal/router"

	"github.com/spf13/cobra"
)

var routeCmd = &cobra.Command{
	Use:   "route <prompt>",
	Short: "Run one Router turn against the persisted AttentionState and print the HOT/WARM/COLD partition",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		activated, _ := cmd.Flags().GetStringSlice("activated")
		prompt := strings.Join(args, " ")

		state := attnstate.Load(statePath())
		lrn := learner.Load(learnerPath())

		r := router.New(cfg.Router.ToAttentionConfig())
		r.UpdateAttention(state, prompt, activated, lrn)
		lrn.ObserveTurn(prompt, activated)

		hot, warm, cold := r.BuildContextOutput(state)
		printTier("HOT", hot)
		printTier("WARM", warm)
		fmt.Printf("COLD: %d files\n", len(cold))

		if err := attnstate.Save(state, statePath()); err != nil {
			return fmt.Errorf("save attention state: %w", err)
		}
		if err := lrn.Save(learnerPath()); err != nil {
			return fmt.Errorf("save learner state: %w", err)
		}
		return nil
	},
}

func printTier(label string, files []string) {
	fmt.Printf("%s:\n", label)
	for _, f := range files {
		fmt.Printf("  %s\n", f)
	}
}

func statePath() string {
	return filepath.Join(stateDir(), "attention-state.json")
}

func learnerPath() string {
	return filepath.Join(stateDir(), "learner.json")
}

func init() {
	routeCmd.Flags().StringSlice("activated", nil, "files directly activated by this prompt (e.g. mentioned or touched)")
}
