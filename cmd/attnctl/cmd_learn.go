package main

import (
	"fmt"
	"os"

	"attnrouter/internal/learner"

	"github.com/spf13/cobra"
)

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Inspect or reset the persisted Learner state",
}

var learnShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the Learner's maturity, turn count, and learned co-activation edges",
	RunE: func(cmd *cobra.Command, args []string) error {
		lrn := learner.Load(learnerPath())
		fmt.Printf("maturity:   %s\n", maturityOf(lrn))
		fmt.Printf("active:     %v\n", lrn.IsActive())
		fmt.Printf("turn count: %d\n", lrn.TurnCount)
		coact := lrn.GetLearnedCoactivation()
		fmt.Printf("learned co-activation edges: %d\n", len(coact))
		for file, neighbors := range coact {
			fmt.Printf("  %s -> %v\n", file, neighbors)
		}
		return nil
	},
}

var learnResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the persisted Learner state",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.Remove(learnerPath()); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("reset learner state: %w", err)
		}
		fmt.Println("learner state reset")
		return nil
	},
}

func maturityOf(l *learner.Learner) string {
	if l.IsActive() {
		return string(learner.Active)
	}
	return string(learner.Observing)
}

func init() {
	learnCmd.AddCommand(learnShowCmd, learnResetCmd)
}
