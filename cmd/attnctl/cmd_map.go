package main

import (
	"fmt"
	"os"
	"path/filepath"

	"attnrouter/internal/repomap"

	"github.com/spf13/cobra"
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Build the repository map and rank files by PageRank under a token budget",
}

var mapRankCmd = &cobra.Command{
	Use:   "rank [path...]",
	Short: "Walk the given paths (default: workspace root), extract symbols, and print ranked files",
	RunE: func(cmd *cobra.Command, args []string) error {
		roots := args
		if len(roots) == 0 {
			roots = []string{workspace}
		}

		rm := repomap.New()
		err := walkAndAddFiles(rm, roots)
		if err != nil {
			return err
		}

		budget := cfg.RepoMap.TokenBudget
		ranked := rm.GetRankedFiles(budget)
		for _, rf := range ranked {
			fmt.Printf("%.6f  %s\n", rf.Score, rf.Path)
		}
		return nil
	},
}

func walkAndAddFiles(rm *repomap.RepoMapper, roots []string) error {
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			content, readErr := os.ReadFile(path)
			if readErr != nil {
				return nil
			}
			rel, relErr := filepath.Rel(workspace, path)
			if relErr != nil {
				rel = path
			}
			rm.AddFile(rel, string(content))
			return nil
		})
		if err != nil {
			return fmt.Errorf("walk %s: %w", root, err)
		}
	}
	return nil
}

func init() {
	mapCmd.AddCommand(mapRankCmd)
}
