package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"attnrouter/internal/embedding"
	"attnrouter/internal/searchindex"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build and query the search index over project files",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build [path...]",
	Short: "Walk the given paths (default: workspace root) and build the document store",
	RunE: func(cmd *cobra.Command, args []string) error {
		roots := args
		if len(roots) == 0 {
			roots = []string{workspace}
		}

		idx, err := openIndex()
		if err != nil {
			return err
		}
		defer idx.Close()

		var docs []searchindex.Document
		now := float64(time.Now().Unix())
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
				docs = append(docs, searchindex.Document{
					Path:    rel,
					Content: string(content),
					Mtime:   now,
					DocType: filepath.Ext(path),
				})
				return nil
			})
			if err != nil {
				return fmt.Errorf("walk %s: %w", root, err)
			}
		}

		if err := idx.Build(docs, now); err != nil {
			return err
		}
		fmt.Printf("indexed %d documents\n", len(docs))
		return nil
	},
}

var indexQueryCmd = &cobra.Command{
	Use:   "query <prompt>",
	Short: "Query the search index and print ranked results",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, _ := cmd.Flags().GetInt("k")

		idx, err := openIndex()
		if err != nil {
			return err
		}
		defer idx.Close()

		results, err := idx.Query(context.Background(), strings.Join(args, " "), k)
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Printf("%.4f  %s\n", r.Score, r.Path)
		}
		return nil
	},
}

func init() {
	indexQueryCmd.Flags().Int("k", 10, "number of results to return")
	indexCmd.AddCommand(indexBuildCmd, indexQueryCmd)
}

func openIndex() (*searchindex.Index, error) {
	storePath := cfg.SearchIndex.StorePath
	if !filepath.IsAbs(storePath) {
		storePath = filepath.Join(workspace, storePath)
	}

	var opts []searchindex.Option
	if cfg.SearchIndex.TrueTermFreq {
		opts = append(opts, searchindex.WithTrueTermFrequency())
	}
	if cfg.SearchIndex.CandidateFactor > 0 {
		opts = append(opts, searchindex.WithCandidateFactor(cfg.SearchIndex.CandidateFactor))
	}
	if cfg.SearchIndex.RerankEnabled && cfg.Embedding.Provider != "" {
		engine, err := embedding.NewEngine(embedding.Config{
			Provider:       cfg.Embedding.Provider,
			OllamaEndpoint: cfg.Embedding.BaseURL,
			OllamaModel:    cfg.Embedding.Model,
			GenAIModel:     cfg.Embedding.Model,
			GenAIAPIKey:    cfg.Embedding.APIKey,
		})
		if err == nil {
			opts = append(opts, searchindex.WithEmbedder(engine))
		}
	}

	return searchindex.Open(storePath, opts...)
}

