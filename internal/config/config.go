// Package config loads the attention-routing engine's YAML configuration
// file into typed per-concern structs and translates the router section
// into the attnstate.Config the Router consumes. The other sections are
// read field by field by their callers; the logging section is not passed
// to internal/logging, which reads its own .attn/config.json.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"attnrouter/internal/attnstate"
	"attnrouter/internal/logging"

	"gopkg.in/yaml.v3"
)

// Config is the root on-disk shape, rooted at .attn/config.yaml in a
// project workspace.
type Config struct {
	Router     RouterConfig     `yaml:"router"`
	SearchIndex SearchIndexConfig `yaml:"search_index"`
	RepoMap    RepoMapConfig    `yaml:"repo_map"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// RouterConfig is the YAML schema for attnstate.Config, spec.md §3/§6.
type RouterConfig struct {
	DecayRates    map[string]float64 `yaml:"decay_rates"`
	DefaultDecay  float64            `yaml:"default_decay"`
	HotThreshold  float64            `yaml:"hot_threshold"`
	WarmThreshold float64            `yaml:"warm_threshold"`

	CoactivationBoost float64 `yaml:"coactivation_boost"`
	TransitiveBoost   float64 `yaml:"transitive_boost"`
	PinnedFloorBoost  float64 `yaml:"pinned_floor_boost"`

	DemotedPenalty float64 `yaml:"demoted_penalty"`

	MaxHotFiles  int `yaml:"max_hot_files"`
	MaxWarmFiles int `yaml:"max_warm_files"`

	CoActivation map[string][]string `yaml:"co_activation"`
	PinnedFiles  []string            `yaml:"pinned_files"`
	DemotedFiles []string            `yaml:"demoted_files"`
}

// SearchIndexConfig controls the BM25/TF-IDF/rerank pipeline.
type SearchIndexConfig struct {
	StorePath       string `yaml:"store_path"`
	RerankEnabled   bool   `yaml:"rerank_enabled"`
	TrueTermFreq    bool   `yaml:"true_term_frequency"`
	CandidateFactor int    `yaml:"candidate_factor"` // the "3" in 3k candidates
}

// RepoMapConfig controls symbol extraction and PageRank token budgeting.
type RepoMapConfig struct {
	TokenBudget     int  `yaml:"token_budget"`
	FixedIterations int  `yaml:"fixed_iterations"`
	Damping         float64 `yaml:"damping"`
}

// EmbeddingConfig selects and configures the embedding backend.
type EmbeddingConfig struct {
	Provider string `yaml:"provider"` // "ollama" | "genai" | ""
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
}

// LoggingConfig mirrors internal/logging's on-disk config.json shape but is
// expressed here in YAML for consistency with the rest of the project file.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"`
	JSONFormat bool            `yaml:"json_format"`
}

// DefaultConfig returns the spec's documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Router: RouterConfig{
			DefaultDecay:      attnstate.DefaultDecay,
			HotThreshold:      0.80,
			WarmThreshold:     0.25,
			CoactivationBoost: 0.35,
			TransitiveBoost:   0.15,
			PinnedFloorBoost:  0.10,
			DemotedPenalty:    0.50,
			MaxHotFiles:       3,
			MaxWarmFiles:      5,
		},
		SearchIndex: SearchIndexConfig{
			StorePath:       "data/search_index.db",
			RerankEnabled:   true,
			CandidateFactor: 3,
		},
		RepoMap: RepoMapConfig{
			TokenBudget:     8000,
			FixedIterations: 100,
			Damping:         0.85,
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Load reads path, falling back to defaults when the file does not exist,
// matching the teacher's Load() degrade-gracefully pattern.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.CLI("config file not found, using defaults: %s", path)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	logging.CLI("config loaded from %s", path)
	return cfg, nil
}

// Save writes config to path as YAML, creating parent directories as
// needed. Not atomic — callers persisting frequently-mutated state (the
// Learner, AttentionState) should use their own atomic-write helpers
// instead; this is for operator-edited project config.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// ToAttentionConfig translates the YAML schema into the immutable
// attnstate.Config the Router consumes.
func (rc *RouterConfig) ToAttentionConfig() *attnstate.Config {
	cfg := &attnstate.Config{
		DecayRates:        attnstate.NewDecayRates(rc.DecayRates, rc.DefaultDecay),
		HotThreshold:       orDefault(rc.HotThreshold, 0.80),
		WarmThreshold:      orDefault(rc.WarmThreshold, 0.25),
		CoactivationBoost:  orDefault(rc.CoactivationBoost, 0.35),
		TransitiveBoost:    orDefault(rc.TransitiveBoost, 0.15),
		PinnedFloorBoost:   orDefault(rc.PinnedFloorBoost, 0.10),
		DemotedPenalty:     orDefaultCap(rc.DemotedPenalty, 0.50),
		MaxHotFiles:        orDefaultInt(rc.MaxHotFiles, 3),
		MaxWarmFiles:       orDefaultInt(rc.MaxWarmFiles, 5),
		CoActivation:       rc.CoActivation,
		PinnedFiles:        toSet(rc.PinnedFiles),
		DemotedFiles:       toSet(rc.DemotedFiles),
	}
	if cfg.CoActivation == nil {
		cfg.CoActivation = make(map[string][]string)
	}
	return cfg
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func orDefaultCap(v, def float64) float64 {
	if v <= 0 || v > 1 {
		return def
	}
	return v
}

func orDefaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func toSet(items []string) map[string]struct{} {
	s := make(map[string]struct{}, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}
