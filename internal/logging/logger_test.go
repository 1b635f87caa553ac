package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func resetLoggingState() {
	CloseAll()
	loggersMu.Lock()
	loggers = make(map[Category]*Logger)
	loggersMu.Unlock()
	logsDir = ""
	workspace = ""
	configLoaded = false
	config = loggingConfig{}
}

func TestAllCategoriesLog(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configDir := filepath.Join(tempDir, ".attn")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}

	configContent := `{
		"logging": {
			"level": "debug",
			"debug_mode": true,
			"categories": {
				"boot": true,
				"router": true,
				"learner": true,
				"search": true,
				"repomap": true,
				"embedding": true,
				"watch": true,
				"cli": true
			}
		}
	}`

	configPath := filepath.Join(configDir, "config.json")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	resetLoggingState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	if !IsDebugMode() {
		t.Error("Expected debug mode to be enabled")
	}

	categories := []Category{
		CategoryBoot,
		CategoryRouter,
		CategoryLearner,
		CategorySearchIndex,
		CategoryRepoMap,
		CategoryEmbedding,
		CategoryWatch,
		CategoryCLI,
	}

	for _, cat := range categories {
		if !IsCategoryEnabled(cat) {
			t.Errorf("Category %s should be enabled", cat)
		}
		logger := Get(cat)
		logger.Info("Test info message for %s", cat)
		logger.Debug("Test debug message for %s", cat)
		logger.Warn("Test warn message for %s", cat)
		logger.Error("Test error message for %s", cat)
	}

	Router("Convenience router log")
	RouterDebug("Convenience router debug log")
	Learner("Convenience learner log")
	Search("Convenience search log")
	RepoMap("Convenience repomap log")
	Embedding("Convenience embedding log")
	Watch("Convenience watch log")
	CLI("Convenience cli log")

	CloseAll()

	logsPath := filepath.Join(tempDir, ".attn", "logs")
	entries, err := os.ReadDir(logsPath)
	if err != nil {
		t.Fatalf("Failed to read logs dir: %v", err)
	}

	for _, cat := range categories {
		found := false
		for _, entry := range entries {
			if strings.Contains(entry.Name(), string(cat)+".log") {
				found = true
				content, err := os.ReadFile(filepath.Join(logsPath, entry.Name()))
				if err != nil {
					t.Errorf("Failed to read log file for %s: %v", cat, err)
					continue
				}
				if len(content) == 0 {
					t.Errorf("Log file for %s is empty", cat)
				}
				break
			}
		}
		if !found {
			t.Errorf("No log file found for category: %s", cat)
		}
	}
}

func TestDebugModeDisabled(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test_disabled")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configDir := filepath.Join(tempDir, ".attn")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}

	configContent := `{
		"logging": {
			"level": "debug",
			"debug_mode": false,
			"categories": {"boot": true, "router": true}
		}
	}`

	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	resetLoggingState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	if IsDebugMode() {
		t.Error("Expected debug mode to be DISABLED (production mode)")
	}

	for _, cat := range []Category{CategoryBoot, CategoryRouter, CategoryLearner} {
		if IsCategoryEnabled(cat) {
			t.Errorf("Category %s should be DISABLED when debug_mode=false", cat)
		}
	}

	Router("This should NOT be logged")
	logger := Get(CategoryBoot)
	logger.Info("This should NOT be logged")
	logger.Error("This should NOT be logged")

	CloseAll()

	logsPath := filepath.Join(tempDir, ".attn", "logs")
	if _, err := os.Stat(logsPath); err == nil {
		entries, _ := os.ReadDir(logsPath)
		if len(entries) > 0 {
			t.Errorf("Expected NO log files in production mode, but found %d files", len(entries))
		}
	}
}

func TestCategoryToggle(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test_category")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configDir := filepath.Join(tempDir, ".attn")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}

	configContent := `{
		"logging": {
			"level": "debug",
			"debug_mode": true,
			"categories": {
				"boot": true,
				"router": true,
				"watch": false,
				"learner": false
			}
		}
	}`

	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	resetLoggingState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	if !IsCategoryEnabled(CategoryBoot) {
		t.Error("boot should be enabled")
	}
	if !IsCategoryEnabled(CategoryRouter) {
		t.Error("router should be enabled")
	}
	if IsCategoryEnabled(CategoryWatch) {
		t.Error("watch should be DISABLED")
	}
	if IsCategoryEnabled(CategoryLearner) {
		t.Error("learner should be DISABLED")
	}
	if !IsCategoryEnabled(CategorySearchIndex) {
		t.Error("search (not in config) should default to enabled")
	}

	Router("This SHOULD be logged")
	Watch("This should NOT be logged")
	Learner("This should NOT be logged")
	Search("This SHOULD be logged (default enabled)")

	CloseAll()

	logsPath := filepath.Join(tempDir, ".attn", "logs")
	entries, _ := os.ReadDir(logsPath)

	var hasRouterLog, hasWatchLog, hasLearnerLog bool
	for _, e := range entries {
		name := e.Name()
		if strings.Contains(name, "router") {
			hasRouterLog = true
		}
		if strings.Contains(name, "watch") {
			hasWatchLog = true
		}
		if strings.Contains(name, "learner") {
			hasLearnerLog = true
		}
	}

	if !hasRouterLog {
		t.Error("Expected router log file")
	}
	if hasWatchLog {
		t.Error("Should NOT have watch log file (disabled)")
	}
	if hasLearnerLog {
		t.Error("Should NOT have learner log file (disabled)")
	}
}

func TestTimerLogging(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test_timer")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configDir := filepath.Join(tempDir, ".attn")
	os.MkdirAll(configDir, 0755)
	os.WriteFile(filepath.Join(configDir, "config.json"), []byte(`{"logging": {"level": "debug", "debug_mode": true}}`), 0644)

	resetLoggingState()
	Initialize(tempDir)

	timer := StartTimer(CategoryRouter, "TestOperation")
	time.Sleep(time.Millisecond)
	elapsed := timer.Stop()

	if elapsed <= 0 {
		t.Error("Timer should have recorded non-zero duration")
	}

	CloseAll()
}
