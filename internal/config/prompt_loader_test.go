package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadPromptsFromFiles(t *testing.T) {
	tempDir := t.TempDir()

	systemPromptContent := "Rewrite resumes without inventing facts"
	userPromptContent := "Sections: %s Gaps: %s"

	systemPromptFile := filepath.Join(tempDir, "system.rewrite.md")
	userPromptFile := filepath.Join(tempDir, "user.rewrite.md")

	if err := os.WriteFile(systemPromptFile, []byte(systemPromptContent+"\n"), 0600); err != nil {
		t.Fatalf("Failed to create test system prompt file: %v", err)
	}
	if err := os.WriteFile(userPromptFile, []byte(userPromptContent), 0600); err != nil {
		t.Fatalf("Failed to create test user prompt file: %v", err)
	}

	config := &Config{
		AI: AIConfig{
			Rewrite: OperationAIConfig{
				CustomPrompts: PromptConfig{
					System:     "inline prompt that the file replaces",
					SystemFile: systemPromptFile,
					UserFile:   userPromptFile,
				},
			},
		},
	}

	if err := config.loadPromptsFromFiles(); err != nil {
		t.Fatalf("Failed to load prompts from files: %v", err)
	}

	if got := config.AI.Rewrite.CustomPrompts.System; got != systemPromptContent {
		t.Errorf("Expected system prompt %q, got %q", systemPromptContent, got)
	}
	if got := config.AI.Rewrite.CustomPrompts.User; got != userPromptContent {
		t.Errorf("Expected user prompt %q, got %q", userPromptContent, got)
	}
}

func TestLoadPromptsFromFiles_Errors(t *testing.T) {
	tempDir := t.TempDir()
	emptyFile := filepath.Join(tempDir, "empty.md")
	if err := os.WriteFile(emptyFile, []byte("   \n"), 0600); err != nil {
		t.Fatalf("Failed to create empty prompt file: %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(tempDir, "missing.md")},
		{"empty file", emptyFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{AI: AIConfig{CustomPrompts: PromptConfig{UserFile: tt.path}}}
			if err := config.loadPromptsFromFiles(); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestGetRewriteConfig_Fallbacks(t *testing.T) {
	opTimeout := 45 * time.Second
	config := &Config{
		AI: AIConfig{
			Provider:         "gemini",
			Model:            "gemini-2.0-flash",
			Timeout:          60 * time.Second,
			APIKey:           "global-key",
			MaxRetries:       3,
			Temperature:      0.7,
			UseSystemPrompts: true,
			CustomPrompts:    PromptConfig{System: "global system"},
			Rewrite: OperationAIConfig{
				Timeout:       &opTimeout,
				CustomPrompts: PromptConfig{User: "rewrite user"},
			},
		},
	}

	got := config.GetRewriteConfig()

	if got.Model != "gemini-2.0-flash" {
		t.Errorf("Expected model fallback, got %q", got.Model)
	}
	if *got.Timeout != opTimeout {
		t.Errorf("Expected operation timeout %v, got %v", opTimeout, *got.Timeout)
	}
	if got.APIKey != "global-key" {
		t.Errorf("Expected API key fallback, got %q", got.APIKey)
	}
	if *got.MaxRetries != 3 {
		t.Errorf("Expected max retries fallback 3, got %d", *got.MaxRetries)
	}
	if got.CustomPrompts.System != "global system" || got.CustomPrompts.User != "rewrite user" {
		t.Errorf("Unexpected prompt fallbacks: %+v", got.CustomPrompts)
	}
	if config.AI.Rewrite.MaxRetries != nil {
		t.Error("GetRewriteConfig must not mutate the stored operation config")
	}
	if !config.AIEnabled() {
		t.Error("Expected AI to be enabled with an API key")
	}
}
