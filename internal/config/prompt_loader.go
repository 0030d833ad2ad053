package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// loadPromptsFromFiles replaces inline prompts with the content of configured prompt files.
// A file always wins over an inline prompt at the same level
func (c *Config) loadPromptsFromFiles() error {
	loaded := 0

	targets := []struct {
		scope   string
		prompts *PromptConfig
	}{
		{"global", &c.AI.CustomPrompts},
		{"rewrite", &c.AI.Rewrite.CustomPrompts},
	}

	for _, target := range targets {
		n, err := loadPromptPair(target.scope, target.prompts)
		if err != nil {
			return err
		}
		loaded += n
	}

	if loaded == 0 {
		log.Println("[CONFIG] No custom prompts loaded - using built-in defaults")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded: %d", loaded)
	}
	return nil
}

func loadPromptPair(scope string, prompts *PromptConfig) (int, error) {
	loaded := 0
	if prompts.SystemFile != "" {
		content, err := loadPromptFromFile(prompts.SystemFile, "system", scope)
		if err != nil {
			return loaded, err
		}
		prompts.System = content
		loaded++
	}
	if prompts.UserFile != "" {
		content, err := loadPromptFromFile(prompts.UserFile, "user", scope)
		if err != nil {
			return loaded, err
		}
		prompts.User = content
		loaded++
	}
	return loaded, nil
}

// loadPromptFromFile reads a prompt file, rejecting missing or empty files
func loadPromptFromFile(filePath, promptType, scope string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", scope, promptType, filePath, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s %s prompt file not found: %s", scope, promptType, absPath)
		}
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", scope, promptType, absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", scope, promptType, absPath)
	}

	log.Printf("[CONFIG] Successfully loaded %s %s prompt from file: %s (%d characters)",
		scope, promptType, absPath, len(trimmed))
	return trimmed, nil
}
