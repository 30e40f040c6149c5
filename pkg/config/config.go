// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultModel is used when TERMAGENT_MODEL is not set.
const DefaultModel = "claude-sonnet-4-20250514"

// Config holds everything the binary needs to start.
type Config struct {
	// APIKey authenticates against the Anthropic API. Required.
	APIKey string
	// Model is the backend model identifier.
	Model string
	// Workspace is the directory file tools are confined to and the
	// working directory for shell commands.
	Workspace string
	// TranscriptDir is where conversation transcripts are persisted.
	TranscriptDir string
	// SystemPrompt overrides the built-in system prompt when non-empty.
	SystemPrompt string
	// MCPServer is an optional MCP server spec ("stdio:cmd args" or an
	// http(s) URL). Empty disables the MCP tool source.
	MCPServer string
}

// Load reads the environment, after merging in a .env file when one exists
// in the current directory. Missing credentials are an error; the caller is
// expected to treat that as fatal at startup.
func Load() (*Config, error) {
	// Ignore absence; .env is a convenience, not a requirement.
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:        strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")),
		Model:         strings.TrimSpace(os.Getenv("TERMAGENT_MODEL")),
		Workspace:     strings.TrimSpace(os.Getenv("TERMAGENT_WORKSPACE")),
		TranscriptDir: strings.TrimSpace(os.Getenv("TERMAGENT_TRANSCRIPT_DIR")),
		SystemPrompt:  os.Getenv("TERMAGENT_SYSTEM_PROMPT"),
		MCPServer:     strings.TrimSpace(os.Getenv("TERMAGENT_MCP_SERVER")),
	}

	if cfg.APIKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY is not set")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Workspace == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		cfg.Workspace = wd
	}
	if cfg.TranscriptDir == "" {
		cfg.TranscriptDir = cfg.Workspace
	}
	return cfg, nil
}
