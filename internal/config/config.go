package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const DefaultAPIURL = "https://api.github.com"

// ErrMissingToken is returned by Validate when GITHUB_TOKEN is unset.
var ErrMissingToken = errors.New("GITHUB_TOKEN is not set")

type Config struct {
	GitHubToken  string
	GitHubAPIURL string

	// OutputDir is where raw response bodies are written.
	OutputDir string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		GitHubToken:  strings.TrimSpace(os.Getenv("GITHUB_TOKEN")),
		GitHubAPIURL: os.Getenv("GITHUB_API_URL"),
		OutputDir:    ".",
	}

	if cfg.GitHubAPIURL == "" {
		cfg.GitHubAPIURL = DefaultAPIURL
	}
	cfg.GitHubAPIURL = strings.TrimSuffix(cfg.GitHubAPIURL, "/")

	return cfg
}

func (c *Config) Validate() error {
	if c.GitHubToken == "" {
		return ErrMissingToken
	}
	return nil
}
