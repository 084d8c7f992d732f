package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// chdir moves into an empty directory so a developer's .env can't leak in.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)
	t.Setenv("GITHUB_TOKEN", "tok")
	t.Setenv("GITHUB_API_URL", "")

	cfg := Load()
	if cfg.GitHubToken != "tok" {
		t.Errorf("GitHubToken = %q, want %q", cfg.GitHubToken, "tok")
	}
	if cfg.GitHubAPIURL != DefaultAPIURL {
		t.Errorf("GitHubAPIURL = %q, want %q", cfg.GitHubAPIURL, DefaultAPIURL)
	}
	if cfg.OutputDir != "." {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, ".")
	}
}

func TestLoadTrimsAPIURL(t *testing.T) {
	chdir(t)
	t.Setenv("GITHUB_API_URL", "http://localhost:8080/")

	if got := Load().GitHubAPIURL; got != "http://localhost:8080" {
		t.Errorf("GitHubAPIURL = %q", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdir(t)
	t.Setenv("GITHUB_TOKEN", "")
	if err := os.Unsetenv("GITHUB_TOKEN"); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("GITHUB_TOKEN=from-dotenv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("GITHUB_TOKEN") })

	if got := Load().GitHubToken; got != "from-dotenv" {
		t.Errorf("GitHubToken = %q, want %q", got, "from-dotenv")
	}
}

func TestValidate(t *testing.T) {
	if err := (&Config{}).Validate(); !errors.Is(err, ErrMissingToken) {
		t.Errorf("Validate() = %v, want ErrMissingToken", err)
	}
	if err := (&Config{GitHubToken: "x"}).Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}
