package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Index.InternalPrefix != "index" {
		t.Errorf("InternalPrefix = %q, want %q", cfg.Index.InternalPrefix, "index")
	}
	if cfg.Index.LocalDir == "" {
		t.Error("LocalDir should have a default")
	}
	if cfg.Workers != 1 {
		t.Errorf("Workers = %d, want 1", cfg.Workers)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Server.Port)
	}
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("BINDLE_INDEX_BUCKET", "stoic-index")
	t.Setenv("BINDLE_INDEX_PREFIX", "wheels/")
	t.Setenv("BINDLE_PRIMARY_BRANCH", "feature/deps")
	t.Setenv("BINDLE_WORKERS", "4")
	t.Setenv("BINDLE_RESOLVE_TIMEOUT", "30s")
	t.Setenv("BINDLE_S3_USE_PATH_STYLE", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Index.Bucket != "stoic-index" {
		t.Errorf("Bucket = %q", cfg.Index.Bucket)
	}
	if cfg.Index.Prefix != "wheels/" {
		t.Errorf("Prefix = %q", cfg.Index.Prefix)
	}
	if cfg.Branches.Primary != "feature/deps" {
		t.Errorf("Primary = %q", cfg.Branches.Primary)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	if cfg.Server.ResolveTimeout != 30*time.Second {
		t.Errorf("ResolveTimeout = %v", cfg.Server.ResolveTimeout)
	}
	if !cfg.Index.S3UsePathStyle {
		t.Error("S3UsePathStyle should be true")
	}
}

func TestLoadConfig_TokenFallsBackToGithubToken(t *testing.T) {
	t.Setenv("BINDLE_GITHUB_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "ghp_fallback")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Remote.Token != "ghp_fallback" {
		t.Errorf("Token = %q, want fallback from GITHUB_TOKEN", cfg.Remote.Token)
	}

	t.Setenv("BINDLE_GITHUB_TOKEN", "ghp_explicit")
	cfg, err = LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Remote.Token != "ghp_explicit" {
		t.Errorf("Token = %q, want explicit value", cfg.Remote.Token)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	cfg.Workers = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for zero workers")
	}

	cfg.Workers = 1
	cfg.Index.LocalDir = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty local dir")
	}
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bindle.yaml")
	content := `workbooks:
  - acme/Workers
  - acme/Reports
primaryBranch: feature/deps-change
fallbackBranch: feature/deps
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}

	if len(m.Workbooks) != 2 || m.Workbooks[0] != "acme/Workers" {
		t.Errorf("Workbooks = %v", m.Workbooks)
	}
	if m.PrimaryBranch != "feature/deps-change" {
		t.Errorf("PrimaryBranch = %q", m.PrimaryBranch)
	}
	if m.FallbackBranch != "feature/deps" {
		t.Errorf("FallbackBranch = %q", m.FallbackBranch)
	}
}

func TestLoadManifest_Errors(t *testing.T) {
	if _, err := LoadManifest(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing manifest")
	}

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(empty, []byte("workbooks: []\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadManifest(empty); err == nil {
		t.Error("expected error for manifest without workbooks")
	}
}
