package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Retrieve.TopK != 5 {
		t.Errorf("expected TopK=5, got %d", cfg.Retrieve.TopK)
	}
	if cfg.Chunk.MaxChars != 0 {
		t.Errorf("expected MaxChars=0, got %d", cfg.Chunk.MaxChars)
	}
	if cfg.Synth.Timeout != 30*time.Second {
		t.Errorf("expected synth timeout 30s, got %s", cfg.Synth.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "navigator.yaml")

	content := `
chunk:
  max_chars: 800
retrieve:
  top_k: 3
embedding:
  provider: hash
  dimension: 64
synth:
  provider: openai
  timeout: 5s
  max_retries: 1
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Chunk.MaxChars != 800 {
		t.Errorf("expected MaxChars=800, got %d", cfg.Chunk.MaxChars)
	}
	if cfg.Retrieve.TopK != 3 {
		t.Errorf("expected TopK=3, got %d", cfg.Retrieve.TopK)
	}
	if cfg.Embedding.Provider != "hash" || cfg.Embedding.Dimension != 64 {
		t.Errorf("unexpected embedding config: %+v", cfg.Embedding)
	}
	if cfg.Synth.Timeout != 5*time.Second {
		t.Errorf("expected synth timeout 5s, got %s", cfg.Synth.Timeout)
	}
	// untouched sections keep their defaults
	if cfg.Server.Addr != ":5000" {
		t.Errorf("expected default addr, got %s", cfg.Server.Addr)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero top_k", "retrieve:\n  top_k: 0\n"},
		{"unknown embedder", "embedding:\n  provider: word2vec\n"},
		{"unknown synth", "synth:\n  provider: parrot\n"},
		{"negative retries", "synth:\n  max_retries: -1\n"},
		{"bad yaml", "retrieve: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "navigator.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, ".navigator"), 0755); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(tmpDir, ".navigator", "config.yaml")

	content := `
server:
  addr: ":8080"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected addr :8080, got %s", cfg.Server.Addr)
	}
}

func TestLoadEnv(t *testing.T) {
	tmpDir := t.TempDir()
	if err := LoadEnv(tmpDir); err != nil {
		t.Fatalf("missing .env should not fail, got %v", err)
	}

	key := "NAVIGATOR_TEST_KEY"
	os.Unsetenv(key)
	t.Cleanup(func() { os.Unsetenv(key) })

	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte(key+"=secret\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := LoadEnv(tmpDir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv(key); got != "secret" {
		t.Errorf("expected secret, got %q", got)
	}
}

func TestIndexDBPath(t *testing.T) {
	path := IndexDBPath("/home/user/papers")
	expected := filepath.Join("/home/user/papers", ".navigator", "index.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}
