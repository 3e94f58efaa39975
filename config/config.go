package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for navigator.
type Config struct {
	Index     IndexConfig     `yaml:"index"`
	Chunk     ChunkConfig     `yaml:"chunk"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Synth     SynthConfig     `yaml:"synth"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// IndexConfig selects which corpus files are ingested.
type IndexConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// ChunkConfig holds chunking configuration.
type ChunkConfig struct {
	MaxChars int `yaml:"max_chars"` // 0 = paragraphs are never split
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK      int `yaml:"top_k"`
	CacheSize int `yaml:"cache_size"` // query embedding cache entries (0 = disabled)
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`    // "openai", "ollama", "hash"
	Model     string `yaml:"model"`       // e.g., "text-embedding-3-small"
	BaseURL   string `yaml:"base_url"`    // OpenAI-compatible endpoint override
	APIKeyEnv string `yaml:"api_key_env"` // Environment variable for API key
	Dimension int    `yaml:"dimension"`
	BatchSize int    `yaml:"batch_size"`
}

// SynthConfig configures the answer synthesizer.
type SynthConfig struct {
	Provider   string        `yaml:"provider"` // "gemini", "openai"
	Model      string        `yaml:"model"`
	BaseURL    string        `yaml:"base_url"`
	APIKeyEnv  string        `yaml:"api_key_env"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	Backoff    time.Duration `yaml:"backoff"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Index: IndexConfig{
			Includes: []string{"**/*.pdf", "**/*.txt", "**/*.md"},
			Excludes: []string{"**/.navigator/**", "**/.git/**", "**/node_modules/**"},
		},
		Chunk: ChunkConfig{
			MaxChars: 0,
		},
		Retrieve: RetrieveConfig{
			TopK:      5,
			CacheSize: 256,
		},
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 1536,
			BatchSize: 100,
		},
		Synth: SynthConfig{
			Provider:   "gemini",
			Model:      "gemini-2.5-flash",
			APIKeyEnv:  "GEMINI_API_KEY",
			Timeout:    30 * time.Second,
			MaxRetries: 2,
			Backoff:    500 * time.Millisecond,
		},
		Server: ServerConfig{
			Addr:            ":5000",
			CORSOrigins:     []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// LoadFromDir loads configuration from a directory (looks for navigator.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "navigator.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".navigator", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// LoadEnv loads API keys from a .env file in dir, if present. Variables
// already set in the environment win.
func LoadEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return godotenv.Load(path)
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	if c.Retrieve.TopK < 1 {
		return fmt.Errorf("retrieve.top_k must be at least 1, got %d", c.Retrieve.TopK)
	}
	if c.Chunk.MaxChars < 0 {
		return fmt.Errorf("chunk.max_chars must not be negative")
	}
	switch c.Embedding.Provider {
	case "openai", "ollama", "hash":
	default:
		return fmt.Errorf("unsupported embedding provider: %s", c.Embedding.Provider)
	}
	switch c.Synth.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unsupported synth provider: %s", c.Synth.Provider)
	}
	if c.Synth.Timeout < 0 || c.Synth.Backoff < 0 || c.Synth.MaxRetries < 0 {
		return fmt.Errorf("synth timeout, backoff and max_retries must not be negative")
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IndexDBPath returns the path to the persisted index generation.
func IndexDBPath(dir string) string {
	return filepath.Join(dir, ".navigator", "index.db")
}

// EnsureDataDir ensures the .navigator directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".navigator"), 0755)
}
