// Package config loads runtime configuration from a YAML file and
// GREYMALKIN_* environment variables, with env taking precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the environment variables this package reads.
const envPrefix = "GREYMALKIN_"

// Config is the full runtime configuration.
type Config struct {
	LLM      LLMConfig      `koanf:"llm"`
	Embedder EmbedderConfig `koanf:"embedder"`
	Store    StoreConfig    `koanf:"store"`
	Plugins  PluginsConfig  `koanf:"plugins"`
	Memory   MemoryConfig   `koanf:"memory"`
}

// LLMConfig selects the chat completion provider.
type LLMConfig struct {
	Provider  string `koanf:"provider"`
	Model     string `koanf:"model"`
	APIKey    string `koanf:"api_key"`
	MaxTokens int64  `koanf:"max_tokens"`
}

// EmbedderConfig selects the embedding provider.
type EmbedderConfig struct {
	Provider   string `koanf:"provider"`
	Model      string `koanf:"model"`
	APIKey     string `koanf:"api_key"`
	CacheDir   string `koanf:"cache_dir"`
	Dimensions int    `koanf:"dimensions"`
	Cache      bool   `koanf:"cache"`
}

// StoreConfig selects the vector store backend.
type StoreConfig struct {
	Backend  string       `koanf:"backend"`
	Path     string       `koanf:"path"`
	Compress bool         `koanf:"compress"`
	Qdrant   QdrantConfig `koanf:"qdrant"`
}

// QdrantConfig holds Qdrant connection settings.
type QdrantConfig struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	APIKey string `koanf:"api_key"`
	UseTLS bool   `koanf:"use_tls"`
}

// PluginsConfig controls manifest loading.
type PluginsConfig struct {
	Dir   string `koanf:"dir"`
	Watch bool   `koanf:"watch"`
}

// MemoryConfig controls memory behavior.
type MemoryConfig struct {
	SyncTimeout time.Duration `koanf:"sync_timeout"`
}

// Default returns the configuration used when no file or env overrides are
// present.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from path (optional; empty skips the file) and
// then applies GREYMALKIN_* environment overrides.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	// GREYMALKIN_STORE_BACKEND=qdrant becomes store.backend, with the first
	// underscore separating section from field.
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(s, "_", 2)
		if len(parts) == 2 {
			return parts[0] + "." + parts[1]
		}
		return s
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = "anthropic"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 4096
	}
	if c.Embedder.Provider == "" {
		c.Embedder.Provider = "mock"
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "chromem"
	}
	if c.Memory.SyncTimeout == 0 {
		c.Memory.SyncTimeout = 30 * time.Second
	}
}

// Validate rejects configurations the runtime cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "chromem", "qdrant":
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Memory.SyncTimeout <= 0 {
		return fmt.Errorf("memory sync_timeout must be positive, got %s", c.Memory.SyncTimeout)
	}
	return nil
}
