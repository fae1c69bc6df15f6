package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/surveygen/internal/llm"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	Workspace string `yaml:"workspace" json:"workspace"`
	Verbose   bool   `yaml:"verbose" json:"verbose"`

	LLM struct {
		Provider string        `yaml:"provider" json:"provider"`
		BaseURL  string        `yaml:"base" json:"base"`
		Model    string        `yaml:"model" json:"model"`
		APIKey   string        `yaml:"key" json:"key"`
		Timeout  time.Duration `yaml:"timeout" json:"timeout"`
	} `yaml:"llm" json:"llm"`

	Cache struct {
		Dir         string        `yaml:"dir" json:"dir"`
		MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
		MaxEntries  int           `yaml:"maxEntries" json:"maxEntries"`
		Clear       bool          `yaml:"clear" json:"clear"`
		StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
		Only        bool          `yaml:"only" json:"only"`
	} `yaml:"cache" json:"cache"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from fc into cfg for any fields that are
// still unset, so flags and environment keep precedence.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.WorkspacePath == "" && fc.Workspace != "" {
		cfg.WorkspacePath = fc.Workspace
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}

	if cfg.LLMProvider == "" && fc.LLM.Provider != "" {
		cfg.LLMProvider = fc.LLM.Provider
	}
	if cfg.LLMBaseURL == "" && fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" && fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" && fc.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if cfg.LLMTimeout == 0 && fc.LLM.Timeout > 0 {
		cfg.LLMTimeout = fc.LLM.Timeout
	}

	if cfg.CacheDir == "" && fc.Cache.Dir != "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if cfg.CacheMaxEntries == 0 && fc.Cache.MaxEntries > 0 {
		cfg.CacheMaxEntries = fc.Cache.MaxEntries
	}
	if !cfg.CacheClear && fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if !cfg.CacheStrictPerms && fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}
	if !cfg.LLMCacheOnly && fc.Cache.Only {
		cfg.LLMCacheOnly = true
	}
}

// ApplyDefaults fills whatever is still empty after flags, environment and
// config file have been applied.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.WorkspacePath == "" {
		cfg.WorkspacePath = DefaultWorkspacePath
	}
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = llm.ProviderOpenAI
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = llm.DefaultModel(cfg.LLMProvider)
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = DefaultCacheDir
	}
}

// ValidateConfig performs minimal schema validation. LLM settings are only
// checked when a credential is present; without one extraction stays
// heuristic.
func ValidateConfig(cfg Config) error {
	if trim(cfg.WorkspacePath) == "" {
		return errors.New("config: workspace path is required")
	}
	switch strings.ToLower(trim(cfg.LLMProvider)) {
	case "", llm.ProviderOpenAI, llm.ProviderAnthropic:
	default:
		return fmt.Errorf("config: unknown llm.provider %q (want %s or %s)", cfg.LLMProvider, llm.ProviderOpenAI, llm.ProviderAnthropic)
	}
	if cfg.AIConfigured() && trim(cfg.LLMModel) == "" {
		return errors.New("config: llm.model is required when llm.key is set (or set LLM_MODEL)")
	}
	if cfg.CacheMaxAge < 0 || cfg.CacheMaxEntries < 0 || cfg.LLMTimeout < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	return nil
}

func trim(s string) string { return strings.TrimSpace(s) }
