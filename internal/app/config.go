package app

import "time"

// Defaults applied when neither flags, environment nor config file set a value.
const (
	DefaultWorkspacePath = ".surveygen/workspace.yaml"
	DefaultCacheDir      = ".surveygen/cache"
	DefaultExportName    = "survey.xml"
)

// Config holds runtime configuration for the application.
type Config struct {
	// Workspace is the YAML file holding the question collection.
	WorkspacePath string

	// LLM
	LLMProvider string
	LLMBaseURL  string
	LLMModel    string
	LLMAPIKey   string
	LLMTimeout  time.Duration

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheMaxEntries  int
	CacheClear       bool
	CacheStrictPerms bool

	// LLMCacheOnly answers extraction requests from the response cache
	// only and never calls the model.
	LLMCacheOnly bool

	Verbose bool
}

// AIConfigured reports whether a credential is present, which is what
// decides between model-assisted and heuristic extraction.
func (c Config) AIConfigured() bool {
	return trim(c.LLMAPIKey) != ""
}
