package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/surveygen/internal/app"
	"github.com/hyperifyio/surveygen/internal/surveyxml"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	root := newRootCmd(os.Stdin, os.Stdout)
	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(exitCode(err))
	}
}

// exitCode maps nothing-to-do conditions to 2 and every other failure to 1.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, app.ErrEmptyInput),
		errors.Is(err, app.ErrNoBlocks),
		errors.Is(err, app.ErrExportNotReady),
		errors.Is(err, surveyxml.ErrEmpty):
		return 2
	}
	return 1
}

// options collects the global flags shared by every subcommand.
type options struct {
	configPath string
	envFiles   []string

	workspace   string
	llmBase     string
	llmModel    string
	llmKey      string
	llmProvider string
	cacheDir    string
	cacheMaxAge time.Duration
	cacheClear  bool
	cacheOnly   bool
	verbose     bool

	stdin io.Reader
}

func newRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	o := &options{stdin: stdin}
	root := &cobra.Command{
		Use:   "surveygen",
		Short: "Turn questionnaire documents into survey XML",
		Long: `surveygen extracts survey questions from plain text or Word documents,
keeps them in an editable workspace and renders them as survey XML.

Examples:
  # Extract questions with the rule-based parser
  surveygen extract questionnaire.docx

  # Use a model for each paragraph, falling back to rules per block
  LLM_API_KEY=... surveygen extract --mode ai questionnaire.txt

  # Review, fix and export
  surveygen list
  surveygen edit 3 --type checkbox
  surveygen generate
  surveygen export --out survey.xml --pdf review.pdf`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if o.verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			return app.LoadEnvFiles(o.envFiles...)
		},
	}
	root.SetOut(stdout)
	root.SetIn(stdin)

	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "Path to YAML or JSON config file")
	pf.StringSliceVar(&o.envFiles, "env-file", []string{".env"}, "Dotenv files to load before reading the environment")
	pf.StringVar(&o.workspace, "workspace", "", "Workspace file (default "+app.DefaultWorkspacePath+")")
	pf.StringVar(&o.llmBase, "llm.base", "", "OpenAI-compatible base URL")
	pf.StringVar(&o.llmModel, "llm.model", "", "Model name")
	pf.StringVar(&o.llmKey, "llm.key", "", "API key; model extraction is enabled only when set")
	pf.StringVar(&o.llmProvider, "llm.provider", "", "LLM provider: openai or anthropic")
	pf.StringVar(&o.cacheDir, "cache.dir", "", "Response cache directory (default "+app.DefaultCacheDir+")")
	pf.DurationVar(&o.cacheMaxAge, "cache.maxAge", 0, "Purge cached responses older than this at startup")
	pf.BoolVar(&o.cacheClear, "cache.clear", false, "Clear the response cache at startup")
	pf.BoolVar(&o.cacheOnly, "cache.only", false, "Answer model requests from the cache only")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "Debug logging")

	root.AddCommand(
		newExtractCmd(o),
		newListCmd(o),
		newAddCmd(o),
		newEditCmd(o),
		newMoveCmd(o),
		newDeleteCmd(o),
		newGenerateCmd(o),
		newExportCmd(o),
		newClearCmd(o),
	)
	return root
}

// config resolves the effective configuration: flags over environment over
// config file over defaults. Each layer only fills what is still unset.
func (o *options) config(cmd *cobra.Command) (app.Config, error) {
	var cfg app.Config
	changed := func(name string) bool { return cmd.Flags().Changed(name) }
	if changed("workspace") {
		cfg.WorkspacePath = o.workspace
	}
	if changed("llm.base") {
		cfg.LLMBaseURL = o.llmBase
	}
	if changed("llm.model") {
		cfg.LLMModel = o.llmModel
	}
	if changed("llm.key") {
		cfg.LLMAPIKey = o.llmKey
	}
	if changed("llm.provider") {
		cfg.LLMProvider = o.llmProvider
	}
	if changed("cache.dir") {
		cfg.CacheDir = o.cacheDir
	}
	if changed("cache.maxAge") {
		cfg.CacheMaxAge = o.cacheMaxAge
	}
	cfg.CacheClear = o.cacheClear
	cfg.LLMCacheOnly = o.cacheOnly
	cfg.Verbose = o.verbose

	app.ApplyEnvToConfig(&cfg)
	if o.configPath != "" {
		fc, err := app.LoadConfigFile(o.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	return cfg, nil
}

// open builds the application for one command run.
func (o *options) open(cmd *cobra.Command) (*app.App, error) {
	cfg, err := o.config(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	a, err := app.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init app: %w", err)
	}
	return a, nil
}
