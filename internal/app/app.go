package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/surveygen/internal/aiextract"
	"github.com/hyperifyio/surveygen/internal/cache"
	"github.com/hyperifyio/surveygen/internal/heuristic"
	"github.com/hyperifyio/surveygen/internal/llm"
	"github.com/hyperifyio/surveygen/internal/question"
	"github.com/hyperifyio/surveygen/internal/segment"
	"github.com/hyperifyio/surveygen/internal/surveyxml"
)

var (
	// ErrEmptyInput is returned when extraction is given blank text.
	ErrEmptyInput = errors.New("no input text")
	// ErrNoBlocks is returned when the text contains no question blocks.
	ErrNoBlocks = errors.New("no question blocks found")
	// ErrExportNotReady is returned by Export before anything was generated.
	ErrExportNotReady = errors.New("nothing generated yet; run generate first")
)

// Mode selects the extraction path.
type Mode string

const (
	// ModeHeuristic splits by lines and parses every block with rules.
	ModeHeuristic Mode = "heuristic"
	// ModeAI splits by paragraphs and asks the model for each block,
	// falling back to rules per block.
	ModeAI Mode = "ai"
)

// ParseMode accepts the mode names used on the command line.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeHeuristic:
		return ModeHeuristic, nil
	case ModeAI:
		return ModeAI, nil
	}
	return "", fmt.Errorf("unknown mode %q (want %s or %s)", s, ModeHeuristic, ModeAI)
}

// ExtractResult summarizes one extraction run.
type ExtractResult struct {
	Blocks    int
	Added     []*question.Question
	ViaAI     int
	Fallbacks int
}

// App owns the workspace and the extraction pipeline. It is used from a
// single goroutine.
type App struct {
	cfg       Config
	ws        *Workspace
	coll      *question.Collection
	extractor *aiextract.LLMExtractor
	// intn draws synthetic label numbers.
	intn func(n int) int
}

// New loads the workspace and, when a credential is configured, prepares the
// model client and its response cache.
func New(cfg Config) (*App, error) {
	ApplyDefaults(&cfg)
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	ws, err := LoadWorkspace(cfg.WorkspacePath)
	if err != nil {
		return nil, err
	}
	a := &App{
		cfg:  cfg,
		ws:   ws,
		coll: question.NewCollection(ws.Questions...),
		intn: rand.IntN,
	}

	var rc *cache.ResponseCache
	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir); err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
			}
		}
		if cfg.CacheMaxAge > 0 || cfg.CacheMaxEntries > 0 {
			// best effort; a broken cache must not block editing
			if n, err := cache.EnforceLimits(cfg.CacheDir, cfg.CacheMaxAge, cfg.CacheMaxEntries); err != nil {
				log.Warn().Err(err).Msg("cache purge failed")
			} else if n > 0 {
				log.Debug().Int("count", n).Msg("purged cache entries")
			}
		}
		rc = &cache.ResponseCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
	}

	if cfg.AIConfigured() || cfg.LLMCacheOnly {
		client, err := llm.New(llm.Options{
			Provider: cfg.LLMProvider,
			BaseURL:  cfg.LLMBaseURL,
			APIKey:   cfg.LLMAPIKey,
			Timeout:  cfg.LLMTimeout,
		})
		if err != nil {
			return nil, err
		}
		a.extractor = &aiextract.LLMExtractor{
			Client:    client,
			Model:     cfg.LLMModel,
			Cache:     rc,
			Verbose:   cfg.Verbose,
			CacheOnly: cfg.LLMCacheOnly,
		}
	}
	return a, nil
}

// Preflight lists the models of an OpenAI-compatible endpoint so a wrong
// base URL shows up before the first block. It only logs.
func (a *App) Preflight(ctx context.Context) {
	if a.extractor == nil || a.cfg.LLMCacheOnly {
		return
	}
	p, ok := a.extractor.Client.(*llm.OpenAIProvider)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	models, err := p.Inner.ListModels(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("LLM model list failed; continuing")
		return
	}
	log.Debug().Int("count", len(models.Models)).Msg("LLM models available")
}

// Config returns the effective configuration.
func (a *App) Config() Config { return a.cfg }

// AIEnabled reports whether ModeAI will reach a model.
func (a *App) AIEnabled() bool { return a.extractor != nil }

// Save persists the workspace.
func (a *App) Save() error {
	a.ws.Questions = a.coll.All()
	return SaveWorkspace(a.cfg.WorkspacePath, a.ws)
}

// Extract segments text, parses every block and appends one question per
// block to the collection, in block order.
func (a *App) Extract(ctx context.Context, text string, mode Mode) (ExtractResult, error) {
	if strings.TrimSpace(text) == "" {
		return ExtractResult{}, ErrEmptyInput
	}
	var blocks []string
	switch mode {
	case ModeAI:
		blocks = segment.Paragraphs(text)
	default:
		blocks = segment.Lines(text)
	}
	if len(blocks) == 0 {
		return ExtractResult{}, ErrNoBlocks
	}
	useAI := mode == ModeAI && a.extractor != nil
	if mode == ModeAI && !useAI {
		log.Info().Str("stage", "extract").Msg("no llm credential configured; using heuristic parser")
	}

	res := ExtractResult{Blocks: len(blocks)}
	for i, block := range blocks {
		var q *question.Question
		if useAI {
			var err error
			q, err = a.extractor.Extract(ctx, block)
			if err != nil {
				log.Warn().Err(err).Str("stage", "extract").Int("block", i+1).Msg("model extraction failed; using heuristic parser")
				q = nil
				res.Fallbacks++
			} else {
				res.ViaAI++
			}
		}
		if q == nil {
			q = heuristic.Parse(block)
		}
		a.coll.Append(q)
		res.Added = append(res.Added, q)
	}
	log.Info().Str("stage", "extract").Str("mode", string(mode)).Int("blocks", res.Blocks).Int("ai", res.ViaAI).Int("fallbacks", res.Fallbacks).Msg("extracted questions")
	return res, nil
}

// Questions returns the collection in order.
func (a *App) Questions() []*question.Question { return a.coll.All() }

// Resolve accepts a question ID or a 1-based position and returns the ID.
func (a *App) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if a.coll.Index(ref) >= 0 {
		return ref, nil
	}
	if n, err := strconv.Atoi(ref); err == nil {
		q, err := a.coll.At(n - 1)
		if err != nil {
			return "", err
		}
		return q.ID, nil
	}
	return "", fmt.Errorf("%w: %s", question.ErrNotFound, ref)
}

// AddBlank appends an empty single-choice question.
func (a *App) AddBlank() *question.Question {
	q := question.Blank()
	a.coll.Append(q)
	return q
}

// Edit changes fields of one question. The generated document is left as it
// was until Generate runs again.
func (a *App) Edit(id string, e question.Edit) error { return a.coll.Edit(id, e) }

// MoveUp moves a question one position towards the start.
func (a *App) MoveUp(id string) error { return a.coll.MoveUp(id) }

// MoveDown moves a question one position towards the end.
func (a *App) MoveDown(id string) error { return a.coll.MoveDown(id) }

// Delete removes a question.
func (a *App) Delete(id string) error { return a.coll.Delete(id) }

// Clear drops every question and the generated document.
func (a *App) Clear() {
	a.coll = question.NewCollection()
	a.ws.Document = ""
}

// Generate labels unlabeled questions and renders the survey document,
// keeping it for Export.
func (a *App) Generate() (string, error) {
	n := a.coll.AssignSyntheticLabels(a.intn)
	doc, err := surveyxml.Render(a.coll.All())
	if err != nil {
		return "", err
	}
	a.ws.Document = doc
	log.Info().Str("stage", "generate").Int("count", a.coll.Len()).Int("labeled", n).Msg("generated survey")
	return doc, nil
}

// Document returns the last generated document, if any.
func (a *App) Document() string { return a.ws.Document }

// Export writes the last generated document to path, or DefaultExportName
// when path is empty.
func (a *App) Export(path string) (string, error) {
	if a.ws.Document == "" {
		return "", ErrExportNotReady
	}
	if strings.TrimSpace(path) == "" {
		path = DefaultExportName
	}
	if err := os.WriteFile(path, []byte(a.ws.Document), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	log.Info().Str("out", path).Msg("wrote survey")
	return path, nil
}
