// Package aiextract delegates question parsing to a chat model and turns its
// loosely shaped answer into a typed record, or a typed failure the caller
// can fall back from.
package aiextract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/surveygen/internal/cache"
	"github.com/hyperifyio/surveygen/internal/llm"
	"github.com/hyperifyio/surveygen/internal/question"
)

const systemMessage = "You are a JSON-only assistant that reads a survey question block and outputs valid JSON with keys: label (string), secondaryLabel (string or empty), title (string), type (one of radio, radio-atm1d, checkbox, select, number, text, textarea, rating, pipe), rows (array of strings), cols (array of strings). Return strictly and only JSON."

// SystemMessage returns the fixed instruction sent with every block.
func SystemMessage() string { return systemMessage }

// LLMExtractor sends one block per request to an OpenAI-compatible client.
type LLMExtractor struct {
	Client  llm.Client
	Model   string
	Cache   *cache.ResponseCache
	Verbose bool
	// CacheOnly answers from the cache and fails on a miss without calling
	// the model.
	CacheOnly bool
}

// Extract parses block with the model. Every failure is returned wrapped
// around one of the package sentinel errors; nothing is retried.
func (e *LLMExtractor) Extract(ctx context.Context, block string) (*question.Question, error) {
	if e == nil || e.Client == nil || strings.TrimSpace(e.Model) == "" {
		return nil, ErrNotConfigured
	}
	user := buildUserPrompt(block)
	key := cache.KeyFrom(e.Model, systemMessage+"\n\n"+user)
	if e.Cache != nil {
		if raw, ok, _ := e.Cache.Get(ctx, key); ok {
			var f Fields
			if err := json.Unmarshal(raw, &f); err == nil {
				return f.Question(), nil
			}
		}
	}
	if e.CacheOnly {
		return nil, fmt.Errorf("%w: cache-only and no cached response", ErrNotConfigured)
	}
	if e.Verbose {
		log.Debug().Str("stage", "extract").Str("model", e.Model).Int("system_len", len(systemMessage)).Int("user_len", len(user)).Msg("extraction prompt")
	}

	resp, err := e.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0,
		N:           1,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, ErrNoContent
	}
	f, err := Normalize(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	if e.Cache != nil {
		if b, err := json.Marshal(f); err == nil {
			_ = e.Cache.Save(ctx, key, b)
		}
	}
	return f.Question(), nil
}

func buildUserPrompt(block string) string {
	var sb strings.Builder
	sb.WriteString("Parse this survey question block and return the JSON described:\n\n")
	sb.WriteString(block)
	sb.WriteString("\n\nMake rows an array of option strings. Make cols an array of column headers if the block is a grid. ")
	sb.WriteString("If there is an \"Other\" option include it as a row and mark it normally (the builder will set open=\"1\").")
	return sb.String()
}
