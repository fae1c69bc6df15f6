package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/surveygen/internal/aiextract"
	"github.com/hyperifyio/surveygen/internal/heuristic"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

const (
	blockStart = "return the JSON described:\n\n"
	blockEnd   = "\n\nMake rows an array"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	model := os.Getenv("MODEL_ID")
	if strings.TrimSpace(model) == "" {
		model = "test-model"
	}
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8081"
	}

	log.Info().Str("addr", addr).Str("model", model).Msg("openai-stub listening")
	if err := http.ListenAndServe(addr, newMux(model)); err != nil {
		log.Fatal().Err(err).Msg("serve")
	}
}

func newMux(model string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": model, "object": "model"}},
		})
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) < 2 {
			http.Error(w, "expected system and user messages", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Messages[0].Content) != aiextract.SystemMessage() {
			http.Error(w, "unexpected system", http.StatusBadRequest)
			return
		}
		content, err := answer(req.Messages[1].Content)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		log.Debug().Int("user_len", len(req.Messages[1].Content)).Msg("chat completion")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-stub",
			"object": "chat.completion",
			"model":  model,
			"choices": []map[string]any{
				{"index": 0, "message": map[string]string{"role": "assistant", "content": content}, "finish_reason": "stop"},
			},
		})
	})
	return mux
}

// answer parses the block embedded in the user prompt with the rule-based
// parser and returns it as the JSON object a model would produce.
func answer(user string) (string, error) {
	block := user
	if i := strings.Index(block, blockStart); i >= 0 {
		block = block[i+len(blockStart):]
	}
	if j := strings.Index(block, blockEnd); j >= 0 {
		block = block[:j]
	}
	q := heuristic.Parse(block)
	b, err := json.Marshal(aiextract.Fields{
		Label:          q.Label,
		SecondaryLabel: q.SecondaryLabel,
		Title:          q.Title,
		Type:           string(q.Type),
		Rows:           q.Rows,
		Cols:           q.Cols,
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
