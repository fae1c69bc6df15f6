package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func chatRequest() openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: "m",
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "sys"},
			{Role: openai.ChatMessageRoleUser, Content: "hello"},
		},
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	if _, err := New(Options{Provider: "palm"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestOpenAIProvider_UsesBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer k" {
			t.Errorf("missing bearer token")
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "c1",
			"choices": []map[string]any{{"index": 0, "message": map[string]any{"role": "assistant", "content": "hi"}}},
		})
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL + "/v1", APIKey: "k"})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := c.CreateChatCompletion(context.Background(), chatRequest())
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if resp.Choices[0].Message.Content != "hi" {
		t.Fatalf("content: %q", resp.Choices[0].Message.Content)
	}
}

func TestAnthropicProvider_TranslatesRequestAndResponse(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		System   []struct {
			Text string `json:"text"`
		} `json:"system"`
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/messages") {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_1",
			"type":        "message",
			"role":        "assistant",
			"model":       "m",
			"stop_reason": "end_turn",
			"content":     []map[string]any{{"type": "text", "text": `{"label":"S1"}`}},
			"usage":       map[string]any{"input_tokens": 3, "output_tokens": 2},
		})
	}))
	defer srv.Close()

	c, err := New(Options{Provider: ProviderAnthropic, BaseURL: srv.URL, APIKey: "k"})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := c.CreateChatCompletion(context.Background(), chatRequest())
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if len(resp.Choices) != 1 || resp.Choices[0].Message.Content != `{"label":"S1"}` {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Usage.TotalTokens != 5 {
		t.Fatalf("usage: %+v", resp.Usage)
	}
	if got.Model != "m" || len(got.System) != 1 || got.System[0].Text != "sys" {
		t.Fatalf("system prompt not forwarded: %+v", got)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" {
		t.Fatalf("messages: %+v", got.Messages)
	}
}

func TestAnthropicProvider_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"type":"error","error":{"type":"authentication_error","message":"bad key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewAnthropicProvider(Options{BaseURL: srv.URL, APIKey: "bad"})
	if _, err := c.CreateChatCompletion(context.Background(), chatRequest()); err == nil {
		t.Fatalf("expected error on 401")
	}
}
