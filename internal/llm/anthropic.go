package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/sashabaranov/go-openai"
)

// defaultMaxTokens bounds Anthropic responses; the API requires a limit.
const defaultMaxTokens = 1024

// AnthropicProvider serves the Client interface from the Anthropic Messages
// API. System messages become the system prompt; user and assistant messages
// are passed through in order.
type AnthropicProvider struct {
	client    sdk.Client
	MaxTokens int64
}

// NewAnthropicProvider builds a provider. Retries are disabled: a failed
// request is reported to the caller, which decides how to recover.
func NewAnthropicProvider(opts Options) *AnthropicProvider {
	ro := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(newHTTPClient(opts.Timeout)),
	}
	if opts.BaseURL != "" {
		ro = append(ro, option.WithBaseURL(opts.BaseURL))
	}
	return &AnthropicProvider{client: sdk.NewClient(ro...), MaxTokens: defaultMaxTokens}
}

func (p *AnthropicProvider) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	params, err := toMessageParams(request, p.MaxTokens)
	if err != nil {
		return openai.ChatCompletionResponse{}, err
	}
	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return openai.ChatCompletionResponse{}, fmt.Errorf("anthropic: create message: %w", err)
	}
	return fromMessage(msg), nil
}

func toMessageParams(request openai.ChatCompletionRequest, maxTokens int64) (sdk.MessageNewParams, error) {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	if request.MaxTokens > 0 {
		maxTokens = int64(request.MaxTokens)
	}
	params := sdk.MessageNewParams{
		Model:       sdk.Model(request.Model),
		MaxTokens:   maxTokens,
		Temperature: sdk.Float(float64(request.Temperature)),
	}
	for _, m := range request.Messages {
		switch m.Role {
		case openai.ChatMessageRoleSystem:
			params.System = append(params.System, sdk.TextBlockParam{Text: m.Content})
		case openai.ChatMessageRoleAssistant:
			params.Messages = append(params.Messages, sdk.NewAssistantMessage(sdk.NewTextBlock(m.Content)))
		default:
			params.Messages = append(params.Messages, sdk.NewUserMessage(sdk.NewTextBlock(m.Content)))
		}
	}
	if len(params.Messages) == 0 {
		return params, errors.New("anthropic: request has no user message")
	}
	return params, nil
}

func fromMessage(msg *sdk.Message) openai.ChatCompletionResponse {
	var text strings.Builder
	for _, b := range msg.Content {
		if b.Type == "text" {
			text.WriteString(b.Text)
		}
	}
	resp := openai.ChatCompletionResponse{
		ID:    msg.ID,
		Model: string(msg.Model),
		Usage: openai.Usage{
			PromptTokens:     int(msg.Usage.InputTokens),
			CompletionTokens: int(msg.Usage.OutputTokens),
			TotalTokens:      int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
	}
	if text.Len() > 0 {
		resp.Choices = []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: text.String(),
			},
			FinishReason: openai.FinishReason(msg.StopReason),
		}}
	}
	return resp
}
