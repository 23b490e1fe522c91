package advisor

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultClaudeModel     = "claude-3-7-sonnet-20250219"
	DefaultClaudeMaxTokens = 1024
)

// MessagesAPI is the slice of the Anthropic SDK the generator uses.
type MessagesAPI interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...anthropicoption.RequestOption) (*anthropic.Message, error)
}

// AnthropicGenerator generates recommendations with the Claude Messages API.
type AnthropicGenerator struct {
	tracer    trace.Tracer
	messages  MessagesAPI
	model     string
	maxTokens int64
}

func NewAnthropicGenerator(tracer trace.Tracer, messages MessagesAPI, model string, maxTokens int64) *AnthropicGenerator {
	if model == "" {
		model = DefaultClaudeModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultClaudeMaxTokens
	}
	return &AnthropicGenerator{
		tracer:    tracer,
		messages:  messages,
		model:     model,
		maxTokens: maxTokens,
	}
}

// NewAnthropicMessages builds the SDK client for apiKey.
func NewAnthropicMessages(apiKey string) MessagesAPI {
	client := anthropic.NewClient(anthropicoption.WithAPIKey(apiKey))
	return &client.Messages
}

func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string) (*Generation, error) {
	ctx, span := g.tracer.Start(ctx, "advisor.anthropic-generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", g.model),
		attribute.Int("llm.prompt_length", len(prompt)),
	)

	resp, err := g.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: g.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return nil, errEmptyGeneration
	}
	span.SetAttributes(
		attribute.Int("llm.reply_length", len(text)),
		attribute.Int64("llm.output_tokens", resp.Usage.OutputTokens),
	)

	model := string(resp.Model)
	if model == "" {
		model = g.model
	}
	return &Generation{Model: model, Text: text}, nil
}
