package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Generation is the text produced by one generator call.
type Generation struct {
	Model string
	Text  string
}

// Generator sends a prompt to a generative-text service exactly once.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*Generation, error)
}

var errEmptyGeneration = errors.New("generator returned no text")

// LLMClient abstracts the OpenAI chat completions API for testability.
type LLMClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// OpenAIGenerator generates recommendations with OpenAI chat completions.
type OpenAIGenerator struct {
	tracer trace.Tracer
	llm    LLMClient
	model  string
}

func NewOpenAIGenerator(tracer trace.Tracer, llm LLMClient, model string) *OpenAIGenerator {
	return &OpenAIGenerator{tracer: tracer, llm: llm, model: model}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (*Generation, error) {
	ctx, span := g.tracer.Start(ctx, "advisor.openai-generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", g.model),
		attribute.Int("llm.prompt_length", len(prompt)),
	)

	completion, err := g.llm.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("no choices in LLM response")
	}

	text := completion.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return nil, errEmptyGeneration
	}
	span.SetAttributes(attribute.Int("llm.reply_length", len(text)))

	model := completion.Model
	if model == "" {
		model = g.model
	}
	return &Generation{Model: model, Text: text}, nil
}

// openaiClient wraps the official SDK's chat completions service.
type openaiClient struct {
	client openai.Client
}

func NewOpenAIClient(apiKey string) LLMClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &openaiClient{client: client}
}

func (c *openaiClient) CreateChatCompletion(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
