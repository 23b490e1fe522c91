package advisor

import (
	"context"
	"errors"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropicGeneratorJoinsTextBlocks(t *testing.T) {
	api := &stubMessages{response: &anthropic.Message{
		Model: anthropic.Model("claude-3-7-sonnet-20250219"),
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: "Intro line\n"},
			{Type: "tool_use"},
			{Type: "text", Text: "- \"Line A.\""},
		},
	}}
	gen := NewAnthropicGenerator(testTracer, api, "", 0)

	out, err := gen.Generate(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Equal(t, "Intro line\n- \"Line A.\"", out.Text)
	assert.Equal(t, "claude-3-7-sonnet-20250219", out.Model)

	require.Equal(t, 1, api.calls)
	assert.Equal(t, anthropic.Model(DefaultClaudeModel), api.lastParams.Model)
	assert.Equal(t, int64(DefaultClaudeMaxTokens), api.lastParams.MaxTokens)
	assert.Len(t, api.lastParams.Messages, 1)
}

func TestAnthropicGeneratorErrors(t *testing.T) {
	cases := map[string]*stubMessages{
		"api error":   {err: errors.New("overloaded")},
		"no text":     {response: &anthropic.Message{}},
		"only spaces": {response: &anthropic.Message{Content: []anthropic.ContentBlockUnion{{Type: "text", Text: " "}}}},
	}
	for name, api := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewAnthropicGenerator(testTracer, api, "claude-x", 256).Generate(context.Background(), "p")
			assert.Error(t, err)
			assert.Equal(t, 1, api.calls)
		})
	}
}

func TestNewAnthropicGeneratorKeepsExplicitSettings(t *testing.T) {
	gen := NewAnthropicGenerator(testTracer, &stubMessages{}, "claude-x", 256)
	assert.Equal(t, "claude-x", gen.model)
	assert.Equal(t, int64(256), gen.maxTokens)
}

type stubMessages struct {
	response   *anthropic.Message
	err        error
	calls      int
	lastParams anthropic.MessageNewParams
}

func (s *stubMessages) New(ctx context.Context, body anthropic.MessageNewParams, opts ...anthropicoption.RequestOption) (*anthropic.Message, error) {
	s.calls++
	s.lastParams = body
	return s.response, s.err
}
