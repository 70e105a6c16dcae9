package reasoning

import (
	"context"
	"errors"
	"testing"

	"ai-triage-be/internal/pkg/apperror"
	"ai-triage-be/pkg/llm"
	"ai-triage-be/pkg/llm/factory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChat struct {
	reply    string
	err      error
	messages []llm.Message
	opts     llm.Options
}

func (f *fakeChat) Chat(_ context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.messages = history
	f.opts = llm.Apply(llm.Options{}, options...)
	return f.reply, f.err
}

func (f *fakeChat) Generate(ctx context.Context, p string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: p}}, options...)
}

func TestGenerateTurnBuildsOrderedConversation(t *testing.T) {
	chat := &fakeChat{reply: "Where is the pain?"}
	r := NewChatReasoner("deepseek", chat, 0.3, 0)

	history := []llm.Message{
		{Role: "assistant", Content: "When did it start?"},
		{Role: "user", Content: "Yesterday"},
	}
	out, err := r.GenerateTurn(context.Background(), "SYSTEM", history, "It is sharp")

	require.NoError(t, err)
	assert.Equal(t, "Where is the pain?", out)
	assert.Equal(t, []llm.Message{
		{Role: "system", Content: "SYSTEM"},
		{Role: "assistant", Content: "When did it start?"},
		{Role: "user", Content: "Yesterday"},
		{Role: "user", Content: "It is sharp"},
	}, chat.messages)
	require.NotNil(t, chat.opts.Temperature)
	assert.InDelta(t, 0.3, *chat.opts.Temperature, 1e-9)
	assert.Equal(t, defaultMaxTokens, chat.opts.MaxTokens)
	assert.False(t, chat.opts.JSONMode)
}

func TestGenerateStructuredRequestsJSON(t *testing.T) {
	chat := &fakeChat{reply: `{"subjective":"S"}`}
	r := NewChatReasoner("openai", chat, 0.3, 512)

	out, err := r.GenerateStructured(context.Background(), "SOAP PROMPT", "Generate the SOAP note based on the transcript above.")

	require.NoError(t, err)
	assert.Equal(t, `{"subjective":"S"}`, out)
	assert.Len(t, chat.messages, 2)
	assert.True(t, chat.opts.JSONMode)
	assert.Equal(t, 512, chat.opts.MaxTokens)
}

func TestUpstreamFailureIsProviderError(t *testing.T) {
	cause := errors.New("503 service unavailable")
	r := NewChatReasoner("gemini", &fakeChat{err: cause}, 0.3, 0)

	_, err := r.GenerateTurn(context.Background(), "s", nil, "x")
	assert.ErrorIs(t, err, apperror.ErrProvider)
	assert.ErrorIs(t, err, cause)

	_, err = r.GenerateStructured(context.Background(), "s", "x")
	assert.ErrorIs(t, err, apperror.ErrProvider)
}

func TestNewValidatesConfiguration(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: "deepseek", Model: "deepseek-chat"})
	assert.ErrorIs(t, err, apperror.ErrProvider)
	assert.ErrorIs(t, err, factory.ErrMissingAPIKey)

	_, err = New(context.Background(), Config{Provider: "mystery", Model: "m"})
	assert.ErrorIs(t, err, factory.ErrUnsupportedProvider)

	p, err := New(context.Background(), Config{Provider: " DeepSeek ", Model: "deepseek-chat", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "deepseek", p.Name())
}
