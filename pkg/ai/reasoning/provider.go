// Package reasoning is the boundary to the external model that conducts the
// interview. Variants are selected once at startup by New.
package reasoning

import (
	"context"

	"ai-triage-be/internal/constant"
	"ai-triage-be/internal/pkg/apperror"
	"ai-triage-be/pkg/llm"
)

const (
	defaultTemperature = 0.3
	defaultMaxTokens   = 1024
)

type Provider interface {
	// GenerateTurn returns the next interviewer reply given the system prompt,
	// the prior turns in order, and the latest sanitized input.
	GenerateTurn(ctx context.Context, systemPrompt string, history []llm.Message, latestInput string) (string, error)
	// GenerateStructured returns a reply expected to hold one JSON object.
	GenerateStructured(ctx context.Context, systemPrompt, content string) (string, error)
	Name() string
}

// ChatReasoner adapts any llm.LLMProvider to Provider.
type ChatReasoner struct {
	name        string
	chat        llm.LLMProvider
	temperature float64
	maxTokens   int
}

var _ Provider = &ChatReasoner{}

func NewChatReasoner(name string, chat llm.LLMProvider, temperature float64, maxTokens int) *ChatReasoner {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &ChatReasoner{
		name:        name,
		chat:        chat,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

func (r *ChatReasoner) Name() string {
	return r.name
}

func (r *ChatReasoner) GenerateTurn(ctx context.Context, systemPrompt string, history []llm.Message, latestInput string) (string, error) {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: constant.ChatRoleSystem, Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: constant.ChatRoleUser, Content: latestInput})

	out, err := r.chat.Chat(ctx, messages,
		llm.WithTemperature(r.temperature),
		llm.WithMaxTokens(r.maxTokens),
	)
	if err != nil {
		return "", apperror.Provider(r.name, err)
	}
	return out, nil
}

func (r *ChatReasoner) GenerateStructured(ctx context.Context, systemPrompt, content string) (string, error) {
	messages := []llm.Message{
		{Role: constant.ChatRoleSystem, Content: systemPrompt},
		{Role: constant.ChatRoleUser, Content: content},
	}

	out, err := r.chat.Chat(ctx, messages,
		llm.WithTemperature(r.temperature),
		llm.WithMaxTokens(r.maxTokens),
		llm.WithJSONMode(),
	)
	if err != nil {
		return "", apperror.Provider(r.name, err)
	}
	return out, nil
}
