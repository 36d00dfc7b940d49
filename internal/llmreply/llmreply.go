// Package llmreply provides an optional fallback reply callback that asks an
// OpenAI chat model for the response text when no intent handler matched.
// It generates replies only; intent extraction stays with the upstream
// platform.
package llmreply

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/voxgate/voxgate/internal/compose"
	"github.com/voxgate/voxgate/internal/dispatch"
	"github.com/voxgate/voxgate/internal/i18n"
	"github.com/voxgate/voxgate/internal/message"
)

const defaultSystemPrompt = `You are the fallback voice of a chat assistant.
Answer the user's message in one or two short sentences, in the user's
language. Plain text only, no markdown.`

// Fallback asks a chat model for the fallback reply.
type Fallback struct {
	client *openai.Client
	model  string
	prompt string
}

// Option configures a Fallback.
type Option func(*Fallback)

// WithSystemPrompt replaces the default system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(f *Fallback) { f.prompt = prompt }
}

// New creates a Fallback using the given API key and model.
func New(apiKey, model string, opts ...Option) *Fallback {
	f := &Fallback{
		client: openai.NewClient(apiKey),
		model:  model,
		prompt: defaultSystemPrompt,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Reply implements dispatch.ReplyFunc.
func (f *Fallback) Reply(ctx context.Context, in *message.Input, res *i18n.Resolver) (*message.Output, error) {
	resp, err := f.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     f.model,
		MaxTokens: 256,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: f.prompt},
			{Role: openai.ChatMessageRoleUser, Content: in.Message},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("llm fallback: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("llm fallback: empty completion")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)

	c := compose.New(in, res)
	c.AddReply(compose.FromMessage(&message.Message{
		DisplayText: text,
		SSML:        i18n.WrapSpeak(i18n.PlainText(text)),
	}))
	return c.Output(), nil
}

var _ dispatch.ReplyFunc = (*Fallback)(nil).Reply
