// Package advice answers free-text questions with a single best-effort LLM
// call. No retries and no caching: a failed call becomes a generic apology
// at the webhook boundary.
package advice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = "Eres un asesor financiero experto. Responde a la consulta del usuario sobre finanzas personales de forma clara y breve."

// ErrDisabled is returned by Answer when no API key was configured.
var ErrDisabled = errors.New("advice fallback disabled: no API key configured")

type Advisor struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// New builds an advisor. An empty apiKey yields a disabled advisor whose
// Answer always fails, mirroring the disabled notifier.
func New(apiKey, model string, timeout time.Duration) *Advisor {
	a := &Advisor{model: model, timeout: timeout}
	if apiKey != "" {
		a.client = openai.NewClient(apiKey)
	}
	return a
}

// Answer forwards the question and returns the model's text verbatim. The
// timeout bounds the call so a slow upstream cannot hang the webhook reply.
func (a *Advisor) Answer(ctx context.Context, question string) (string, error) {
	if a.client == nil {
		return "", ErrDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
