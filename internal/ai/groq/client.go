// Package groq provides an alternate completion provider backed by Groq.
package groq

import (
	"context"
	"fmt"

	"github.com/conneroisu/groq-go"

	"tdih/internal/ai"
)

var _ ai.Completer = (*Client)(nil)

type Client struct {
	client *groq.Client
	model  groq.ChatModel
}

func NewClient(apiKey, model string) (*Client, error) {
	client, err := groq.NewClient(apiKey)
	if err != nil {
		return nil, fmt.Errorf("create groq client: %w", err)
	}

	return &Client{
		client: client,
		model:  groq.ChatModel(model),
	}, nil
}

func (c *Client) Complete(ctx context.Context, messages []ai.Message) (string, error) {
	converted := make([]groq.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		role := groq.RoleUser
		if m.Role == ai.RoleSystem {
			role = groq.RoleSystem
		}
		converted[i] = groq.ChatCompletionMessage{Role: role, Content: m.Content}
	}

	resp, err := c.client.ChatCompletion(ctx, groq.ChatCompletionRequest{
		Model:    c.model,
		Messages: converted,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty completion")
	}

	return content, nil
}
