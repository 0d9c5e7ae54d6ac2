package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mjaros/focusflow/internal/store"
)

// Library supplies the tasks and goals the coach reasons about. *store.Store
// satisfies it; tests substitute a fixture.
type Library interface {
	ListTasks(f store.TaskFilter) ([]store.Task, error)
	ListGoals() ([]store.Goal, error)
}

// completer is the slice of the OpenAI client the gateway needs.
type completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config configures the gateway transport.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client is the AI gateway. Its operations never surface transport or parse
// errors: every path resolves to a usable response so the interactive session
// cannot hang or crash because the model misbehaved.
type Client struct {
	llm     completer
	library Library
	model   string
	timeout time.Duration
}

const defaultTimeout = 30 * time.Second

func New(cfg Config, library Library) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		llm:     openai.NewClientWithConfig(clientCfg),
		library: library,
		model:   cfg.Model,
		timeout: timeout,
	}
}

// complete sends one system+user exchange and returns the reply text.
func (c *Client) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.llm.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.7,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// decodeReply parses a model reply as JSON, tolerating markdown fences and
// prose around the object.
func decodeReply(text string, v any) error {
	text = strings.TrimSpace(text)
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return fmt.Errorf("no JSON object in reply")
	}
	return json.Unmarshal([]byte(text[start:end+1]), v)
}
