package revisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-pkgz/requester"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/exp/slog"
)

//go:generate moq -out mock_completer.go . Completer

// Completer sends the system and user prompts to the language model
// and returns its text response.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// CompletionParams are common parameters of the model calls.
type CompletionParams struct {
	Model       string
	MaxTokens   int
	Temperature float32
}

//go:generate moq -out mock_openai_client.go . OpenAIClient

// OpenAIClient is interface for OpenAI client with the possibility to mock it
type OpenAIClient interface {
	CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAI completes prompts with OpenAI chat models.
type OpenAI struct {
	log    *slog.Logger
	cl     OpenAIClient
	params CompletionParams
}

// NewOpenAI makes a new OpenAI completer.
func NewOpenAI(lg *slog.Logger, cl *http.Client, baseURL, token string, params CompletionParams) *OpenAI {
	config := openai.DefaultConfig(token)
	config.HTTPClient = cl
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	if params.Model == "" {
		params.Model = openai.GPT3Dot5Turbo
	}

	return &OpenAI{
		log:    lg,
		cl:     &loggingClient{log: lg, cl: openai.NewClientWithConfig(config)},
		params: params,
	}
}

// Complete sends the prompts as system and user messages.
func (o *OpenAI) Complete(ctx context.Context, system, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       o.params.Model,
		MaxTokens:   o.params.MaxTokens,
		Temperature: o.params.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	resp, err := o.cl.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}

type loggingClient struct {
	log *slog.Logger
	cl  OpenAIClient
}

func (l *loggingClient) CreateChatCompletion(
	ctx context.Context,
	req openai.ChatCompletionRequest,
) (openai.ChatCompletionResponse, error) {
	l.log.DebugCtx(ctx, "sending request to openai", slog.String("model", req.Model))
	resp, err := l.cl.CreateChatCompletion(ctx, req)
	l.log.DebugCtx(ctx, "response received from openai",
		slog.Int("prompt_tokens", resp.Usage.PromptTokens),
		slog.Int("completion_tokens", resp.Usage.CompletionTokens),
	)
	return resp, err
}

// Claude completes prompts with Anthropic messages API.
type Claude struct {
	log     *slog.Logger
	cl      *requester.Requester
	baseURL string
	apiKey  string
	params  CompletionParams
}

// NewClaude makes a new Claude completer.
func NewClaude(lg *slog.Logger, cl *requester.Requester, baseURL, apiKey string, params CompletionParams) *Claude {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com/v1"
	}
	if params.Model == "" {
		params.Model = "claude-3-haiku-20240307"
	}
	if params.MaxTokens <= 0 {
		params.MaxTokens = 500
	}

	return &Claude{
		log:     lg,
		cl:      cl,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		params:  params,
	}
}

type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	System      string          `json:"system,omitempty"`
	Messages    []claudeMessage `json:"messages"`
	Temperature float32         `json:"temperature,omitempty"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends the prompt as a single user message.
func (c *Claude) Complete(ctx context.Context, system, prompt string) (string, error) {
	body, err := json.Marshal(claudeRequest{
		Model:       c.params.Model,
		MaxTokens:   c.params.MaxTokens,
		System:      system,
		Messages:    []claudeMessage{{Role: "user", Content: prompt}},
		Temperature: c.params.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.cl.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.WarnCtx(ctx, "failed to close response body", slog.Any("err", err))
		}
	}()

	var cresp claudeResponse
	if err = json.NewDecoder(resp.Body).Decode(&cresp); err != nil {
		return "", fmt.Errorf("decode response with status %d: %w", resp.StatusCode, err)
	}

	if cresp.Error != nil {
		return "", fmt.Errorf("claude api error, status %d, %s: %s", resp.StatusCode, cresp.Error.Type, cresp.Error.Message)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	text := &strings.Builder{}
	for _, block := range cresp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	if text.Len() == 0 {
		return "", errors.New("no text content in response")
	}

	c.log.DebugCtx(ctx, "response received from claude",
		slog.Int("input_tokens", cresp.Usage.InputTokens),
		slog.Int("output_tokens", cresp.Usage.OutputTokens),
	)

	return text.String(), nil
}
