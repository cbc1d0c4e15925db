package llms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/intelliwealth/advisor/pkg/httpclient"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIProvider is a minimal chat-completions client for any
// OpenAI-compatible endpoint.
type OpenAIProvider struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
	httpClient  *httpclient.Client
}

type OpenAIOption func(*OpenAIProvider)

func WithBaseURL(url string) OpenAIOption {
	return func(p *OpenAIProvider) {
		p.baseURL = url
	}
}

func WithTemperature(t float64) OpenAIOption {
	return func(p *OpenAIProvider) {
		p.temperature = t
	}
}

func WithMaxTokens(n int) OpenAIOption {
	return func(p *OpenAIProvider) {
		p.maxTokens = n
	}
}

func NewOpenAIProvider(apiKey, model string, opts ...OpenAIOption) *OpenAIProvider {
	p := &OpenAIProvider{
		apiKey:      apiKey,
		model:       model,
		baseURL:     defaultOpenAIBaseURL,
		temperature: 0.7,
		maxTokens:   2048,
		httpClient: httpclient.New(
			httpclient.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
			httpclient.WithMaxRetries(2),
		),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (p *OpenAIProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	reqBody := openAIRequest{
		Model:       p.model,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
		Messages: []openAIMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read completion response: %w", err)
	}

	var parsed openAIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("completion API error (%s): %s", parsed.Error.Type, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion API returned HTTP %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion API returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

var _ Completer = (*OpenAIProvider)(nil)
