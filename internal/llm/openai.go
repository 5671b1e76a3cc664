package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultOpenAIBaseURL is the root of the OpenAI REST API.
const DefaultOpenAIBaseURL = "https://api.openai.com/v1"

// openAITimeout bounds a single chat completion round trip.
const openAITimeout = 90 * time.Second

// OpenAIClient implements Client for the OpenAI chat completions API
type OpenAIClient struct {
	httpClient *http.Client
	config     *Config
	apiKey     string
	baseURL    string
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(config *Config, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	return &OpenAIClient{
		httpClient: &http.Client{Timeout: openAITimeout},
		config:     config,
		apiKey:     apiKey,
		baseURL:    DefaultOpenAIBaseURL,
	}, nil
}

// WithBaseURL overrides the API root, for proxies and tests.
func (c *OpenAIClient) WithBaseURL(baseURL string) *OpenAIClient {
	c.baseURL = baseURL
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateContent generates text content using the specified model tier
func (c *OpenAIClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.generate(ctx, prompt, tier, false)
}

// GenerateJSON generates JSON content using the specified model tier.
// The request asks for json_object output; the reply is still cleaned in
// case the model ignores the format instruction.
func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.generate(ctx, prompt, tier, true)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

func (c *OpenAIClient) generate(ctx context.Context, prompt string, tier ModelTier, jsonMode bool) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	payload := chatRequest{
		Model:       modelName,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.1, // Low temperature for consistent output
	}
	if jsonMode {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai status %d", resp.StatusCode)
	}

	var r chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(r.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return r.Choices[0].Message.Content, nil
}

// GetModel returns the model name for a tier
func (c *OpenAIClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *OpenAIClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
