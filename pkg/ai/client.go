// Package ai talks to the semantic collaborator used for product matching,
// price analysis, and search suggestions. Responses are untrusted free-form
// output: every caller parses defensively and has a deterministic fallback.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultModel    = "gpt-4.1-mini"
	defaultEndpoint = "https://api.openai.com/v1/chat/completions"
)

// Config controls how the collaborator client behaves.
type Config struct {
	APIKey     string
	Model      string
	Endpoint   string
	HTTPClient *http.Client
}

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a thin chat-completions client constrained to JSON-object output.
type Client struct {
	apiKey   string
	model    string
	endpoint string
	client   httpClient
}

// NewClient builds a collaborator client. An API key is required; callers
// without one should pass a nil client around and rely on fallbacks.
func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("semantic analysis requires an API key (set openai.api_key in config or OPENAI_API_KEY)")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	client := httpClient(cfg.HTTPClient)
	if cfg.HTTPClient == nil {
		client = &http.Client{Timeout: 45 * time.Second}
	}

	return &Client{
		apiKey:   apiKey,
		model:    model,
		endpoint: endpoint,
		client:   client,
	}, nil
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
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

// complete sends one system+user exchange and returns the raw JSON content.
func (c *Client) complete(ctx context.Context, systemPrompt, userPayload string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPayload},
		},
		Temperature:    0.2,
		ResponseFormat: responseFormat{Type: "json_object"},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErrResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErrResp)
		if apiErrResp.Error.Message != "" {
			return "", fmt.Errorf("semantic analysis: %s", apiErrResp.Error.Message)
		}
		return "", fmt.Errorf("semantic analysis failed with HTTP %d", resp.StatusCode)
	}

	var apiResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", err
	}

	if len(apiResp.Choices) == 0 || strings.TrimSpace(apiResp.Choices[0].Message.Content) == "" {
		return "", errors.New("semantic analysis returned an empty response")
	}

	return strings.TrimSpace(apiResp.Choices[0].Message.Content), nil
}
