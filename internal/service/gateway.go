package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/hypelens/hypelens/internal/config"
)

// ErrRateLimited is returned when the AI gateway rejects a request with
// HTTP 429. Callers treat it differently from other failures: the result must
// not be substituted with a default.
var ErrRateLimited = errors.New("service: ai gateway rate limited")

// GatewayService is an OpenAI-compatible chat-completions client for the
// configured AI gateway.
type GatewayService struct {
	client      *resty.Client
	model       string
	endpoint    string
	temperature float32
}

// NewGatewayService creates a new GatewayService.
// Parameters:
//   - cfg: gateway configuration including model, API key, and base URL.
//
// Returns:
//   - *GatewayService: initialized chat-completions client.
func NewGatewayService(cfg *config.GatewayConfig) *GatewayService {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	// Set timeout to prevent hanging requests
	client.SetTimeout(60 * time.Second)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &GatewayService{
		client:      client,
		model:       cfg.Model,
		endpoint:    baseURL + "/chat/completions",
		temperature: cfg.Temperature,
	}
}

// GetModel returns the model name being used.
func (s *GatewayService) GetModel() string {
	return s.model
}

// OpenAI-compatible Chat Completion API request/response structures
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends a system/user message pair and returns the assistant's raw
// text reply.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - system: system prompt pinning the model's role.
//   - user: user message.
//
// Returns:
//   - string: assistant reply text.
//   - error: ErrRateLimited on HTTP 429, otherwise non-nil on any failure.
func (s *GatewayService) Complete(ctx context.Context, system, user string) (string, error) {
	req := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: s.temperature,
	}

	var resp chatResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(s.endpoint)

	if err != nil {
		return "", fmt.Errorf("failed to call AI gateway: %w", err)
	}

	if httpResp.StatusCode() == http.StatusTooManyRequests {
		return "", ErrRateLimited
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		errorMsg := fmt.Sprintf("HTTP %d", httpResp.StatusCode())
		if resp.Error != nil {
			errorMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)
		} else if len(httpResp.Body()) > 0 {
			errorMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), string(httpResp.Body()))
		}
		return "", fmt.Errorf("AI gateway returned error: %s", errorMsg)
	}

	if resp.Error != nil {
		return "", fmt.Errorf("AI gateway error: %s", resp.Error.Message)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from AI gateway (status: %d)", httpResp.StatusCode())
	}

	return resp.Choices[0].Message.Content, nil
}
