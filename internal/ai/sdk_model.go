package ai

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// SDKModel calls Gemini through the official genai client
type SDKModel struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewSDKModel creates a genai backed model
func NewSDKModel(ctx context.Context, apiKey, model string, timeout time.Duration) (*SDKModel, error) {
	if apiKey == "" {
		return nil, ErrMissingCredential
	}

	return newSDKModel(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, model, timeout)
}

func newSDKModel(ctx context.Context, cc *genai.ClientConfig, model string, timeout time.Duration) (*SDKModel, error) {
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &SDKModel{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

// Name returns the backend and model identifier
func (m *SDKModel) Name() string {
	return "sdk:" + m.model
}

// generateConfig maps a Request onto the SDK's per-call options
func generateConfig(req Request) *genai.GenerateContentConfig {
	if !req.JSON {
		return nil
	}
	return &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
}

// Generate runs a single GenerateContent call
func (m *SDKModel) Generate(ctx context.Context, req Request) (string, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	result, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(req.Prompt), generateConfig(req))
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
