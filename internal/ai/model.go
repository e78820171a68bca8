package ai

import (
	"context"
	"errors"
)

var (
	// ErrMissingCredential is returned by every call when no API key is configured
	ErrMissingCredential = errors.New("AI API key is not configured")
	// ErrEmptyResponse means the service answered without any text
	ErrEmptyResponse = errors.New("empty response from AI service")
	// ErrMalformedResponse means a JSON-mode answer could not be decoded
	ErrMalformedResponse = errors.New("malformed response from AI service")
)

// Request is a single prompt sent upstream
type Request struct {
	Prompt string
	// JSON asks the service for an application/json response
	JSON bool
}

// Model performs one upstream generation attempt. Implementations must not
// retry.
type Model interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

// unconfiguredModel stands in when the credential is missing so the rest of
// the service keeps working on fallbacks
type unconfiguredModel struct{}

func (unconfiguredModel) Generate(ctx context.Context, req Request) (string, error) {
	return "", ErrMissingCredential
}

func (unconfiguredModel) Name() string { return "unconfigured" }
