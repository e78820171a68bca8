// Package ai is the boundary to the generative-language service. Each
// operation performs exactly one upstream attempt; the caller decides
// whether to try again.
package ai

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/bilgisen/finsmart/internal/config"
	"github.com/bilgisen/finsmart/internal/logger"
	"github.com/bilgisen/finsmart/internal/models"
	"github.com/rs/zerolog"
)

// Fallback texts returned when a text-mode call can't produce content
const (
	BodyEmptyFallback   = "<p>Content generation failed.</p>"
	bodyErrorFallback   = "<p>Content unavailable. Please ensure your API Key is valid. (%s)</p>"
	AnswerEmptyFallback = "I couldn't answer that right now."
	answerErrorFallback = "I'm having trouble connecting to the server. (%s)"
)

// Client builds prompts, calls the model and parses its answers.
//
// The text and list operations never leave the caller without something to
// render: on failure they return a fallback value together with a non-nil
// error describing why. Only GenerateArticleMetadata has no fallback.
type Client struct {
	model Model
	post  *PostProcessor
	now   func() time.Time
	log   zerolog.Logger
}

// New picks the backend named in cfg. A missing credential or a backend
// that fails to initialise still yields a usable client whose calls fail
// with ErrMissingCredential or the init error.
func New(ctx context.Context, cfg *config.Config) *Client {
	log := logger.With("ai")

	if !cfg.HasAICredential() {
		log.Warn().Msg("AI_API_KEY is not set; article bodies, trending topics and answers will use fallbacks")
		return NewWithModel(unconfiguredModel{})
	}

	var model Model
	switch cfg.AIBackend {
	case config.AIBackendSDK:
		sdk, err := NewSDKModel(ctx, cfg.AIApiKey, cfg.AIModel, cfg.AITimeout)
		if err != nil {
			log.Error().Err(err).Msg("GenAI client unavailable, falling back to REST backend")
			model = NewRESTModel(cfg.AIApiKey, cfg.AIModel, cfg.AIBaseURL, cfg.AITimeout)
		} else {
			model = sdk
		}
	default:
		model = NewRESTModel(cfg.AIApiKey, cfg.AIModel, cfg.AIBaseURL, cfg.AITimeout)
	}

	log.Info().Str("model", model.Name()).Msg("AI client ready")
	return NewWithModel(model)
}

// NewWithModel wraps an existing model
func NewWithModel(model Model) *Client {
	return &Client{
		model: model,
		post:  NewPostProcessor(),
		now:   time.Now,
		log:   logger.With("ai"),
	}
}

// GenerateArticleBody writes the HTML body for an article
func (c *Client) GenerateArticleBody(ctx context.Context, title string, category models.Category, region models.Region) (string, error) {
	text, err := c.model.Generate(ctx, Request{Prompt: BuildArticleBodyPrompt(title, category, region)})
	if err != nil {
		c.logFailure(err, "article_body", title)
		return fmt.Sprintf(bodyErrorFallback, html.EscapeString(err.Error())), fmt.Errorf("generate article body: %w", err)
	}

	body := c.post.CleanBody(text)
	if body == "" {
		c.logFailure(ErrEmptyResponse, "article_body", title)
		return BodyEmptyFallback, fmt.Errorf("generate article body: %w", ErrEmptyResponse)
	}
	return body, nil
}

// GenerateTrendingTopics asks for current headline ideas for the region.
// Failures yield an empty, non-nil slice.
func (c *Client) GenerateTrendingTopics(ctx context.Context, region models.Region) ([]models.TrendingTopic, error) {
	empty := []models.TrendingTopic{}

	text, err := c.model.Generate(ctx, Request{
		Prompt: BuildTrendingPrompt(region, c.now().Year()),
		JSON:   true,
	})
	if err != nil {
		c.logFailure(err, "trending_topics", region.String())
		return empty, fmt.Errorf("generate trending topics: %w", err)
	}

	topics, err := c.post.ParseTopics(text)
	if err != nil {
		c.logFailure(err, "trending_topics", region.String())
		return empty, fmt.Errorf("generate trending topics: %w", err)
	}
	return topics, nil
}

// GenerateArticleMetadata synthesizes metadata for an unknown slug. Unlike
// the other operations it returns no fallback.
func (c *Client) GenerateArticleMetadata(ctx context.Context, slug string, region models.Region) (*models.ArticleMetadata, error) {
	text, err := c.model.Generate(ctx, Request{
		Prompt: BuildMetadataPrompt(slug, region),
		JSON:   true,
	})
	if err != nil {
		c.logFailure(err, "article_metadata", slug)
		return nil, fmt.Errorf("could not generate metadata: %w", err)
	}

	meta, err := c.post.ParseMetadata(text)
	if err != nil {
		c.logFailure(err, "article_metadata", slug)
		return nil, fmt.Errorf("could not generate metadata: %w", err)
	}
	return meta, nil
}

// AnswerQuestion answers a reader question using the article body as
// context. The body is reduced to text and capped at MaxContextChars.
func (c *Client) AnswerQuestion(ctx context.Context, question, articleBody string, region models.Region) (string, error) {
	excerpt := c.post.Excerpt(articleBody, MaxContextChars)

	text, err := c.model.Generate(ctx, Request{Prompt: BuildQuestionPrompt(question, excerpt, region)})
	if err != nil {
		c.logFailure(err, "answer_question", question)
		return fmt.Sprintf(answerErrorFallback, err.Error()), fmt.Errorf("answer question: %w", err)
	}

	answer := strings.TrimSpace(stripFences(text))
	if answer == "" {
		c.logFailure(ErrEmptyResponse, "answer_question", question)
		return AnswerEmptyFallback, fmt.Errorf("answer question: %w", ErrEmptyResponse)
	}
	return answer, nil
}

func (c *Client) logFailure(err error, op, subject string) {
	event := c.log.Error()
	if errors.Is(err, ErrMissingCredential) {
		event = c.log.Warn()
	}
	event.Err(err).
		Str("op", op).
		Str("subject", subject).
		Str("model", c.model.Name()).
		Msg("AI generation failed")
}
