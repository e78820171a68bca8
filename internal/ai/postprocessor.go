package ai

import (
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bilgisen/finsmart/internal/models"
	"github.com/bilgisen/finsmart/internal/utils"
	"github.com/microcosm-cc/bluemonday"
)

// MaxContextChars bounds the article excerpt embedded in Q&A prompts
const MaxContextChars = 3000

var (
	controlChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	codeFence    = regexp.MustCompile("^```[a-zA-Z]*\\s*\n?|\n?```\\s*$")
)

// PostProcessor cleans raw model output before it reaches callers
type PostProcessor struct {
	bodyPolicy   *bluemonday.Policy
	strictPolicy *bluemonday.Policy
}

func NewPostProcessor() *PostProcessor {
	return &PostProcessor{
		bodyPolicy:   bluemonday.UGCPolicy(),
		strictPolicy: bluemonday.StrictPolicy(),
	}
}

// CleanBody strips markdown fences and unsafe markup from a generated HTML
// fragment
func (p *PostProcessor) CleanBody(raw string) string {
	body := stripFences(raw)
	body = strings.ReplaceAll(body, "\r\n", "\n")
	return strings.TrimSpace(p.bodyPolicy.Sanitize(body))
}

// PlainText reduces an HTML fragment to whitespace-normalized text
func (p *PostProcessor) PlainText(fragment string) string {
	text := p.strictPolicy.Sanitize(fragment)
	text = html.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}

// Excerpt returns at most max characters of the article text
func (p *PostProcessor) Excerpt(body string, max int) string {
	text := p.PlainText(body)
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max]) + "..."
}

type rawTopic struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Slug     string `json:"slug"`
}

// ParseTopics decodes a JSON array of topics and normalizes each entry:
// entries without a title are dropped, slugs are forced to kebab-case and
// categories folded onto the enumeration. Duplicate slugs keep the first.
func (p *PostProcessor) ParseTopics(raw string) ([]models.TrendingTopic, error) {
	var items []rawTopic
	if err := decodeJSON(raw, &items); err != nil {
		return nil, err
	}

	topics := make([]models.TrendingTopic, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		title := p.cleanText(item.Title)
		if title == "" {
			continue
		}
		slug := utils.Slugify(item.Slug)
		if slug == "" {
			slug = utils.Slugify(title)
		}
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		topics = append(topics, models.TrendingTopic{
			Title:    title,
			Category: models.NormalizeCategory(item.Category),
			Slug:     slug,
		})
	}
	return topics, nil
}

// ParseMetadata decodes a JSON metadata object. A result without a title
// is rejected because nothing can be rendered from it.
func (p *PostProcessor) ParseMetadata(raw string) (*models.ArticleMetadata, error) {
	var meta models.ArticleMetadata
	if err := decodeJSON(raw, &meta); err != nil {
		return nil, err
	}

	meta.Title = p.cleanText(meta.Title)
	meta.Category = p.cleanText(meta.Category)
	meta.Summary = p.cleanText(meta.Summary)
	meta.Author = p.cleanText(meta.Author)
	meta.PublishDate = p.cleanText(meta.PublishDate)

	if meta.Title == "" {
		return nil, fmt.Errorf("%w: metadata has no title", ErrMalformedResponse)
	}
	return &meta, nil
}

// cleanText removes control characters and normalizes whitespace
func (p *PostProcessor) cleanText(s string) string {
	s = controlChars.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// stripFences removes the markdown code fence the model sometimes wraps
// around its answer
func stripFences(s string) string {
	return codeFence.ReplaceAllString(strings.TrimSpace(s), "")
}

func decodeJSON(raw string, v any) error {
	clean := stripFences(raw)
	if clean == "" {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(clean), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
