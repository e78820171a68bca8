// Package article resolves content slugs into renderable articles and keeps
// the per-viewer state of that resolution.
package article

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bilgisen/finsmart/internal/catalog"
	"github.com/bilgisen/finsmart/internal/models"
	"github.com/bilgisen/finsmart/internal/utils"
)

const (
	// DefaultAuthor is credited on synthesized articles when the service names nobody
	DefaultAuthor = "FinSmart AI"
	// FailureMessage is shown to readers when an article can't be resolved
	FailureMessage = "We couldn't generate this article right now. Please check your connection or API Key."

	publishDateLayout = "Jan 2, 2006"
	coverImageURL     = "https://picsum.photos/seed/%s/800/600"
)

var (
	// ErrResolution wraps every failure that leaves a view in the failed state
	ErrResolution = errors.New("article resolution failed")
	// ErrEmptySlug is returned for a blank or non URL-safe slug
	ErrEmptySlug = errors.New("no slug")
)

// Generator is the part of the AI client the resolver depends on
type Generator interface {
	GenerateArticleBody(ctx context.Context, title string, category models.Category, region models.Region) (string, error)
	GenerateArticleMetadata(ctx context.Context, slug string, region models.Region) (*models.ArticleMetadata, error)
	AnswerQuestion(ctx context.Context, question, articleBody string, region models.Region) (string, error)
}

// Resolver turns a slug into a ContentItem, from the catalog when possible
// and by synthesis otherwise. Nothing is cached: every call resolves from
// scratch.
type Resolver struct {
	catalog *catalog.Catalog
	gen     Generator
	now     func() time.Time
}

func NewResolver(c *catalog.Catalog, gen Generator) *Resolver {
	return &Resolver{catalog: c, gen: gen, now: time.Now}
}

// ResolveMetadata returns the article metadata for slug without its body
func (r *Resolver) ResolveMetadata(ctx context.Context, slug string, region models.Region) (models.ContentItem, error) {
	slug = strings.TrimSpace(slug)
	if item, ok := r.catalog.Lookup(slug); ok {
		return item, nil
	}

	normalized := utils.Slugify(slug)
	if normalized == "" {
		return models.ContentItem{}, fmt.Errorf("%w: %w", ErrResolution, ErrEmptySlug)
	}
	if item, ok := r.catalog.Lookup(normalized); ok {
		return item, nil
	}

	meta, err := r.gen.GenerateArticleMetadata(ctx, normalized, region)
	if err != nil {
		return models.ContentItem{}, fmt.Errorf("%w: %w", ErrResolution, err)
	}
	return r.synthesize(normalized, meta), nil
}

func (r *Resolver) synthesize(slug string, meta *models.ArticleMetadata) models.ContentItem {
	author := meta.Author
	if author == "" {
		author = DefaultAuthor
	}
	return models.ContentItem{
		ID:          slug,
		Title:       meta.Title,
		Slug:        slug,
		Category:    models.NormalizeCategory(meta.Category),
		Summary:     meta.Summary,
		Author:      author,
		PublishDate: r.now().Format(publishDateLayout),
		ImageURL:    fmt.Sprintf(coverImageURL, url.PathEscape(slug)),
		IsGenerated: true,
	}
}

// ResolveBody generates the body for item. The returned body is always
// renderable; a non-nil error means it is a fallback text.
func (r *Resolver) ResolveBody(ctx context.Context, item models.ContentItem, region models.Region) (string, error) {
	return r.gen.GenerateArticleBody(ctx, item.Title, item.Category, region)
}
