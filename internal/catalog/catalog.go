// Package catalog holds the built-in articles that are available without
// calling the generation service. Entries are immutable after startup.
package catalog

import (
	"github.com/bilgisen/finsmart/internal/models"
)

// Catalog is a read-only, slug-indexed set of articles
type Catalog struct {
	items  []models.ContentItem
	bySlug map[string]int
}

// New indexes items by slug. Later duplicates are ignored.
func New(items []models.ContentItem) *Catalog {
	c := &Catalog{bySlug: make(map[string]int, len(items))}
	for _, item := range items {
		if _, dup := c.bySlug[item.Slug]; dup {
			continue
		}
		c.bySlug[item.Slug] = len(c.items)
		c.items = append(c.items, item)
	}
	return c
}

// Default returns the catalog shipped with the site
func Default() *Catalog {
	return New(starterArticles)
}

// Lookup finds an article by slug. The returned item is a copy.
func (c *Catalog) Lookup(slug string) (models.ContentItem, bool) {
	i, ok := c.bySlug[slug]
	if !ok {
		return models.ContentItem{}, false
	}
	return c.items[i], true
}

// All returns every article in catalog order
func (c *Catalog) All() []models.ContentItem {
	out := make([]models.ContentItem, len(c.items))
	copy(out, c.items)
	return out
}

// Featured returns the editor's pick, the first catalog entry
func (c *Catalog) Featured() (models.ContentItem, bool) {
	if len(c.items) == 0 {
		return models.ContentItem{}, false
	}
	return c.items[0], true
}

// Latest returns up to n entries following the featured one
func (c *Catalog) Latest(n int) []models.ContentItem {
	if len(c.items) <= 1 || n <= 0 {
		return []models.ContentItem{}
	}
	end := 1 + n
	if end > len(c.items) {
		end = len(c.items)
	}
	out := make([]models.ContentItem, end-1)
	copy(out, c.items[1:end])
	return out
}

// ByCategory returns the articles filed under category
func (c *Catalog) ByCategory(category models.Category) []models.ContentItem {
	out := []models.ContentItem{}
	for _, item := range c.items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out
}
