package ai

import (
	"fmt"
	"strings"

	"github.com/bilgisen/finsmart/internal/models"
)

// PromptTemplates contains the prompt for each generation operation. Every
// template is localized with the caller's region.
var PromptTemplates = struct {
	ArticleBody     string
	TrendingTopics  string
	ArticleMetadata string
	Question        string
}{
	ArticleBody: `You are a senior financial editor. Write a comprehensive, SEO-optimized blog post about "%[1]s" in the category "%[2]s".

Target Audience Context: The reader is located in %[3]s. Ensure currency references, financial regulations, and general advice are appropriate for this region.

Structure:
1. Introduction (hook the reader immediately).
2. 4-6 detailed subsections with H2 headings.
3. "Key Takeaways" list.
4. "FAQ" section relevant to %[3]s.

Format: Return ONLY raw HTML body content (no <html>, <head>, <body>). Use <h2>, <h3>, <p>, <ul>, <li>, <strong>.`,

	TrendingTopics: `Generate 5 trending, high-traffic finance article titles for %[2]d specifically relevant to investors and consumers in %[1]s.
Topics should cover: Crypto, Inflation, Housing Market, or AI Investing in this region.
Return a JSON array ONLY. Format:
[{"title": "...", "category": "...", "slug": "..."}]
The category must be one of: %[3]s.
Ensure slugs are URL-friendly (kebab-case).`,

	ArticleMetadata: `Based on the slug "%[1]s", generate plausible metadata for a finance article tailored for %[2]s.
Return JSON ONLY:
{
  "title": "Catchy Title Based on Slug",
  "category": "One of: %[3]s",
  "summary": "2 sentence summary",
  "author": "Expert Name",
  "publishDate": "Current Date"
}`,

	Question: `Context Article: %[1]s

User Location: %[2]s
User Question: %[3]s

Answer the user's question specifically based on the context provided above. If relevant, mention how it applies to %[2]s. Keep it brief and helpful.`,
}

// BuildArticleBodyPrompt creates the prompt for a full article body
func BuildArticleBodyPrompt(title string, category models.Category, region models.Region) string {
	return fmt.Sprintf(PromptTemplates.ArticleBody,
		escapeForPrompt(title),
		escapeForPrompt(string(category)),
		region.String())
}

// BuildTrendingPrompt creates the prompt for the trending topics list
func BuildTrendingPrompt(region models.Region, year int) string {
	return fmt.Sprintf(PromptTemplates.TrendingTopics, region.String(), year, categoryList())
}

// BuildMetadataPrompt creates the prompt for synthesizing article metadata
func BuildMetadataPrompt(slug string, region models.Region) string {
	return fmt.Sprintf(PromptTemplates.ArticleMetadata, escapeForPrompt(slug), region.String(), categoryList())
}

// BuildQuestionPrompt creates the prompt for the article Q&A assistant.
// excerpt must already be truncated by the caller.
func BuildQuestionPrompt(question, excerpt string, region models.Region) string {
	return fmt.Sprintf(PromptTemplates.Question, excerpt, region.String(), escapeForPrompt(question))
}

func categoryList() string {
	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// escapeForPrompt escapes special characters for use in prompts
func escapeForPrompt(s string) string {
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.TrimSpace(s)
}
