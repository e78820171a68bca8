// Package pages serves the site's static editorial pages, written as
// markdown with YAML front matter and embedded in the binary.
package pages

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"
)

//go:embed content/*.md
var embedded embed.FS

// ErrNotFound is returned for unknown page slugs
var ErrNotFound = errors.New("page not found")

// Page is a rendered static page
type Page struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
	HTML      string    `json:"html"`
}

type frontMatter struct {
	Title     string `yaml:"title"`
	Summary   string `yaml:"summary"`
	UpdatedAt string `yaml:"updated_at"`
}

// Library holds every page rendered once at load time
type Library struct {
	pages map[string]Page
}

// Load renders the embedded pages
func Load() (*Library, error) {
	sub, err := fs.Sub(embedded, "content")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
}

// LoadFS renders every *.md file at the root of fsys. The slug is the file
// name without its extension.
func LoadFS(fsys fs.FS) (*Library, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)

	names, err := fs.Glob(fsys, "*.md")
	if err != nil {
		return nil, err
	}

	lib := &Library{pages: make(map[string]Page, len(names))}
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read page %s: %w", name, err)
		}
		page, err := render(md, strings.TrimSuffix(path.Base(name), ".md"), string(raw))
		if err != nil {
			return nil, fmt.Errorf("render page %s: %w", name, err)
		}
		lib.pages[page.Slug] = page
	}
	return lib, nil
}

func render(md goldmark.Markdown, slug, raw string) (Page, error) {
	fmText, body := splitFrontMatter(raw)

	var meta frontMatter
	if fmText != "" {
		if err := yaml.Unmarshal([]byte(fmText), &meta); err != nil {
			return Page{}, fmt.Errorf("front matter: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(body), &buf); err != nil {
		return Page{}, err
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = slug
	}
	return Page{
		Slug:      slug,
		Title:     title,
		Summary:   strings.TrimSpace(meta.Summary),
		UpdatedAt: parseDate(meta.UpdatedAt),
		HTML:      buf.String(),
	}, nil
}

// Get returns the page for slug
func (l *Library) Get(slug string) (Page, error) {
	page, ok := l.pages[strings.ToLower(strings.TrimSpace(slug))]
	if !ok {
		return Page{}, ErrNotFound
	}
	return page, nil
}

// List returns all pages without their bodies, sorted by slug
func (l *Library) List() []Page {
	out := make([]Page, 0, len(l.pages))
	for _, p := range l.pages {
		p.HTML = ""
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func parseDate(v string) time.Time {
	v = strings.TrimSpace(v)
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
