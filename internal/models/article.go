package models

import "strings"

// Category is one of the fixed content categories of the site
type Category string

const (
	CategoryCreditCards Category = "Credit Cards"
	CategoryInsurance   Category = "Insurance"
	CategoryLoans       Category = "Loans & Mortgages"
	CategoryInvesting   Category = "Investing & Retirement"
	CategoryBudgeting   Category = "Budgeting & Apps"
)

// Categories lists every category in navigation order
var Categories = []Category{
	CategoryCreditCards,
	CategoryInsurance,
	CategoryLoans,
	CategoryInvesting,
	CategoryBudgeting,
}

var categorySlugs = map[Category]string{
	CategoryCreditCards: "credit-cards",
	CategoryInsurance:   "insurance",
	CategoryLoans:       "loans-mortgages",
	CategoryInvesting:   "investing-retirement",
	CategoryBudgeting:   "budgeting-apps",
}

// keyword table used to fold free-text categories onto the enumeration,
// checked in order
var categoryKeywords = []struct {
	keyword  string
	category Category
}{
	{"credit", CategoryCreditCards},
	{"card", CategoryCreditCards},
	{"insur", CategoryInsurance},
	{"loan", CategoryLoans},
	{"mortgage", CategoryLoans},
	{"housing", CategoryLoans},
	{"invest", CategoryInvesting},
	{"retire", CategoryInvesting},
	{"crypto", CategoryInvesting},
	{"stock", CategoryInvesting},
	{"budget", CategoryBudgeting},
	{"app", CategoryBudgeting},
	{"saving", CategoryBudgeting},
	{"inflation", CategoryBudgeting},
}

// Slug returns the URL slug of the category
func (c Category) Slug() string {
	return categorySlugs[c]
}

// Valid reports whether c is part of the enumeration
func (c Category) Valid() bool {
	_, ok := categorySlugs[c]
	return ok
}

// ParseCategorySlug maps a category slug back to its Category
func ParseCategorySlug(slug string) (Category, bool) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for c, s := range categorySlugs {
		if s == slug {
			return c, true
		}
	}
	return "", false
}

// NormalizeCategory folds a free-text category (as returned by the
// generation service) onto the enumeration. Unknown text maps to
// CategoryInvesting.
func NormalizeCategory(s string) Category {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c
		}
	}
	lower := strings.ToLower(s)
	for _, k := range categoryKeywords {
		if strings.Contains(lower, k.keyword) {
			return k.category
		}
	}
	return CategoryInvesting
}

// ContentItem is a single article, either from the catalog or synthesized
// on demand by the generation service
type ContentItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Category    Category `json:"category"`
	Summary     string   `json:"summary"`
	Author      string   `json:"author"`
	PublishDate string   `json:"publish_date"`
	ImageURL    string   `json:"image_url"`
	Content     string   `json:"content,omitempty"`
	IsGenerated bool     `json:"is_generated,omitempty"`
}

// ArticleMetadata is the shape returned by metadata synthesis
type ArticleMetadata struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Summary     string `json:"summary"`
	Author      string `json:"author"`
	PublishDate string `json:"publishDate"`
}

// TrendingTopic is a generated headline suggestion
type TrendingTopic struct {
	Title    string   `json:"title"`
	Category Category `json:"category"`
	Slug     string   `json:"slug"`
}
