package assistant

import "strings"

// Article is one entry of the built-in knowledge library.
type Article struct {
	Category    string
	Title       string
	Description string
}

var articles = []Article{
	{
		Category:    "Soil Health",
		Title:       "Understanding NPK Ratios",
		Description: "A comprehensive guide to nitrogen, phosphorus, and potassium...",
	},
	{
		Category:    "Pest Control",
		Title:       "Integrated Pest Management",
		Description: "Learn about sustainable pest control methods...",
	},
	{
		Category:    "Irrigation",
		Title:       "Water Conservation Techniques",
		Description: "Efficient irrigation methods for modern farming...",
	},
}

// Articles returns the full catalog in display order.
func Articles() []Article {
	out := make([]Article, len(articles))
	copy(out, articles)
	return out
}

// SearchArticles filters the catalog by a case-insensitive substring match
// on title or category. An empty query returns everything.
func SearchArticles(query string) []Article {
	if query == "" {
		return Articles()
	}

	q := strings.ToLower(query)
	var out []Article
	for _, a := range articles {
		if strings.Contains(strings.ToLower(a.Title), q) ||
			strings.Contains(strings.ToLower(a.Category), q) {
			out = append(out, a)
		}
	}
	return out
}
