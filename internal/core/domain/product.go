package domain

import "strings"

// DefaultReservedTagPrefix marks internal/administrative tags that must never
// be shown to users or to the selection model. The catalog platform uses it
// for custom-field bookkeeping.
const DefaultReservedTagPrefix = "cf"

// MaxVisibleTags bounds the tag list exposed outside the catalog.
const MaxVisibleTags = 10

// Product is a single catalog entry. Identity is the Handle, a unique
// URL-safe slug; ID is the platform's opaque identifier.
type Product struct {
	// ID is the opaque catalog identifier.
	ID string `json:"id"`

	// Handle is the unique URL-safe slug used as the selection key.
	Handle string `json:"handle"`

	// Title is the display string.
	Title string `json:"title"`

	// Tags is the catalog-defined tag sequence. May contain administrative
	// tags; callers exposing products must go through CleanTags.
	Tags []string `json:"tags"`

	// ImageURL is an optional display image reference.
	ImageURL string `json:"imageUrl,omitempty"`
}

// IndexText returns the document string registered with the relevance index:
// title and tag text concatenated. The full raw tag set is used so that
// administrative tags still contribute ranking signal.
func (p Product) IndexText() string {
	if len(p.Tags) == 0 {
		return p.Title
	}
	return p.Title + " " + strings.Join(p.Tags, " ")
}

// CleanTags returns the visible tag list: tags with the reserved prefix are
// dropped and the remainder is truncated to MaxVisibleTags. The receiver is
// not modified.
func (p Product) CleanTags(reservedPrefix string) []string {
	cleaned := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		if reservedPrefix != "" && strings.HasPrefix(tag, reservedPrefix) {
			continue
		}
		cleaned = append(cleaned, tag)
		if len(cleaned) == MaxVisibleTags {
			break
		}
	}
	return cleaned
}

// Cleaned returns a copy of the product with visible tags only.
func (p Product) Cleaned(reservedPrefix string) Product {
	p.Tags = p.CleanTags(reservedPrefix)
	return p
}

// RankedProduct pairs a product with its relevance score for a query.
type RankedProduct struct {
	Product Product `json:"product"`

	// Score is the TF-IDF relevance score. Always > 0: zero-score documents
	// are excluded from results.
	Score float64 `json:"score"`
}

// ProductCard is the display record rendered for a selected product.
type ProductCard struct {
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl,omitempty"`
	Handle   string `json:"handle"`
}

// MaxSelectedProducts bounds a selection result.
const MaxSelectedProducts = 5
