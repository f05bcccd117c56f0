package scraper

import (
	"regexp"
	"strings"

	"dealscout/config"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// RelevanceFilter decides whether a listing title is worth pursuing for a
// given query: not an accessory, and plausibly the searched product.
type RelevanceFilter struct {
	accessoryKeywords []string
	stopwords         map[string]bool
	similarity        *metrics.SorensenDice

	// minSimilarity is the fuzzy-match threshold applied when token
	// overlap alone is inconclusive.
	minSimilarity float64
}

var wordRe = regexp.MustCompile(`\w+`)

// NewRelevanceFilter builds a filter from the configured vocabulary.
func NewRelevanceFilter(vocab *config.Vocabulary) *RelevanceFilter {
	stop := make(map[string]bool, len(vocab.Stopwords))
	for _, w := range vocab.Stopwords {
		stop[w] = true
	}
	return &RelevanceFilter{
		accessoryKeywords: vocab.AccessoryKeywords,
		stopwords:         stop,
		similarity:        metrics.NewSorensenDice(),
		minSimilarity:     0.4,
	}
}

// IsAccessory reports whether the title looks like an add-on product (case,
// cable, strap...) rather than the item itself.
func (f *RelevanceFilter) IsAccessory(title string) bool {
	t := strings.ToLower(title)
	for _, kw := range f.accessoryKeywords {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}

// IsRelevant reports whether the title plausibly describes the queried
// product. It passes when the de-stopworded token sets intersect, or the
// string similarity clears the threshold, or at least half the query tokens
// appear in the title.
func (f *RelevanceFilter) IsRelevant(title, query string) bool {
	titleTokens := f.tokenize(title)
	queryTokens := f.tokenize(query)
	if len(queryTokens) == 0 {
		return true
	}
	if len(titleTokens) == 0 {
		return false
	}

	titleSet := make(map[string]bool, len(titleTokens))
	for _, t := range titleTokens {
		titleSet[t] = true
	}
	for _, q := range queryTokens {
		if titleSet[q] {
			return true
		}
	}

	if strutil.Similarity(strings.ToLower(title), strings.ToLower(query), f.similarity) >= f.minSimilarity {
		return true
	}

	matched := 0
	titleLower := strings.ToLower(title)
	for _, q := range queryTokens {
		if strings.Contains(titleLower, q) {
			matched++
		}
	}
	return float64(matched)/float64(len(queryTokens)) >= 0.5
}

// KeepListing is the combined gate applied to search-result rows.
func (f *RelevanceFilter) KeepListing(title, query string) bool {
	return !f.IsAccessory(title) && f.IsRelevant(title, query)
}

// tokenize lowercases, splits on word boundaries and drops stopwords.
func (f *RelevanceFilter) tokenize(s string) []string {
	words := wordRe.FindAllString(strings.ToLower(s), -1)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if !f.stopwords[w] {
			out = append(out, w)
		}
	}
	return out
}
