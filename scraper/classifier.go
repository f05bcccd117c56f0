package scraper

import (
	"strings"

	"dealscout/config"
	"dealscout/models"
)

// Classifier assigns a query to a product category and decides which
// sources are worth querying for it.
type Classifier struct {
	electronicsTerms   map[string]bool
	fashionTerms       map[string]bool
	electronicsPhrases []string
	fashionPhrases     []string
}

// NewClassifier builds a classifier from the configured vocabulary.
func NewClassifier(vocab *config.Vocabulary) *Classifier {
	return &Classifier{
		electronicsTerms:   toSet(vocab.ElectronicsTerms),
		fashionTerms:       toSet(vocab.FashionTerms),
		electronicsPhrases: vocab.ElectronicsPhrases,
		fashionPhrases:     vocab.FashionPhrases,
	}
}

func toSet(words []string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// Classify maps a query to electronics, fashion or general. Electronics
// checks run before fashion so mixed queries like "smart watch strap" lean
// electronics. Terms match whole tokens only, so "notebook paper" with no
// electronics token stays general.
func (c *Classifier) Classify(query string) string {
	q := strings.ToLower(query)

	for _, p := range c.electronicsPhrases {
		if strings.Contains(q, p) {
			return models.CategoryElectronics
		}
	}
	tokens := wordRe.FindAllString(q, -1)
	for _, t := range tokens {
		if c.electronicsTerms[t] {
			return models.CategoryElectronics
		}
	}

	for _, p := range c.fashionPhrases {
		if strings.Contains(q, p) {
			return models.CategoryFashion
		}
	}
	for _, t := range tokens {
		if c.fashionTerms[t] {
			return models.CategoryFashion
		}
	}

	return models.CategoryGeneral
}

// ActiveSources returns the source ids to query for a category. Amazon and
// Flipkart are always in; the rest join by category fit.
func ActiveSources(category string) []string {
	switch category {
	case models.CategoryElectronics:
		return []string{
			models.SourceAmazon,
			models.SourceFlipkart,
			models.SourceCroma,
			models.SourceReliance,
		}
	case models.CategoryFashion:
		return []string{
			models.SourceAmazon,
			models.SourceFlipkart,
			models.SourceAjio,
			models.SourceSnapdeal,
		}
	default:
		return []string{
			models.SourceAmazon,
			models.SourceFlipkart,
			models.SourceSnapdeal,
		}
	}
}
