package scraper

import (
	"testing"

	"dealscout/config"
	"dealscout/models"

	"github.com/stretchr/testify/assert"
)

func newTestClassifier() *Classifier {
	return NewClassifier(config.DefaultVocabulary())
}

func TestClassify(t *testing.T) {
	c := newTestClassifier()
	tests := []struct {
		query string
		want  string
	}{
		{"running shoes", models.CategoryFashion},
		{"4K television", models.CategoryElectronics},
		{"notebook paper", models.CategoryGeneral},
		{"iphone 15 pro", models.CategoryElectronics},
		{"smart watch", models.CategoryElectronics},
		{"cotton kurti for women", models.CategoryFashion},
		{"washing machine 7kg", models.CategoryElectronics},
		{"water bottle", models.CategoryGeneral},
		{"", models.CategoryGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.query))
		})
	}
}

func TestClassifyElectronicsBeatsFashion(t *testing.T) {
	c := newTestClassifier()
	// Mixed signals resolve to electronics.
	assert.Equal(t, models.CategoryElectronics, c.Classify("smartwatch with leather strap"))
}

func TestClassifyWholeTokensOnly(t *testing.T) {
	c := newTestClassifier()
	// "tv" must not match inside another word.
	assert.Equal(t, models.CategoryGeneral, c.Classify("tvilum bookshelf"))
}

func TestActiveSources(t *testing.T) {
	assert.Equal(t,
		[]string{models.SourceAmazon, models.SourceFlipkart, models.SourceCroma, models.SourceReliance},
		ActiveSources(models.CategoryElectronics))
	assert.Equal(t,
		[]string{models.SourceAmazon, models.SourceFlipkart, models.SourceAjio, models.SourceSnapdeal},
		ActiveSources(models.CategoryFashion))
	assert.Equal(t,
		[]string{models.SourceAmazon, models.SourceFlipkart, models.SourceSnapdeal},
		ActiveSources(models.CategoryGeneral))
}
