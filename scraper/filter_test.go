package scraper

import (
	"testing"

	"dealscout/config"

	"github.com/stretchr/testify/assert"
)

func newTestFilter() *RelevanceFilter {
	return NewRelevanceFilter(config.DefaultVocabulary())
}

func TestIsAccessory(t *testing.T) {
	f := newTestFilter()
	assert.True(t, f.IsAccessory("iPhone 15 Silicone Case"))
	assert.True(t, f.IsAccessory("Tempered Glass Screen Protector for Galaxy S24"))
	assert.True(t, f.IsAccessory("Laptop Sleeve 15.6 inch"))
	assert.True(t, f.IsAccessory("USB-C Charger 65W"))
	assert.False(t, f.IsAccessory("Apple iPhone 15 (128 GB) - Black"))
	assert.False(t, f.IsAccessory("Dell Inspiron 15 Laptop"))
}

func TestIsRelevantTokenOverlap(t *testing.T) {
	f := newTestFilter()
	assert.True(t, f.IsRelevant("Nike Men's Running Shoes - Black", "running shoes"))
	assert.True(t, f.IsRelevant("Apple iPhone 15 128GB", "iphone 15"))
	assert.False(t, f.IsRelevant("Stainless Steel Water Bottle 1L", "iphone 15"))
}

func TestIsRelevantStopwordsIgnored(t *testing.T) {
	f := newTestFilter()
	// "buy", "online", "best" and "price" carry no signal on their own.
	assert.True(t, f.IsRelevant("Samsung Galaxy S24 Ultra", "buy samsung galaxy online best price"))
	assert.False(t, f.IsRelevant("Wooden Dining Table", "buy samsung galaxy online"))
}

func TestIsRelevantEmptyQuery(t *testing.T) {
	f := newTestFilter()
	// A query of nothing but stopwords cannot discriminate; let it pass.
	assert.True(t, f.IsRelevant("anything at all", "buy online"))
}

func TestKeepListing(t *testing.T) {
	f := newTestFilter()
	assert.True(t, f.KeepListing("Apple iPhone 15 (128 GB)", "iphone 15"))
	// Relevant but an accessory: rejected.
	assert.False(t, f.KeepListing("iPhone 15 Back Cover", "iphone 15"))
	// Not an accessory but irrelevant: rejected.
	assert.False(t, f.KeepListing("Ceramic Coffee Mug", "iphone 15"))
}
