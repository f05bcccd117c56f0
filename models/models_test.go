package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProductRecordDefaults(t *testing.T) {
	rec := NewProductRecord("https://example.com/p")
	assert.Equal(t, "https://example.com/p", rec.URL)
	assert.Equal(t, PlaceholderImage, rec.Image)
	assert.Equal(t, DeliveryUnknown, rec.DeliveryDate)
	assert.Equal(t, DeliveryUnknown, rec.DeliveryInfo)
	assert.NotNil(t, rec.Images)
	assert.NotNil(t, rec.Features)
	assert.NotNil(t, rec.Specifications)
	assert.False(t, rec.IsUsable())
}

func TestIsUsable(t *testing.T) {
	var nilRec *ProductRecord
	assert.False(t, nilRec.IsUsable())
	assert.False(t, (&ProductRecord{URL: "u"}).IsUsable())
	assert.False(t, (&ProductRecord{Price: 100}).IsUsable())
	assert.True(t, (&ProductRecord{URL: "u", Price: 100}).IsUsable())
}

func TestNewSourceResultMap(t *testing.T) {
	m := NewSourceResultMap()
	assert.Len(t, m, len(AllSources()))
	for _, src := range AllSources() {
		rec, ok := m[src]
		assert.True(t, ok, "missing key %s", src)
		assert.Nil(t, rec)
	}
	assert.Zero(t, m.CountPresent())
}

func TestCountPresent(t *testing.T) {
	m := NewSourceResultMap()
	m[SourceAmazon] = &ProductRecord{URL: "u", Price: 100}
	m[SourceFlipkart] = &ProductRecord{URL: "u"} // unusable, not counted
	assert.Equal(t, 1, m.CountPresent())
}

func TestOutcomeConstructors(t *testing.T) {
	rec := &ProductRecord{URL: "u", Price: 100}

	found := Found(SourceAmazon, rec)
	assert.Equal(t, OutcomeFound, found.Status)
	assert.Equal(t, rec, found.Record)

	nf := NotFound(SourceCroma)
	assert.Equal(t, OutcomeNotFound, nf.Status)
	assert.Nil(t, nf.Record)
	assert.Empty(t, nf.Reason)

	failed := Failed(SourceAjio, "navigation timeout")
	assert.Equal(t, OutcomeFailed, failed.Status)
	assert.Equal(t, "navigation timeout", failed.Reason)
	assert.Nil(t, failed.Record)
}
