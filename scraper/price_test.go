package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanPrice(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"indian grouping", "₹1,29,900", 129900},
		{"rs prefix", "Rs. 1,234", 1234},
		{"plain number", "999", 999},
		{"decimal truncated", "₹999.99", 999},
		{"empty", "", 0},
		{"no digits", "price unavailable", 0},
		{"embedded in text", "M.R.P.: ₹45,999", 45999},
		{"non-breaking space", "₹\u00a01,29,900", 129900},
		{"percentage text", "Save 20%", 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanPrice(tt.in))
		})
	}
}

func TestCleanPriceNeverNegative(t *testing.T) {
	inputs := []string{"-500", "₹-1,000", "--", "0", "abc-123"}
	for _, in := range inputs {
		assert.GreaterOrEqual(t, CleanPrice(in), 0, "input %q", in)
	}
}

func TestParseRating(t *testing.T) {
	assert.Equal(t, 4.3, ParseRating("4.3 out of 5 stars"))
	assert.Equal(t, 4.3, ParseRating("4.3/5"))
	assert.Equal(t, 4.3, ParseRating("4.3"))
	assert.Equal(t, 0.0, ParseRating("9.3"))
	assert.Equal(t, 0.0, ParseRating(""))
	assert.Equal(t, 0.0, ParseRating("no rating yet"))
}

func TestParseReviewCount(t *testing.T) {
	assert.Equal(t, 128439, ParseReviewCount("1,28,439 ratings"))
	assert.Equal(t, 567, ParseReviewCount("567 Reviews"))
	assert.Equal(t, 0, ParseReviewCount(""))
	assert.Equal(t, 0, ParseReviewCount("be the first to review"))
}

func TestDiscountPercent(t *testing.T) {
	assert.InDelta(t, 20.0, DiscountPercent(80, 100, ""), 0.01)
	assert.Equal(t, 18.0, DiscountPercent(100, 0, "18% off"))
	assert.Equal(t, 0.0, DiscountPercent(100, 90, ""))
	assert.Equal(t, 0.0, DiscountPercent(100, 0, "great deal"))
	// Computed percentage wins over the text when both are present.
	assert.InDelta(t, 50.0, DiscountPercent(50, 100, "18% off"), 0.01)
}
