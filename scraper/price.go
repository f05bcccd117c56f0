package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

// priceDigitsRe finds the first digit run with optional Indian-style comma
// grouping and an optional decimal group, e.g. "1,29,900" or "999.00".
var priceDigitsRe = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

var priceCleaner = strings.NewReplacer("₹", "", "Rs.", "", "Rs", "", "\u00a0", " ")

// CleanPrice extracts the integer rupee value from arbitrary price text:
// "₹1,29,900" -> 129900. It is total: any input yields a non-negative
// integer, 0 when nothing parseable is present. Decimal paise are
// truncated, not rounded.
//
// Known quirk: text like "Save 20%" parses to 20, because the first digit
// run wins. Callers guard against such stray matches with per-source
// minimum price thresholds rather than here.
func CleanPrice(text string) int {
	if text == "" {
		return 0
	}
	s := priceCleaner.Replace(text)
	m := priceDigitsRe.FindString(s)
	if m == "" {
		return 0
	}
	m = strings.ReplaceAll(m, ",", "")
	if i := strings.IndexByte(m, '.'); i >= 0 {
		m = m[:i]
	}
	n, err := strconv.Atoi(m)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ratingRe matches "4.3 out of 5" and "4.3/5" style rating text.
var ratingRe = regexp.MustCompile(`([\d.]+)\s*(?:out of|/)\s*5`)

// ParseRating extracts a star rating from text like "4.3 out of 5 stars".
// Returns 0 when no rating in the 0-5 range is present.
func ParseRating(text string) float64 {
	if m := ratingRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v >= 0 && v <= 5 {
			return v
		}
	}
	// Bare "4.3" is accepted only when the whole trimmed text is a number.
	trimmed := strings.TrimSpace(text)
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil && v >= 0 && v <= 5 {
		return v
	}
	return 0
}

var (
	groupedDigitsRe = regexp.MustCompile(`[\d,]+`)
	discountNumRe   = regexp.MustCompile(`(\d+)`)
)

// ParseReviewCount extracts a grouped-digit count from text like
// "1,28,439 ratings". Returns 0 when no digits are present.
func ParseReviewCount(text string) int {
	m := groupedDigitsRe.FindString(text)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// DiscountPercent derives the discount percentage from original/current
// prices, falling back to the first number in free-text discount like
// "18% off". Returns 0 when neither source yields one.
func DiscountPercent(price, originalPrice int, discountText string) float64 {
	if originalPrice > price && price > 0 {
		return float64(originalPrice-price) / float64(originalPrice) * 100
	}
	if strings.Contains(discountText, "%") {
		if m := discountNumRe.FindStringSubmatch(discountText); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return float64(n)
			}
		}
	}
	return 0
}
