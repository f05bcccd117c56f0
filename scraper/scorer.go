package scraper

import (
	"math"
	"sort"
	"strings"

	"dealscout/config"
	"dealscout/models"
)

// Scorer ranks records by quality rather than price alone. Weights:
// rating 30, reviews 25, price value 20, discount 15, availability 5,
// brand/seller trust 5, for a nominal 0-100 scale.
type Scorer struct {
	trustedBrands       []string
	verifiedSellerWords []string
	accessoryKeywords   []string
}

// NewScorer builds a scorer from the configured vocabulary.
func NewScorer(vocab *config.Vocabulary) *Scorer {
	return &Scorer{
		trustedBrands:       vocab.TrustedBrands,
		verifiedSellerWords: vocab.VerifiedSellerWords,
		accessoryKeywords:   vocab.AccessoryKeywords,
	}
}

// Score computes the quality score of one record. maxPrice is the highest
// price among the records being compared and anchors the price-value
// component; budget is optional (0 means none).
func (s *Scorer) Score(rec *models.ProductRecord, budget, maxPrice float64) float64 {
	if rec == nil {
		return 0
	}
	score := 0.0

	// Rating: 5 stars is worth 30 points, with a bonus near the top.
	if rec.Rating > 0 {
		ratingScore := (rec.Rating / 5.0) * 30
		if rec.Rating >= 4.5 {
			ratingScore += 3
		} else if rec.Rating >= 4.0 {
			ratingScore += 1
		}
		score += ratingScore
	}

	// Review count on a banded log-like curve: 10 reviews earn 5 points,
	// 100 earn 12.5, 1000 earn 17.5, 10000+ earn the full 25.
	rc := float64(rec.ReviewCount)
	switch {
	case rc >= 10000:
		score += 25
	case rc >= 1000:
		score += 17.5 + ((rc-1000)/9000)*7.5
	case rc >= 100:
		score += 12.5 + ((rc-100)/900)*5
	case rc >= 10:
		score += 5 + ((rc-10)/90)*7.5
	case rc > 0:
		score += (rc / 10) * 5
	}

	// Price value relative to the most expensive record in the set.
	price := float64(rec.Price)
	if price > 0 && maxPrice > 0 {
		priceScore := (1 - price/maxPrice) * 20
		if budget > 0 {
			switch {
			case price <= budget:
				priceScore += 5
			case price <= budget*1.1:
				priceScore += 2
			case price > budget*1.3:
				priceScore -= 5
			}
		}
		score += math.Max(0, priceScore)
	} else if price > 0 {
		score += 10
	}

	// Discount: 50% off earns the full 15 points.
	if pct := DiscountPercent(rec.Price, rec.OriginalPrice, rec.Discount); pct > 0 {
		score += math.Min(15, (pct/50)*15)
	}

	// Availability, with a bonus for fast delivery promises.
	if rec.InStock {
		score += 3
		delivery := strings.ToLower(rec.DeliveryInfo)
		if delivery != "" {
			if containsAny(delivery, "today", "tomorrow", "1 day", "same day") {
				score += 2
			} else if containsAny(delivery, "2 days", "3 days", "this week") {
				score += 1
			}
		}
	}

	// Brand and seller trust.
	brand := strings.ToLower(rec.Brand)
	for _, tb := range s.trustedBrands {
		if strings.Contains(brand, tb) {
			score += 3
			break
		}
	}
	seller := strings.ToLower(rec.Seller)
	for _, w := range s.verifiedSellerWords {
		if strings.Contains(seller, w) {
			score += 2
			break
		}
	}

	// Accessory listings that slipped through the filter score lower.
	title := strings.ToLower(rec.Title)
	for _, kw := range s.accessoryKeywords {
		if strings.Contains(title, kw) {
			score *= 0.7
			break
		}
	}

	return math.Round(score*100) / 100
}

// Rank scores every usable record and returns the best pick, up to four
// alternatives, and the score spread.
func (s *Scorer) Rank(records []models.SourcedRecord, budget float64) models.RankedResult {
	valid := make([]models.SourcedRecord, 0, len(records))
	maxPrice := 0.0
	for _, r := range records {
		if r.Record.IsUsable() {
			valid = append(valid, r)
			if p := float64(r.Record.Price); p > maxPrice {
				maxPrice = p
			}
		}
	}
	if len(valid) == 0 {
		return models.RankedResult{Alternatives: []models.ScoredRecord{}}
	}

	scored := make([]models.ScoredRecord, 0, len(valid))
	for _, r := range valid {
		scored = append(scored, models.ScoredRecord{
			Source:       r.Source,
			Record:       r.Record,
			QualityScore: s.Score(r.Record, budget, maxPrice),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].QualityScore > scored[j].QualityScore
	})

	result := models.RankedResult{
		Best:           &scored[0],
		Alternatives:   []models.ScoredRecord{},
		TotalEvaluated: len(scored),
		ScoreMin:       scored[len(scored)-1].QualityScore,
		ScoreMax:       scored[0].QualityScore,
	}
	if len(scored) > 1 {
		end := len(scored)
		if end > 5 {
			end = 5
		}
		result.Alternatives = scored[1:end]
	}
	return result
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
