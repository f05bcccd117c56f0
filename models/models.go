package models

import (
	"time"
)

// PlaceholderImage is used when a source exposes no usable product image.
const PlaceholderImage = "https://placehold.co/300x400/EEE/31343C?text=No+Image"

// DeliveryUnknown is the sentinel for delivery fields we could not resolve.
const DeliveryUnknown = "unknown"

// Source identifiers. The set is closed: every SourceResultMap carries
// exactly these keys, queried or not.
const (
	SourceAmazon   = "amazon"
	SourceFlipkart = "flipkart"
	SourceSnapdeal = "snapdeal"
	SourceCroma    = "croma"
	SourceReliance = "reliance"
	SourceAjio     = "ajio"
)

// AllSources lists every known source id in a stable order.
func AllSources() []string {
	return []string{
		SourceAmazon,
		SourceFlipkart,
		SourceSnapdeal,
		SourceCroma,
		SourceReliance,
		SourceAjio,
	}
}

// Query categories produced by the classifier.
const (
	CategoryElectronics = "electronics"
	CategoryFashion     = "fashion"
	CategoryGeneral     = "general"
)

// ListingPreview is a lightweight search-result row. It lives only for the
// duration of one adapter call and is never persisted.
type ListingPreview struct {
	Source    string `json:"source"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	PriceText string `json:"price_text"`
	Price     int    `json:"price"`
	Image     string `json:"image"`
}

// ProductRecord is the authoritative per-source result. A record is either
// fully absent or present with URL non-empty and Price > 0; adapters never
// surface partial zero-price records.
type ProductRecord struct {
	URL            string            `json:"url"`
	Title          string            `json:"title"`
	Price          int               `json:"price"`
	OriginalPrice  int               `json:"original_price"`
	Discount       string            `json:"discount"`
	Rating         float64           `json:"rating"`
	ReviewCount    int               `json:"review_count"`
	Image          string            `json:"image"`
	Images         []string          `json:"images"`
	DeliveryDate   string            `json:"delivery_date"`
	DeliveryInfo   string            `json:"delivery_info"`
	Availability   string            `json:"availability"`
	InStock        bool              `json:"in_stock"`
	Brand          string            `json:"brand"`
	Description    string            `json:"description"`
	Features       []string          `json:"features"`
	Specifications map[string]string `json:"specifications"`
	Seller         string            `json:"seller"`
}

// NewProductRecord returns a record skeleton with defaults matching the
// extraction contract.
func NewProductRecord(url string) *ProductRecord {
	return &ProductRecord{
		URL:            url,
		Image:          PlaceholderImage,
		Images:         []string{},
		DeliveryDate:   DeliveryUnknown,
		DeliveryInfo:   DeliveryUnknown,
		Features:       []string{},
		Specifications: map[string]string{},
	}
}

// IsUsable reports whether the record satisfies the presence invariant.
func (p *ProductRecord) IsUsable() bool {
	return p != nil && p.URL != "" && p.Price > 0
}

// SourceResultMap maps every known source id to its record, or nil when the
// source produced nothing (not queried, no match, or failed).
type SourceResultMap map[string]*ProductRecord

// NewSourceResultMap returns a map pre-seeded with nil for every known
// source, so the key set is identical on every invocation.
func NewSourceResultMap() SourceResultMap {
	m := make(SourceResultMap, len(AllSources()))
	for _, s := range AllSources() {
		m[s] = nil
	}
	return m
}

// CountPresent returns how many sources hold a usable record.
func (m SourceResultMap) CountPresent() int {
	n := 0
	for _, rec := range m {
		if rec.IsUsable() {
			n++
		}
	}
	return n
}

// Adapter outcome statuses. NotFound and Failed both surface as an absent
// record in the SourceResultMap, but stay distinguishable for diagnostics
// and future retry policies.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "failed"
)

// AdapterOutcome is the tagged result of one adapter invocation.
type AdapterOutcome struct {
	Source string         `json:"source"`
	Status string         `json:"status"`
	Record *ProductRecord `json:"record,omitempty"`
	Reason string         `json:"reason,omitempty"`
}

// Found wraps a usable record in a found outcome.
func Found(source string, rec *ProductRecord) AdapterOutcome {
	return AdapterOutcome{Source: source, Status: OutcomeFound, Record: rec}
}

// NotFound marks an adapter run that completed without a qualifying match.
func NotFound(source string) AdapterOutcome {
	return AdapterOutcome{Source: source, Status: OutcomeNotFound}
}

// Failed marks an adapter run that broke (navigation, render, extraction).
func Failed(source, reason string) AdapterOutcome {
	return AdapterOutcome{Source: source, Status: OutcomeFailed, Reason: reason}
}

// ScoredRecord pairs a record with its source and quality score. Created
// only by the scorer, never persisted.
type ScoredRecord struct {
	Source       string         `json:"source"`
	Record       *ProductRecord `json:"record"`
	QualityScore float64        `json:"quality_score"`
}

// RankedResult is the scorer's ranking output.
type RankedResult struct {
	Best           *ScoredRecord  `json:"best"`
	Alternatives   []ScoredRecord `json:"alternatives"`
	TotalEvaluated int            `json:"total_evaluated"`
	ScoreMin       float64        `json:"score_min"`
	ScoreMax       float64        `json:"score_max"`
}

// SourcedRecord names the source of a record in aggregate output.
type SourcedRecord struct {
	Source string         `json:"source"`
	Record *ProductRecord `json:"record"`
}

// DealsSummary carries per-request summary statistics.
type DealsSummary struct {
	SourcesQueried    int `json:"sources_queried"`
	SourcesWithResult int `json:"sources_with_result"`
	MinPrice          int `json:"min_price"`
	MaxPrice          int `json:"max_price"`
}

// DealsResponse is the aggregate payload returned to callers. BestDeal is
// the lowest-price pick across present records; TopPick is the quality
// scorer's choice and may differ.
type DealsResponse struct {
	Query    string           `json:"query"`
	Pincode  string           `json:"pincode,omitempty"`
	Category string           `json:"category"`
	Sources  SourceResultMap  `json:"sources"`
	Outcomes []AdapterOutcome `json:"outcomes"`
	BestDeal *SourcedRecord   `json:"best_deal"`
	TopPick  *ScoredRecord    `json:"top_pick"`
	Summary  DealsSummary     `json:"summary"`
}

// SearchRecord is one persisted deal lookup with the per-source prices
// observed at fetch time.
type SearchRecord struct {
	ID            int       `json:"id" db:"id"`
	Query         string    `json:"query" db:"query"`
	Pincode       string    `json:"pincode" db:"pincode"`
	Category      string    `json:"category" db:"category"`
	AmazonPrice   *int      `json:"amazon_price" db:"amazon_price"`
	FlipkartPrice *int      `json:"flipkart_price" db:"flipkart_price"`
	SnapdealPrice *int      `json:"snapdeal_price" db:"snapdeal_price"`
	CromaPrice    *int      `json:"croma_price" db:"croma_price"`
	ReliancePrice *int      `json:"reliance_price" db:"reliance_price"`
	AjioPrice     *int      `json:"ajio_price" db:"ajio_price"`
	BestSource    string    `json:"best_source" db:"best_source"`
	BestPrice     *int      `json:"best_price" db:"best_price"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
