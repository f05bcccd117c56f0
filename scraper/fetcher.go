package scraper

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"dealscout/config"
	"dealscout/models"
)

// Engine classifies a query, fans out to the storefront adapters for its
// category and aggregates their outcomes.
type Engine struct {
	classifier *Classifier
	scorer     *Scorer
	adapters   map[string]SourceAdapter
	timeout    time.Duration

	mu             sync.Mutex
	totalSearches  int
	lastQuery      string
	lastDuration   time.Duration
	lastFinishedAt time.Time
}

// NewEngine wires the full adapter set from configuration.
func NewEngine(cfg *config.Config) *Engine {
	vocab := config.DefaultVocabulary()
	filter := NewRelevanceFilter(vocab)
	return &Engine{
		classifier: NewClassifier(vocab),
		scorer:     NewScorer(vocab),
		timeout:    cfg.ScrapeTimeout,
		adapters: map[string]SourceAdapter{
			models.SourceAmazon:   NewAmazonAdapter(filter, cfg.MaxDetailChecks),
			models.SourceFlipkart: NewFlipkartAdapter(filter, cfg.MaxDetailChecks),
			models.SourceSnapdeal: NewSnapdealAdapter(filter, cfg.MaxDetailChecks),
			models.SourceCroma:    NewCromaAdapter(filter, cfg.MaxDetailChecks),
			models.SourceReliance: NewRelianceAdapter(filter, cfg.MaxDetailChecks),
			models.SourceAjio:     NewAjioAdapter(filter, cfg.MaxDetailChecks),
		},
	}
}

// Classify exposes the engine's category decision for a query.
func (e *Engine) Classify(query string) string {
	return e.classifier.Classify(query)
}

// FetchDeals runs one full discovery pass: classify, query the category's
// sources concurrently, pick the best deal and the quality top pick.
func (e *Engine) FetchDeals(ctx context.Context, query, pincode string, budget float64) *models.DealsResponse {
	started := time.Now()
	category := e.classifier.Classify(query)
	sources := ActiveSources(category)
	log.Printf("fetching %q (category %s) from %v", query, category, sources)

	outcomes := e.fetchAll(ctx, sources, query, pincode)
	resp := BuildResponse(query, pincode, category, sources, outcomes, e.scorer, budget)

	elapsed := time.Since(started)
	log.Printf("finished %q in %s: %d/%d sources returned a record",
		query, elapsed.Round(time.Millisecond), resp.Summary.SourcesWithResult, resp.Summary.SourcesQueried)

	e.mu.Lock()
	e.totalSearches++
	e.lastQuery = query
	e.lastDuration = elapsed
	e.lastFinishedAt = time.Now()
	e.mu.Unlock()

	return resp
}

// fetchAll runs every named adapter in its own worker under one shared
// deadline. A panicking adapter is contained and reported as a failed
// outcome; it never takes the other sources down.
func (e *Engine) fetchAll(ctx context.Context, sources []string, query, pincode string) []models.AdapterOutcome {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	outcomes := make([]models.AdapterOutcome, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		adapter, ok := e.adapters[src]
		if !ok {
			outcomes[i] = models.Failed(src, "no adapter registered")
			continue
		}
		wg.Add(1)
		go func(i int, adapter SourceAdapter) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[%s] adapter panic: %v", adapter.Source(), r)
					outcomes[i] = models.Failed(adapter.Source(), fmt.Sprintf("panic: %v", r))
				}
			}()
			outcomes[i] = adapter.FetchBest(ctx, query, pincode)
		}(i, adapter)
	}
	wg.Wait()
	return outcomes
}

// RankResponse re-ranks a response's present records by quality score.
func (e *Engine) RankResponse(resp *models.DealsResponse, budget float64) models.RankedResult {
	sourced := make([]models.SourcedRecord, 0, len(resp.Sources))
	for _, src := range models.AllSources() {
		if rec := resp.Sources[src]; rec.IsUsable() {
			sourced = append(sourced, models.SourcedRecord{Source: src, Record: rec})
		}
	}
	return e.scorer.Rank(sourced, budget)
}

// EngineStatus is a snapshot of the engine's run counters.
type EngineStatus struct {
	TotalSearches  int       `json:"total_searches"`
	LastQuery      string    `json:"last_query,omitempty"`
	LastDurationMS int64     `json:"last_duration_ms"`
	LastFinishedAt time.Time `json:"last_finished_at"`
	Sources        []string  `json:"sources"`
}

// Status reports run counters and the registered source set.
func (e *Engine) Status() EngineStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return EngineStatus{
		TotalSearches:  e.totalSearches,
		LastQuery:      e.lastQuery,
		LastDurationMS: e.lastDuration.Milliseconds(),
		LastFinishedAt: e.lastFinishedAt,
		Sources:        models.AllSources(),
	}
}
