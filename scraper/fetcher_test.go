package scraper

import (
	"context"
	"sync"
	"testing"
	"time"

	"dealscout/config"
	"dealscout/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAdapter returns a canned outcome and records that it was called.
type stubAdapter struct {
	source  string
	outcome models.AdapterOutcome

	mu     sync.Mutex
	called bool
}

func (s *stubAdapter) Source() string { return s.source }

func (s *stubAdapter) FetchBest(ctx context.Context, query, pincode string) models.AdapterOutcome {
	s.mu.Lock()
	s.called = true
	s.mu.Unlock()
	return s.outcome
}

func (s *stubAdapter) wasCalled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.called
}

// panicAdapter blows up like a broken selector walk would.
type panicAdapter struct{ source string }

func (p *panicAdapter) Source() string { return p.source }
func (p *panicAdapter) FetchBest(ctx context.Context, query, pincode string) models.AdapterOutcome {
	panic("selector walk off a nil element")
}

// blockingAdapter waits for the context to expire.
type blockingAdapter struct{ source string }

func (b *blockingAdapter) Source() string { return b.source }
func (b *blockingAdapter) FetchBest(ctx context.Context, query, pincode string) models.AdapterOutcome {
	<-ctx.Done()
	return models.Failed(b.source, ctx.Err().Error())
}

func newStubEngine(timeout time.Duration, adapters map[string]SourceAdapter) *Engine {
	vocab := config.DefaultVocabulary()
	return &Engine{
		classifier: NewClassifier(vocab),
		scorer:     NewScorer(vocab),
		timeout:    timeout,
		adapters:   adapters,
	}
}

func record(url string, price int, title string) *models.ProductRecord {
	rec := models.NewProductRecord(url)
	rec.Title = title
	rec.Price = price
	return rec
}

func TestFetchDealsRoutesByCategory(t *testing.T) {
	adapters := map[string]SourceAdapter{}
	stubs := map[string]*stubAdapter{}
	for _, src := range models.AllSources() {
		stub := &stubAdapter{source: src, outcome: models.NotFound(src)}
		stubs[src] = stub
		adapters[src] = stub
	}
	e := newStubEngine(time.Minute, adapters)

	resp := e.FetchDeals(context.Background(), "laptop", "688524", 0)

	assert.Equal(t, models.CategoryElectronics, resp.Category)
	assert.True(t, stubs[models.SourceAmazon].wasCalled())
	assert.True(t, stubs[models.SourceFlipkart].wasCalled())
	assert.True(t, stubs[models.SourceCroma].wasCalled())
	assert.True(t, stubs[models.SourceReliance].wasCalled())
	assert.False(t, stubs[models.SourceAjio].wasCalled())
	assert.False(t, stubs[models.SourceSnapdeal].wasCalled())
	assert.Equal(t, 4, resp.Summary.SourcesQueried)
}

func TestFetchDealsMapAlwaysCarriesAllSources(t *testing.T) {
	adapters := map[string]SourceAdapter{}
	for _, src := range models.AllSources() {
		adapters[src] = &stubAdapter{source: src, outcome: models.NotFound(src)}
	}
	e := newStubEngine(time.Minute, adapters)

	resp := e.FetchDeals(context.Background(), "running shoes", "", 0)

	assert.Len(t, resp.Sources, len(models.AllSources()))
	for _, src := range models.AllSources() {
		rec, ok := resp.Sources[src]
		assert.True(t, ok, "missing key %s", src)
		assert.Nil(t, rec)
	}
	assert.Nil(t, resp.BestDeal)
	assert.Nil(t, resp.TopPick)
}

func TestFetchDealsPanicIsolation(t *testing.T) {
	adapters := map[string]SourceAdapter{
		models.SourceAmazon: &panicAdapter{source: models.SourceAmazon},
		models.SourceFlipkart: &stubAdapter{
			source:  models.SourceFlipkart,
			outcome: models.Found(models.SourceFlipkart, record("https://f/p", 42000, "Laptop")),
		},
		models.SourceCroma:    &stubAdapter{source: models.SourceCroma, outcome: models.NotFound(models.SourceCroma)},
		models.SourceReliance: &stubAdapter{source: models.SourceReliance, outcome: models.NotFound(models.SourceReliance)},
	}
	e := newStubEngine(time.Minute, adapters)

	resp := e.FetchDeals(context.Background(), "laptop", "", 0)

	bySource := map[string]models.AdapterOutcome{}
	for _, o := range resp.Outcomes {
		bySource[o.Source] = o
	}
	assert.Equal(t, models.OutcomeFailed, bySource[models.SourceAmazon].Status)
	assert.Contains(t, bySource[models.SourceAmazon].Reason, "panic")
	assert.Equal(t, models.OutcomeFound, bySource[models.SourceFlipkart].Status)

	require.NotNil(t, resp.BestDeal)
	assert.Equal(t, models.SourceFlipkart, resp.BestDeal.Source)
	assert.Equal(t, 1, resp.Summary.SourcesWithResult)
}

func TestFetchDealsHonorsTimeout(t *testing.T) {
	adapters := map[string]SourceAdapter{
		models.SourceAmazon:   &blockingAdapter{source: models.SourceAmazon},
		models.SourceFlipkart: &stubAdapter{source: models.SourceFlipkart, outcome: models.NotFound(models.SourceFlipkart)},
		models.SourceSnapdeal: &stubAdapter{source: models.SourceSnapdeal, outcome: models.NotFound(models.SourceSnapdeal)},
	}
	e := newStubEngine(50*time.Millisecond, adapters)

	done := make(chan *models.DealsResponse, 1)
	go func() {
		done <- e.FetchDeals(context.Background(), "water bottle", "", 0)
	}()

	select {
	case resp := <-done:
		bySource := map[string]models.AdapterOutcome{}
		for _, o := range resp.Outcomes {
			bySource[o.Source] = o
		}
		assert.Equal(t, models.OutcomeFailed, bySource[models.SourceAmazon].Status)
	case <-time.After(5 * time.Second):
		t.Fatal("fetch did not respect the deadline")
	}
}

func TestFetchDealsUnregisteredSource(t *testing.T) {
	// Only amazon registered; the other general-category sources must be
	// reported failed, not silently dropped.
	adapters := map[string]SourceAdapter{
		models.SourceAmazon: &stubAdapter{source: models.SourceAmazon, outcome: models.NotFound(models.SourceAmazon)},
	}
	e := newStubEngine(time.Minute, adapters)

	resp := e.FetchDeals(context.Background(), "water bottle", "", 0)

	assert.Len(t, resp.Outcomes, 3)
	failed := 0
	for _, o := range resp.Outcomes {
		if o.Status == models.OutcomeFailed {
			failed++
		}
	}
	assert.Equal(t, 2, failed)
}

func TestEngineStatus(t *testing.T) {
	adapters := map[string]SourceAdapter{}
	for _, src := range models.AllSources() {
		adapters[src] = &stubAdapter{source: src, outcome: models.NotFound(src)}
	}
	e := newStubEngine(time.Minute, adapters)

	assert.Zero(t, e.Status().TotalSearches)
	e.FetchDeals(context.Background(), "laptop", "", 0)
	st := e.Status()
	assert.Equal(t, 1, st.TotalSearches)
	assert.Equal(t, "laptop", st.LastQuery)
	assert.Equal(t, models.AllSources(), st.Sources)
}
