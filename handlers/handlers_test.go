package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dealscout/config"
	"dealscout/models"
	"dealscout/repository"
	"dealscout/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandlers() *Handlers {
	engine := scraper.NewEngine(config.Load())
	return NewHandlers(engine, repository.NewSearchRepository())
}

func TestGetDealsRequiresQuery(t *testing.T) {
	h := newTestHandlers()

	req := httptest.NewRequest("GET", "/api/v1/deals", nil)
	rr := httptest.NewRecorder()
	h.GetDeals(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "'q' is required")
}

func TestGetDealsRejectsBadPincode(t *testing.T) {
	h := newTestHandlers()

	for _, pin := range []string{"1234", "abcdef", "1234567"} {
		req := httptest.NewRequest("GET", "/api/v1/deals?q=laptop&pincode="+pin, nil)
		rr := httptest.NewRecorder()
		h.GetDeals(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code, "pincode %q should be rejected", pin)
	}
}

func TestGetDealsRejectsBadBudget(t *testing.T) {
	h := newTestHandlers()

	for _, budget := range []string{"-100", "abc"} {
		req := httptest.NewRequest("GET", "/api/v1/deals?q=laptop&budget="+budget, nil)
		rr := httptest.NewRecorder()
		h.GetDeals(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code, "budget %q should be rejected", budget)
	}
}

func TestClassifyHandler(t *testing.T) {
	h := newTestHandlers()

	req := httptest.NewRequest("GET", "/api/v1/classify?q=gaming+laptop", nil)
	rr := httptest.NewRecorder()
	h.Classify(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Query    string   `json:"query"`
		Category string   `json:"category"`
		Sources  []string `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "gaming laptop", body.Query)
	assert.Equal(t, models.CategoryElectronics, body.Category)
	assert.Contains(t, body.Sources, models.SourceCroma)
	assert.NotContains(t, body.Sources, models.SourceAjio)
}

func TestClassifyHandlerRequiresQuery(t *testing.T) {
	h := newTestHandlers()

	req := httptest.NewRequest("GET", "/api/v1/classify", nil)
	rr := httptest.NewRecorder()
	h.Classify(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetSources(t *testing.T) {
	h := newTestHandlers()

	req := httptest.NewRequest("GET", "/api/v1/sources", nil)
	rr := httptest.NewRecorder()
	h.GetSources(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Sources []string            `json:"sources"`
		Routing map[string][]string `json:"routing"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Len(t, body.Sources, 6)
	assert.Len(t, body.Routing[models.CategoryElectronics], 4)
	assert.Len(t, body.Routing[models.CategoryFashion], 4)
	assert.Len(t, body.Routing[models.CategoryGeneral], 3)
}

func TestGetSearchesWithoutDatabase(t *testing.T) {
	h := newTestHandlers()

	req := httptest.NewRequest("GET", "/api/v1/searches", nil)
	rr := httptest.NewRecorder()
	h.GetSearches(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestEngineStatusHandler(t *testing.T) {
	h := newTestHandlers()

	req := httptest.NewRequest("GET", "/status", nil)
	rr := httptest.NewRecorder()
	h.EngineStatus(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		TotalSearches int      `json:"total_searches"`
		Sources       []string `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Zero(t, body.TotalSearches)
	assert.Equal(t, models.AllSources(), body.Sources)
}
