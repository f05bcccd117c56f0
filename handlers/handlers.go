package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"dealscout/database"
	"dealscout/models"
	"dealscout/repository"
	"dealscout/scraper"
)

type Handlers struct {
	engine     *scraper.Engine
	searchRepo *repository.SearchRepository
}

func NewHandlers(engine *scraper.Engine, searchRepo *repository.SearchRepository) *Handlers {
	return &Handlers{
		engine:     engine,
		searchRepo: searchRepo,
	}
}

var pincodeRe = regexp.MustCompile(`^\d{6}$`)

// parseDealsQuery validates the common query parameters for deal lookups.
func parseDealsQuery(r *http.Request) (query, pincode string, budget float64, errMsg string) {
	query = strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		return "", "", 0, "query parameter 'q' is required"
	}
	if len(query) > 200 {
		return "", "", 0, "query too long"
	}

	pincode = strings.TrimSpace(r.URL.Query().Get("pincode"))
	if pincode != "" && !pincodeRe.MatchString(pincode) {
		return "", "", 0, "pincode must be 6 digits"
	}

	if b := r.URL.Query().Get("budget"); b != "" {
		v, err := strconv.ParseFloat(b, 64)
		if err != nil || v < 0 {
			return "", "", 0, "budget must be a non-negative number"
		}
		budget = v
	}
	return query, pincode, budget, ""
}

// GetDeals runs a full discovery pass and returns the per-source results
// with the lowest-price best deal.
func (h *Handlers) GetDeals(w http.ResponseWriter, r *http.Request) {
	query, pincode, budget, errMsg := parseDealsQuery(r)
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	resp := h.engine.FetchDeals(r.Context(), query, pincode, budget)
	h.recordSearch(resp)
	writeJSON(w, http.StatusOK, resp)
}

// GetRankedDeals runs a discovery pass and returns the quality ranking
// alongside the raw per-source results.
func (h *Handlers) GetRankedDeals(w http.ResponseWriter, r *http.Request) {
	query, pincode, budget, errMsg := parseDealsQuery(r)
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	resp := h.engine.FetchDeals(r.Context(), query, pincode, budget)
	h.recordSearch(resp)

	ranked := h.engine.RankResponse(resp, budget)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":    resp.Query,
		"category": resp.Category,
		"ranking":  ranked,
		"sources":  resp.Sources,
		"summary":  resp.Summary,
	})
}

// recordSearch persists the lookup when a database is attached. Failures
// are logged, not surfaced; persistence never blocks a response.
func (h *Handlers) recordSearch(resp *models.DealsResponse) {
	if database.DB == nil {
		return
	}
	if _, err := h.searchRepo.RecordSearch(resp); err != nil {
		log.Printf("Failed to record search: %v", err)
	}
}

// GetSearches returns recent search history, optionally filtered by query
// text via ?q=.
func (h *Handlers) GetSearches(w http.ResponseWriter, r *http.Request) {
	if database.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "search history is not enabled")
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil {
			limit = n
		}
	}

	var (
		searches []models.SearchRecord
		err      error
	)
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		searches, err = h.searchRepo.GetSearchesByQuery(q, limit)
	} else {
		searches, err = h.searchRepo.GetRecentSearches(limit)
	}
	if err != nil {
		log.Printf("Failed to get searches: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get searches")
		return
	}
	if searches == nil {
		searches = []models.SearchRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"searches": searches,
		"count":    len(searches),
	})
}

// GetSources describes the known sources and category routing.
func (h *Handlers) GetSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sources": models.AllSources(),
		"routing": map[string][]string{
			models.CategoryElectronics: scraper.ActiveSources(models.CategoryElectronics),
			models.CategoryFashion:     scraper.ActiveSources(models.CategoryFashion),
			models.CategoryGeneral:     scraper.ActiveSources(models.CategoryGeneral),
		},
	})
}

// Classify previews the category a query would route to without scraping.
func (h *Handlers) Classify(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	category := h.engine.Classify(query)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":    query,
		"category": category,
		"sources":  scraper.ActiveSources(category),
	})
}

// EngineStatus exposes the engine's run counters.
func (h *Handlers) EngineStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Status())
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
