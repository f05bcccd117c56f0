package scraper

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"dealscout/models"

	"github.com/go-rod/rod"
)

// SourceAdapter fetches the single best listing a storefront has for a
// query. Implementations never return partial records: the outcome either
// carries a usable record or carries none.
type SourceAdapter interface {
	Source() string
	FetchBest(ctx context.Context, query, pincode string) models.AdapterOutcome
}

// siteAdapter is the shared storefront pipeline. Each source supplies its
// search URL, preview collection and detail extraction; the walk from
// search page to chosen record is identical everywhere.
type siteAdapter struct {
	source string
	filter *RelevanceFilter

	// minPrice rejects preview rows whose parsed price is implausibly low
	// for the storefront, which also guards against stray numeric matches
	// like percentages parsed out of promo text.
	minPrice int

	// maxDetailChecks caps how many sorted candidates get a detail-page
	// visit before the adapter falls back to preview data.
	maxDetailChecks int

	searchURL       func(query string) string
	collectPreviews func(page *rod.Page, query string) []models.ListingPreview
	extractDetail   func(page *rod.Page, rec *models.ProductRecord)

	// applyPincode is nil for storefronts without delivery-location input.
	applyPincode func(page *rod.Page, pincode string)
}

func (a *siteAdapter) Source() string { return a.source }

// FetchBest runs the full pipeline: search, filter, sort by price, visit
// candidates cheapest first, fall back to the cheapest preview when no
// detail page yields a usable record.
func (a *siteAdapter) FetchBest(ctx context.Context, query, pincode string) models.AdapterOutcome {
	session, err := NewSession(ctx)
	if err != nil {
		return models.Failed(a.source, fmt.Sprintf("session: %v", err))
	}
	defer session.Close()

	page, err := session.Open(ctx, a.searchURL(query))
	if err != nil {
		return models.Failed(a.source, err.Error())
	}
	defer page.Close()

	if a.applyPincode != nil && pincode != "" {
		a.applyPincode(page, pincode)
	}

	previews := a.collectPreviews(page, query)
	candidates := a.selectCandidates(previews, query)
	log.Printf("[%s] %d previews, %d candidates for %q", a.source, len(previews), len(candidates), query)
	if len(candidates) == 0 {
		return models.NotFound(a.source)
	}

	rec, err := a.bestRecord(ctx, candidates, func(p models.ListingPreview) *models.ProductRecord {
		return a.fetchDetail(ctx, session, p, query)
	})
	if err != nil {
		return models.Failed(a.source, err.Error())
	}
	if rec == nil {
		return models.NotFound(a.source)
	}
	return models.Found(a.source, rec)
}

// selectCandidates narrows preview rows to plausible product listings and
// sorts them cheapest first. Rows below the storefront's minimum price,
// without a URL, or failing the relevance gate are dropped.
func (a *siteAdapter) selectCandidates(previews []models.ListingPreview, query string) []models.ListingPreview {
	candidates := make([]models.ListingPreview, 0, len(previews))
	for _, p := range previews {
		if p.Price < a.minPrice || p.URL == "" {
			continue
		}
		if !a.filter.KeepListing(p.Title, query) {
			continue
		}
		candidates = append(candidates, p)
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Price < candidates[j].Price
	})
	return candidates
}

// bestRecord visits candidates cheapest first through fetch, taking the
// first usable record. When no detail fetch within the check budget pans
// out, the cheapest preview still names a real listing, so it is surfaced
// with preview-level fields only. A context error aborts the walk.
func (a *siteAdapter) bestRecord(ctx context.Context, candidates []models.ListingPreview, fetch func(models.ListingPreview) *models.ProductRecord) (*models.ProductRecord, error) {
	limit := a.maxDetailChecks
	if limit > len(candidates) {
		limit = len(candidates)
	}
	for i := 0; i < limit; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if rec := fetch(candidates[i]); rec.IsUsable() {
			return rec, nil
		}
	}

	if rec := recordFromPreview(candidates[0]); rec.IsUsable() {
		log.Printf("[%s] falling back to preview data", a.source)
		return rec, nil
	}
	return nil, nil
}

// fetchDetail opens one candidate's product page and extracts the full
// record. The detail title gets a second relevance pass because search
// rows sometimes link to variant or accessory pages.
func (a *siteAdapter) fetchDetail(ctx context.Context, session *Session, preview models.ListingPreview, query string) *models.ProductRecord {
	page, err := session.Open(ctx, preview.URL)
	if err != nil {
		log.Printf("[%s] detail open failed: %v", a.source, err)
		return nil
	}
	defer page.Close()

	rec := recordFromPreview(preview)
	a.extractDetail(page, rec)

	if rec.Title != preview.Title && rec.Title != "" {
		if !a.filter.KeepListing(rec.Title, query) {
			log.Printf("[%s] detail title rejected: %q", a.source, rec.Title)
			return nil
		}
	}
	return rec
}

// recordFromPreview seeds a record with whatever the search row exposed.
func recordFromPreview(p models.ListingPreview) *models.ProductRecord {
	rec := models.NewProductRecord(p.URL)
	rec.Title = p.Title
	rec.Price = p.Price
	if p.Image != "" {
		rec.Image = p.Image
	}
	return rec
}

// firstText returns the trimmed text of the first selector that matches.
func firstText(page *rod.Page, selectors ...string) string {
	for _, sel := range selectors {
		has, el, err := page.Has(sel)
		if err != nil || !has {
			continue
		}
		if t, err := el.Text(); err == nil {
			if t = strings.TrimSpace(t); t != "" {
				return t
			}
		}
	}
	return ""
}

// firstAttr returns the named attribute of the first selector that matches.
func firstAttr(page *rod.Page, attr string, selectors ...string) string {
	for _, sel := range selectors {
		has, el, err := page.Has(sel)
		if err != nil || !has {
			continue
		}
		if v, err := el.Attribute(attr); err == nil && v != nil && *v != "" {
			return *v
		}
	}
	return ""
}

// childText returns the trimmed text of the first matching child selector.
func childText(el *rod.Element, selectors ...string) string {
	for _, sel := range selectors {
		has, child, err := el.Has(sel)
		if err != nil || !has {
			continue
		}
		if t, err := child.Text(); err == nil {
			if t = strings.TrimSpace(t); t != "" {
				return t
			}
		}
	}
	return ""
}

// childAttr returns the named attribute of the first matching child selector.
func childAttr(el *rod.Element, attr string, selectors ...string) string {
	for _, sel := range selectors {
		has, child, err := el.Has(sel)
		if err != nil || !has {
			continue
		}
		if v, err := child.Attribute(attr); err == nil && v != nil && *v != "" {
			return *v
		}
	}
	return ""
}

// absoluteURL joins a possibly relative href onto the storefront base.
func absoluteURL(base, href string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	return base + href
}
