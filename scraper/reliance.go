package scraper

import (
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"dealscout/models"

	"github.com/go-rod/rod"
)

const relianceBase = "https://www.reliancedigital.in"

// relianceCardsJS collects product cards from the hydrated SPA grid.
const relianceCardsJS = `() => {
	const out = [];
	const seen = new Set();
	const candidates = Array.from(document.querySelectorAll(
		'a[href*="/pd/"], a[href*="/p/"], a[href*="/product/"], [data-testid*="product"], .product-card, .sp__product, [class*="ProductCard"]'
	));
	for (const el of candidates) {
		try {
			const linkEl = el.tagName === 'A' ? el : (el.querySelector('a[href*="/pd/"]') || el.querySelector('a[href*="/p/"]') || el.querySelector('a'));
			if (!linkEl) continue;
			let href = linkEl.href || linkEl.getAttribute('href') || '';
			if (!href) continue;
			if (href.startsWith('/')) href = window.location.origin + href;
			if (!href.includes('reliancedigital.in') || seen.has(href)) continue;
			seen.add(href);

			let title = '';
			const titleEl = el.querySelector('.sp__name, .product__title, [class*="ProductTitle"], h3, h2, .product-name') || linkEl;
			if (titleEl) title = (titleEl.innerText || titleEl.textContent || '').trim();

			let price_text = '';
			const priceEl = el.querySelector('.sp__price, .price, [class*="Price"], .product__price, .final-price');
			if (priceEl) price_text = (priceEl.innerText || priceEl.textContent || '').trim();
			if (!price_text) {
				const m = (el.innerText || '').match(/₹[\d,\. ]+/);
				if (m) price_text = m[0];
			}

			let image = '';
			const img = el.querySelector('img') || linkEl.querySelector('img');
			if (img) image = img.src || img.getAttribute('data-src') || '';
			if (image && image.startsWith('//')) image = window.location.protocol + image;

			out.push({url: href, title: title, price_text: price_text, image: image});
		} catch (e) {}
	}
	return out;
}`

// relianceProductLD mirrors the JSON-LD Product shape the site publishes.
type relianceProductLD struct {
	Type  string `json:"@type"`
	Name  string `json:"name"`
	Brand any    `json:"brand"`
	Image any    `json:"image"`
	Desc  string `json:"description"`

	Offers any `json:"offers"`

	AggregateRating *struct {
		RatingValue any `json:"ratingValue"`
		ReviewCount any `json:"reviewCount"`
	} `json:"aggregateRating"`
}

// NewRelianceAdapter returns the reliancedigital.in adapter.
func NewRelianceAdapter(filter *RelevanceFilter, maxDetailChecks int) SourceAdapter {
	a := &siteAdapter{
		source:          models.SourceReliance,
		filter:          filter,
		minPrice:        1000,
		maxDetailChecks: maxDetailChecks,
		searchURL: func(query string) string {
			return relianceBase + "/search?q=" + url.QueryEscape(query)
		},
	}
	a.collectPreviews = relianceCollectPreviews
	a.extractDetail = relianceExtractDetail
	return a
}

func relianceCollectPreviews(page *rod.Page, query string) []models.ListingPreview {
	for i := 0; i < 12; i++ {
		page.Eval("() => window.scrollBy(0, document.body.scrollHeight)")
		time.Sleep(900 * time.Millisecond)
		page.Eval("() => window.scrollBy(0, -50)")
	}

	previews := []models.ListingPreview{}
	res, err := page.Eval(relianceCardsJS)
	if err != nil {
		return nil
	}
	for _, item := range res.Value.Arr() {
		link := item.Get("url").Str()
		if link == "" {
			continue
		}
		priceText := strings.TrimSpace(item.Get("price_text").Str())
		previews = append(previews, models.ListingPreview{
			Source:    models.SourceReliance,
			URL:       link,
			Title:     strings.TrimSpace(item.Get("title").Str()),
			PriceText: priceText,
			Price:     CleanPrice(priceText),
			Image:     item.Get("image").Str(),
		})
	}
	return previews
}

func relianceExtractDetail(page *rod.Page, rec *models.ProductRecord) {
	relianceApplyJSONLD(page, rec)

	if rec.Title == "" {
		rec.Title = firstText(page, "h1.pdp__title", "h1[class*='title']", "h1", ".product-name")
	}
	if rec.Brand == "" {
		if b := firstText(page, ".pdp__brand", ".product-brand"); b != "" && len(b) < 100 {
			rec.Brand = b
		}
	}

	// The page is littered with rupee amounts (EMI offers, MRP, exchange
	// bonuses). Collect short price-bearing texts, drop the offer noise
	// and take the lowest plausible value as the selling price.
	if rec.Price == 0 {
		res, err := page.Eval(`() => {
			const out = [];
			const nodes = Array.from(document.querySelectorAll('span, div, p, strong'));
			for (const n of nodes) {
				const txt = n.innerText || '';
				if (!txt || txt.indexOf('₹') === -1 || txt.length > 120) continue;
				out.push(txt.trim());
			}
			return out.slice(0, 80);
		}`)
		if err == nil {
			candidates := []int{}
			for _, item := range res.Value.Arr() {
				txt := item.Str()
				lower := strings.ToLower(txt)
				if strings.Contains(lower, "emi") || strings.Contains(lower, "/mo") ||
					strings.Contains(lower, "month") || strings.Contains(lower, "mrp") ||
					strings.Contains(lower, "save") || strings.Contains(lower, "exchange") {
					continue
				}
				if v := CleanPrice(txt); v > 1000 && v < 10000000 {
					candidates = append(candidates, v)
				}
			}
			if len(candidates) > 0 {
				sort.Ints(candidates)
				rec.Price = candidates[0]
			}
		}
	}

	if rec.OriginalPrice == 0 {
		if mrp := CleanPrice(firstText(page, "span[class*='strike']", "span[class*='old']", "span.pdp__mrp")); mrp > rec.Price {
			rec.OriginalPrice = mrp
		}
	}
	if rec.Discount == "" {
		if d := firstText(page, "span[class*='discount']", "div[class*='discount']"); d != "" && len(d) < 120 {
			rec.Discount = d
		}
	}

	if len(rec.Images) == 0 {
		if res, err := page.Eval(`() => {
			const out = [];
			for (const img of document.querySelectorAll('img')) {
				const src = img.src || img.getAttribute('data-src') || '';
				if (!src || /thumb|icon|logo|50x50|100x100/i.test(src)) continue;
				out.push(src.startsWith('//') ? window.location.protocol + src : src);
			}
			return Array.from(new Set(out)).slice(0, 8);
		}`); err == nil {
			for _, item := range res.Value.Arr() {
				rec.Images = append(rec.Images, item.Str())
			}
		}
	}
	if rec.Image == models.PlaceholderImage && len(rec.Images) > 0 {
		rec.Image = rec.Images[0]
	}

	bodyText := pageBodyText(page)
	if rec.Rating == 0 {
		rec.Rating = ParseRating(bodyText)
	}
	lower := strings.ToLower(bodyText)
	if rec.Availability == "" {
		rec.InStock = !strings.Contains(lower, "out of stock") && !strings.Contains(lower, "sold out")
		if rec.InStock {
			rec.Availability = "In stock"
		} else {
			rec.Availability = "Out of stock"
		}
	}
	if d := deliveryLine(bodyText); d != "" {
		rec.DeliveryInfo = d
		rec.DeliveryDate = d
	}

	rec.Seller = "Reliance Digital"
}

// relianceApplyJSONLD fills the record from the page's JSON-LD Product
// block when one parses.
func relianceApplyJSONLD(page *rod.Page, rec *models.ProductRecord) {
	res, err := page.Eval(`() =>
		Array.from(document.querySelectorAll('script[type="application/ld+json"]')).map(s => s.textContent)
	`)
	if err != nil {
		return
	}
	for _, item := range res.Value.Arr() {
		raw := item.Str()
		if raw == "" {
			continue
		}
		var ld relianceProductLD
		if err := json.Unmarshal([]byte(raw), &ld); err != nil {
			var list []relianceProductLD
			if err := json.Unmarshal([]byte(raw), &list); err != nil {
				continue
			}
			for _, d := range list {
				if strings.EqualFold(d.Type, "product") {
					ld = d
					break
				}
			}
		}
		if !strings.EqualFold(ld.Type, "product") {
			continue
		}

		if ld.Name != "" {
			rec.Title = ld.Name
		}
		switch b := ld.Brand.(type) {
		case string:
			rec.Brand = b
		case map[string]any:
			if name, ok := b["name"].(string); ok {
				rec.Brand = name
			}
		}
		if ld.Desc != "" {
			rec.Description = ld.Desc
		}
		switch img := ld.Image.(type) {
		case string:
			rec.Image = img
		case []any:
			for _, v := range img {
				if s, ok := v.(string); ok {
					rec.Images = append(rec.Images, s)
				}
			}
			if len(rec.Images) > 0 {
				rec.Image = rec.Images[0]
			}
		}

		offer := map[string]any{}
		switch o := ld.Offers.(type) {
		case map[string]any:
			offer = o
		case []any:
			if len(o) > 0 {
				if m, ok := o[0].(map[string]any); ok {
					offer = m
				}
			}
		}
		if len(offer) > 0 {
			if p := ldNumber(offer["price"]); p > 0 {
				rec.Price = int(p)
			}
			if avail, ok := offer["availability"].(string); ok {
				rec.InStock = strings.Contains(strings.ToLower(avail), "instock")
				if rec.InStock {
					rec.Availability = "In stock"
				}
			}
		}
		if ld.AggregateRating != nil {
			rec.Rating = ldNumber(ld.AggregateRating.RatingValue)
			rec.ReviewCount = int(ldNumber(ld.AggregateRating.ReviewCount))
		}
		return
	}
}

// ldNumber coerces JSON-LD numeric fields that arrive as number or string.
func ldNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
	}
	return 0
}
