package scraper

import (
	"log"
	"net/url"
	"strings"
	"time"

	"dealscout/models"

	"github.com/go-rod/rod"
)

const cromaBase = "https://www.croma.com"

// cromaTilesJS pulls product tiles out of shadow roots; Croma renders its
// grid as custom elements whose content is invisible to plain selectors.
const cromaTilesJS = `() => {
	const tiles = Array.from(document.querySelectorAll('cc-product-tile, product-tile, croma-product-tile'));
	const out = [];
	for (const t of tiles) {
		try {
			const root = t.shadowRoot || t;
			const linkEl = root.querySelector('a[href]') || root.querySelector('a.product__link') || root.querySelector('a');
			const titleEl = root.querySelector('.product__title, .product-title, .prd-title, .title') || root.querySelector('h3') || root.querySelector('h2');
			const priceEl = root.querySelector('.product__price, .price, .prd-price, .product-price') || root.querySelector('[data-test="product-price"]') || root.querySelector('span');
			const imgEl = root.querySelector('img') || root.querySelector('picture img');
			out.push({
				link: linkEl ? (linkEl.href || linkEl.getAttribute('href') || '') : '',
				title: titleEl ? (titleEl.innerText || '') : '',
				price_text: priceEl ? (priceEl.innerText || '') : '',
				image: imgEl ? (imgEl.src || imgEl.getAttribute('data-src') || '') : '',
			});
		} catch (e) {}
	}
	return out;
}`

// NewCromaAdapter returns the croma.com adapter. The high price floor
// matches Croma's electronics-only catalog and shields against promo text
// parsed as a price.
func NewCromaAdapter(filter *RelevanceFilter, maxDetailChecks int) SourceAdapter {
	a := &siteAdapter{
		source:          models.SourceCroma,
		filter:          filter,
		minPrice:        500,
		maxDetailChecks: maxDetailChecks,
		searchURL: func(query string) string {
			q := url.QueryEscape(query)
			return cromaBase + "/searchB?q=" + q + "%3Arelevance&text=" + q
		},
	}
	a.collectPreviews = cromaCollectPreviews
	a.extractDetail = cromaExtractDetail
	return a
}

func cromaCollectPreviews(page *rod.Page, query string) []models.ListingPreview {
	// The grid hydrates lazily; scroll most of a viewport at a time.
	for i := 0; i < 8; i++ {
		page.Eval("() => window.scrollBy(0, window.innerHeight * 0.9)")
		time.Sleep(600 * time.Millisecond)
	}

	previews := []models.ListingPreview{}
	if res, err := page.Eval(cromaTilesJS); err == nil {
		for _, item := range res.Value.Arr() {
			link := item.Get("link").Str()
			if link == "" || (!strings.HasPrefix(link, "http") && !strings.HasPrefix(link, "/")) {
				continue
			}
			priceText := strings.TrimSpace(item.Get("price_text").Str())
			previews = append(previews, models.ListingPreview{
				Source:    models.SourceCroma,
				URL:       absoluteURL(cromaBase, link),
				Title:     strings.TrimSpace(item.Get("title").Str()),
				PriceText: priceText,
				Price:     CleanPrice(priceText),
				Image:     item.Get("image").Str(),
			})
		}
	}
	if len(previews) > 0 {
		return previews
	}

	// Some result pages render plain anchors instead of shadow tiles.
	log.Printf("[croma] no shadow tiles, falling back to anchors")
	anchors, err := page.Elements("a[href*='/p/']")
	if err != nil {
		return nil
	}
	seen := map[string]bool{}
	for _, a := range anchors {
		v, err := a.Attribute("href")
		if err != nil || v == nil || *v == "" || seen[*v] {
			continue
		}
		seen[*v] = true
		title, _ := a.Text()
		previews = append(previews, models.ListingPreview{
			Source: models.SourceCroma,
			URL:    absoluteURL(cromaBase, *v),
			Title:  strings.TrimSpace(title),
		})
	}
	return previews
}

func cromaExtractDetail(page *rod.Page, rec *models.ProductRecord) {
	if t := firstText(page, "h1", "h2.pdp-title"); t != "" {
		rec.Title = t
	}

	// Several elements carry rupee amounts (savings banners, MRP). Collect
	// plausible candidates and keep the highest; savings lines parse lower
	// than the sticker price.
	best := 0
	for _, sel := range []string{"span.amount", "span.new-price", "div.pdp-price span", "span[data-testid='new-price']"} {
		txt := firstText(page, sel)
		lower := strings.ToLower(txt)
		if strings.Contains(lower, "save") || strings.Contains(lower, "off") || strings.Contains(lower, "mrp") {
			continue
		}
		if v := CleanPrice(txt); v > best {
			best = v
		}
	}
	if best > 0 {
		rec.Price = best
	}

	if mrp := CleanPrice(firstText(page, "span.old-price", "span[data-testid='old-price']", "span.original-price")); mrp > rec.Price {
		rec.OriginalPrice = mrp
	}
	if d := firstText(page, "span.discount", "span.tagsForPlp"); d != "" && len(d) < 50 {
		rec.Discount = d
	}

	if res, err := page.Eval(`() => {
		const el = document.querySelector('[class*="rating"], [data-test*="rating"]');
		return el ? el.innerText : '';
	}`); err == nil {
		txt := res.Value.Str()
		rec.Rating = ParseRating(txt)
		if i := strings.Index(strings.ToLower(txt), "rating"); i > 0 {
			rec.ReviewCount = ParseReviewCount(txt[:i])
		}
	}

	if imgs, err := page.Elements("img[src]"); err == nil {
		for _, img := range imgs {
			if len(rec.Images) >= 8 {
				break
			}
			v, err := img.Attribute("src")
			if err != nil || v == nil {
				continue
			}
			src := *v
			lower := strings.ToLower(src)
			if !strings.HasPrefix(src, "http") || strings.Contains(lower, "logo") || strings.Contains(lower, "icon") || strings.Contains(lower, ".svg") {
				continue
			}
			if !contains(rec.Images, src) {
				rec.Images = append(rec.Images, src)
			}
		}
	}
	if len(rec.Images) > 0 {
		rec.Image = rec.Images[0]
	}

	if res, err := page.Eval(`() => {
		const selectors = ['[class*="delivery"]', '[data-test*="delivery"]', 'cc-delivery-info'];
		for (const sel of selectors) {
			for (const el of document.querySelectorAll(sel)) {
				if (el.innerText && el.innerText.toLowerCase().includes('deliver')) {
					return el.innerText;
				}
			}
		}
		return '';
	}`); err == nil {
		if d := strings.TrimSpace(res.Value.Str()); d != "" {
			rec.DeliveryInfo = d
			rec.DeliveryDate = d
		}
	}

	bodyText := pageBodyText(page)
	lower := strings.ToLower(bodyText)
	outOfStock := strings.Contains(lower, "out of stock") || strings.Contains(lower, "sold out")
	canBuy := strings.Contains(lower, "buy now") || strings.Contains(lower, "add to cart")
	rec.InStock = canBuy && !outOfStock
	if rec.InStock {
		rec.Availability = "In stock"
	} else {
		rec.Availability = "Out of stock"
	}

	rec.Seller = "Croma"

	if d := firstText(page, "div.product-description p", "div.pdp-overview p", "section.description p"); len(d) > 30 {
		rec.Description = d
	}
	if items, err := page.Elements("ul.features li, div.key-features li"); err == nil {
		for _, li := range items {
			if len(rec.Features) >= 10 {
				break
			}
			if t, err := li.Text(); err == nil {
				t = strings.TrimSpace(t)
				if len(t) > 10 && len(t) < 200 {
					rec.Features = append(rec.Features, t)
				}
			}
		}
	}
	if b := cromaBrandFromSpecs(rec); b != "" {
		rec.Brand = b
	}
}

// cromaBrandFromSpecs falls back to the first title word when no brand row
// was captured.
func cromaBrandFromSpecs(rec *models.ProductRecord) string {
	if v, ok := rec.Specifications["Brand"]; ok {
		return v
	}
	if rec.Title != "" {
		return strings.Fields(rec.Title)[0]
	}
	return ""
}
