package scraper

import (
	"net/url"
	"strings"
	"time"

	"dealscout/models"

	"github.com/go-rod/rod"
)

const ajioBase = "https://www.ajio.com"

// ajioCardsJS targets the product grid tiles and skips the filter sidebar,
// whose entries look like products but carry no price.
const ajioCardsJS = `() => {
	const tiles = Array.from(document.querySelectorAll('.item, .rilrtl-product, .product-base'));
	const out = [];
	for (const tile of tiles) {
		try {
			if (tile.closest('.filters') || tile.closest('.facets')) continue;
			const linkEl = tile.querySelector('a[href*="/p/"]');
			if (!linkEl) continue;
			const titleEl = tile.querySelector('.nameCls, .name');
			const title = titleEl ? titleEl.innerText : '';
			if (!title || title.toLowerCase().includes('refine by')) continue;
			const priceEl = tile.querySelector('.price, .orginal-price');
			const imgEl = tile.querySelector('img');
			out.push({
				url: linkEl.href,
				title: title.trim(),
				price_text: priceEl ? priceEl.innerText.trim() : '',
				image: imgEl ? (imgEl.src || imgEl.getAttribute('data-src') || '') : '',
			});
		} catch (e) {}
	}
	return out;
}`

// NewAjioAdapter returns the ajio.com adapter.
func NewAjioAdapter(filter *RelevanceFilter, maxDetailChecks int) SourceAdapter {
	a := &siteAdapter{
		source:          models.SourceAjio,
		filter:          filter,
		minPrice:        50,
		maxDetailChecks: maxDetailChecks,
		searchURL: func(query string) string {
			return ajioBase + "/search/?text=" + url.QueryEscape(query)
		},
	}
	a.collectPreviews = ajioCollectPreviews
	a.extractDetail = ajioExtractDetail
	return a
}

func ajioCollectPreviews(page *rod.Page, query string) []models.ListingPreview {
	for i := 0; i < 8; i++ {
		page.Eval("() => window.scrollBy(0, 1000)")
		time.Sleep(500 * time.Millisecond)
	}

	res, err := page.Eval(ajioCardsJS)
	if err != nil {
		return nil
	}
	previews := []models.ListingPreview{}
	for _, item := range res.Value.Arr() {
		title := strings.TrimSpace(item.Get("title").Str())
		lower := strings.ToLower(title)
		if strings.Contains(lower, "refine") || strings.Contains(lower, "filter") {
			continue
		}
		priceText := strings.TrimSpace(item.Get("price_text").Str())
		previews = append(previews, models.ListingPreview{
			Source:    models.SourceAjio,
			URL:       item.Get("url").Str(),
			Title:     title,
			PriceText: priceText,
			Price:     CleanPrice(priceText),
			Image:     item.Get("image").Str(),
		})
	}
	return previews
}

func ajioExtractDetail(page *rod.Page, rec *models.ProductRecord) {
	if t := firstText(page, "h1.prod-title"); t != "" {
		rec.Title = t
	}
	if b := firstText(page, "h2.brand-name", "div.brand-name"); b != "" {
		rec.Brand = b
	}
	if p := CleanPrice(firstText(page, "div.prod-sp", "span.prod-sp")); p > 0 {
		rec.Price = p
	}
	if mrp := CleanPrice(firstText(page, "span.prod-cp", "span.prod-orginal-price")); mrp > rec.Price {
		rec.OriginalPrice = mrp
	}
	if d := firstText(page, "span.prod-discnt"); d != "" {
		rec.Discount = d
	}
	if img := firstAttr(page, "src", "img.rilrtl-lazy-img", "img.img-alt"); img != "" {
		rec.Image = img
	}

	bodyText := pageBodyText(page)
	if d := deliveryLine(bodyText); d != "" {
		rec.DeliveryInfo = d
		rec.DeliveryDate = d
	}

	// A rendered product page with a price is a purchasable listing.
	rec.InStock = rec.Price > 0
	if rec.InStock {
		rec.Availability = "In stock"
	}
	rec.Seller = "AJIO"
}
