package scraper

import (
	"log"
	"net/url"
	"regexp"
	"strings"
	"time"

	"dealscout/models"

	"github.com/go-rod/rod"
)

const snapdealBase = "https://www.snapdeal.com"

// NewSnapdealAdapter returns the snapdeal.com adapter.
func NewSnapdealAdapter(filter *RelevanceFilter, maxDetailChecks int) SourceAdapter {
	a := &siteAdapter{
		source:          models.SourceSnapdeal,
		filter:          filter,
		minPrice:        50,
		maxDetailChecks: maxDetailChecks,
		searchURL: func(query string) string {
			return snapdealBase + "/search?keyword=" + url.QueryEscape(query)
		},
		applyPincode: snapdealApplyPincode,
	}
	a.collectPreviews = snapdealCollectPreviews
	a.extractDetail = snapdealExtractDetail
	return a
}

func snapdealCollectPreviews(page *rod.Page, query string) []models.ListingPreview {
	// The grid lazy-loads; scroll a few viewports to populate it.
	for i := 0; i < 3; i++ {
		page.Eval("() => window.scrollBy(0, window.innerHeight * 0.7)")
		time.Sleep(1500 * time.Millisecond)
	}

	rows, err := page.Elements("div.product-tuple-listing")
	if err != nil {
		log.Printf("[snapdeal] search rows: %v", err)
		return nil
	}
	seen := map[string]bool{}
	previews := make([]models.ListingPreview, 0, len(rows))
	for _, row := range rows {
		href := childAttr(row, "href", "a[href*='/product/']")
		if href == "" || seen[href] {
			continue
		}
		seen[href] = true
		priceText := childText(row, "span.product-price", "span.lfloat.product-price")
		previews = append(previews, models.ListingPreview{
			Source:    models.SourceSnapdeal,
			URL:       absoluteURL(snapdealBase, href),
			Title:     childText(row, "p.product-title", "div.product-desc-rating p"),
			PriceText: priceText,
			Price:     CleanPrice(priceText),
			Image:     childAttr(row, "src", "img.product-image"),
		})
	}
	return previews
}

// snapdealApplyPincode fills the serviceability widget, falling back to a
// scripted input when the field rejects direct typing.
func snapdealApplyPincode(page *rod.Page, pincode string) {
	time.Sleep(2 * time.Second)
	if has, inp, err := page.Has("#pincode"); err == nil && has {
		if err := inp.Input(pincode); err == nil {
			time.Sleep(time.Second)
			if _, err := page.Eval(`() => {
				const btn = document.getElementById('checkServiceability');
				if (btn) btn.click();
			}`); err == nil {
				time.Sleep(3 * time.Second)
				return
			}
		}
	}
	page.Eval(`(pin) => {
		const input = document.getElementById('pincode');
		if (input) {
			input.value = pin;
			input.dispatchEvent(new Event('input', { bubbles: true }));
			input.dispatchEvent(new Event('change', { bubbles: true }));
		}
		const btn = document.getElementById('checkServiceability');
		if (btn) btn.click();
	}`, pincode)
	time.Sleep(4 * time.Second)
}

var (
	snapdealDeliverByRe   = regexp.MustCompile(`(?i)Deliver(?:ed|y) by\s+(\d{1,2}\s+\w{3,}(?:\s+\d{4})?)`)
	snapdealRangeRe       = regexp.MustCompile(`(?i)Generally delivered in\s+(\d+\s*-\s*\d+\s+days?)`)
	snapdealGetItByRe     = regexp.MustCompile(`(?i)Get it by\s+(\d{1,2}\s+\w{3,}(?:\s+\d{4})?)`)
	snapdealLooseDateRe   = regexp.MustCompile(`(?i)(\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s*\d{0,4})`)
	snapdealDeliveryWords = []string{"deliver", "dispatch", "ship", "get it", "expected"}
)

// snapdealDelivery mines the page text for a delivery promise.
func snapdealDelivery(bodyText string) (date, info string) {
	if m := snapdealDeliverByRe.FindStringSubmatch(bodyText); m != nil {
		return m[1], "Delivery by " + m[1]
	}
	if m := snapdealRangeRe.FindStringSubmatch(bodyText); m != nil {
		return m[1], "Generally delivered in " + m[1]
	}
	if m := snapdealGetItByRe.FindStringSubmatch(bodyText); m != nil {
		return m[1], "Get it by " + m[1]
	}
	// A bare date counts only when delivery wording sits nearby.
	if loc := snapdealLooseDateRe.FindStringSubmatchIndex(bodyText); loc != nil {
		start := loc[0] - 40
		if start < 0 {
			start = 0
		}
		end := loc[1] + 40
		if end > len(bodyText) {
			end = len(bodyText)
		}
		context := strings.ToLower(bodyText[start:end])
		for _, w := range snapdealDeliveryWords {
			if strings.Contains(context, w) {
				date = bodyText[loc[2]:loc[3]]
				return date, "Expected by " + date
			}
		}
	}
	return "", ""
}

func snapdealExtractDetail(page *rod.Page, rec *models.ProductRecord) {
	if t := firstText(page, "h1.pdp-e-i-head", "h1[itemprop='name']", "h1.product-title", "h1"); len(t) > 10 {
		rec.Title = t
	}

	if img := firstAttr(page, "src", "img.cloudzoom", "img[itemprop='image']", "img.pdpCarouselImg"); img != "" {
		rec.Image = img
	}
	if imgs, err := page.Elements("img.pdpCarouselImg, div.bx-viewport img"); err == nil {
		for _, img := range imgs {
			if len(rec.Images) >= 8 {
				break
			}
			if v, err := img.Attribute("src"); err == nil && v != nil && strings.HasPrefix(*v, "http") && !contains(rec.Images, *v) {
				rec.Images = append(rec.Images, *v)
			}
		}
	}
	if rec.Image == models.PlaceholderImage && len(rec.Images) > 0 {
		rec.Image = rec.Images[0]
	}

	if p := CleanPrice(firstText(page, "span.pdp-final-price", "span.payBlkBig", "span[itemprop='price']", "span.selling-price")); p > 0 {
		rec.Price = p
	}
	if mrp := CleanPrice(firstText(page, "span.pdp-mrp", "span.lfloat.markedPrice", "span.strikedPriceText")); mrp > rec.Price {
		rec.OriginalPrice = mrp
	}
	if d := firstText(page, "span.percent-desc", "div.percent-desc", "span.pdp-discount"); strings.Contains(d, "%") {
		rec.Discount = d
	}
	rec.Rating = ParseRating(firstText(page, "span[itemprop='ratingValue']", "span.avrg-rating", "div.rating-value"))
	rec.ReviewCount = ParseReviewCount(firstText(page, "span[itemprop='ratingCount']", "span.total-rating", "span.review-count", "p.rating-count"))

	bodyText := pageBodyText(page)
	if date, info := snapdealDelivery(bodyText); date != "" {
		rec.DeliveryDate = date
		rec.DeliveryInfo = info
	}

	if has, _, err := page.Has("div#add-cart-button-id, button.buy-button, div.cart-button"); err == nil && has {
		rec.InStock = true
		rec.Availability = "In stock"
	} else {
		lower := strings.ToLower(bodyText)
		rec.InStock = !strings.Contains(lower, "out of stock") && !strings.Contains(lower, "sold out")
		if rec.InStock {
			rec.Availability = "In stock"
		} else {
			rec.Availability = "Out of stock"
		}
	}

	if s := firstText(page, "div.seller-name", "a.seller-link", "span[itemprop='seller']"); len(s) < 100 {
		rec.Seller = s
	}

	if items, err := page.Elements("div.highlightsTileContent li, ul.features li, div.key-features li"); err == nil {
		for _, li := range items {
			if len(rec.Features) >= 10 {
				break
			}
			if t, err := li.Text(); err == nil {
				t = strings.TrimSpace(t)
				if len(t) > 5 && len(t) < 300 {
					rec.Features = append(rec.Features, t)
				}
			}
		}
	}

	if specRows, err := page.Elements("table.product-spec tr, div.spec-body tr"); err == nil {
		for i, row := range specRows {
			if i >= 20 {
				break
			}
			cells, err := row.Elements("td")
			if err != nil || len(cells) < 2 {
				continue
			}
			key, _ := cells[0].Text()
			value, _ := cells[1].Text()
			key, value = strings.TrimSpace(key), strings.TrimSpace(value)
			if key != "" && value != "" {
				rec.Specifications[key] = value
				if strings.EqualFold(key, "brand") && len(value) < 50 {
					rec.Brand = value
				}
			}
		}
	}

	if d := firstText(page, "div.product-desc-content", "div[itemprop='description']", "div.detailssubbox"); len(d) > 50 {
		rec.Description = d
	}
}
