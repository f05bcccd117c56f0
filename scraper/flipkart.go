package scraper

import (
	"log"
	"net/url"
	"strings"
	"time"

	"dealscout/models"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

const flipkartBase = "https://www.flipkart.com"

// NewFlipkartAdapter returns the flipkart.com adapter.
func NewFlipkartAdapter(filter *RelevanceFilter, maxDetailChecks int) SourceAdapter {
	a := &siteAdapter{
		source:          models.SourceFlipkart,
		filter:          filter,
		minPrice:        100,
		maxDetailChecks: maxDetailChecks,
		searchURL: func(query string) string {
			return flipkartBase + "/search?q=" + url.QueryEscape(query) + "&sort=relevance"
		},
		applyPincode: flipkartApplyPincode,
	}
	a.collectPreviews = flipkartCollectPreviews
	a.extractDetail = flipkartExtractDetail
	return a
}

// flipkartClosePopups dismisses the login modal that covers search results.
func flipkartClosePopups(page *rod.Page) {
	for _, sel := range []string{"button._2KpZ6l._2doB4z", "span._30XB9F", "button[class*='close']"} {
		if has, btn, err := page.Has(sel); err == nil && has {
			btn.Click(proto.InputMouseButtonLeft, 1)
			time.Sleep(500 * time.Millisecond)
			return
		}
	}
}

func flipkartCollectPreviews(page *rod.Page, query string) []models.ListingPreview {
	flipkartClosePopups(page)
	// Grid pages lazy-load below the fold.
	page.Eval("() => window.scrollBy(0, 800)")
	time.Sleep(time.Second)

	rows, err := page.Elements("div[data-id]")
	if err != nil {
		log.Printf("[flipkart] search rows: %v", err)
		return nil
	}
	seen := map[string]bool{}
	previews := make([]models.ListingPreview, 0, len(rows))
	for _, row := range rows {
		href := childAttr(row, "href", "a[href*='/p/']")
		if href == "" {
			continue
		}
		href = absoluteURL(flipkartBase, strings.SplitN(href, "?", 2)[0])
		if seen[href] {
			continue
		}
		seen[href] = true

		title := childAttr(row, "title", "a.wjcEIp", "a.WKTcLC")
		if title == "" {
			title = childText(row, "div.KzDlHZ", "a.WKTcLC", "a.wjcEIp")
		}
		title = strings.TrimSpace(strings.ReplaceAll(title, "Add to Compare", ""))

		priceText := childText(row, "div.Nx9bqj", "div.hZ3P6w")
		previews = append(previews, models.ListingPreview{
			Source:    models.SourceFlipkart,
			URL:       href,
			Title:     title,
			PriceText: priceText,
			Price:     CleanPrice(priceText),
			Image:     childAttr(row, "src", "img.DByuf4", "img._53J4C-", "img"),
		})
	}
	return previews
}

// flipkartApplyPincode types into the delivery pincode box when present.
func flipkartApplyPincode(page *rod.Page, pincode string) {
	has, inp, err := page.Has("input.qeqGor, input#pincodeInputId")
	if err != nil || !has {
		return
	}
	if err := inp.SelectAllText(); err == nil {
		inp.Input(pincode)
	}
	time.Sleep(300 * time.Millisecond)
	clicked := false
	if res, err := page.Eval(`() => {
		const span = [...document.querySelectorAll('span')].find(s => s.textContent.trim() === 'Check');
		if (span) { span.click(); return true; }
		return false;
	}`); err == nil && res.Value.Bool() {
		clicked = true
	}
	if !clicked {
		inp.Type(input.Enter)
	}
	time.Sleep(1500 * time.Millisecond)
}

func flipkartExtractDetail(page *rod.Page, rec *models.ProductRecord) {
	flipkartClosePopups(page)

	if t := firstText(page, "span.RG5slk", "h1.yhB1nd", "span.VU-ZEz"); t != "" {
		rec.Title = t
	}
	rec.Rating = ParseRating(firstText(page, "div.PvbNMB span", "div.XQDdHH"))

	// "1,234 Ratings & 567 Reviews": the second number is reviews.
	if txt := firstText(page, "span.o2SIOJ", "span.Wphh3N"); txt != "" {
		if i := strings.Index(txt, "&"); i >= 0 {
			rec.ReviewCount = ParseReviewCount(txt[i+1:])
		}
		if rec.ReviewCount == 0 {
			rec.ReviewCount = ParseReviewCount(txt)
		}
	}

	if p := CleanPrice(firstText(page, "div.hZ3P6w", "div.DeU9vF", "div.Nx9bqj")); p > 0 {
		rec.Price = p
	}
	rec.OriginalPrice = CleanPrice(firstText(page, "div.kRYCnD", "div.gxR4EY", "div.yRaY8j"))
	rec.Discount = firstText(page, "div.HQe8jr", "div.UkUFwK")

	if items, err := page.Elements("ul.HwRTzP li.DTBslk, li._21Ahn-"); err == nil {
		for _, li := range items {
			if t, err := li.Text(); err == nil {
				if t = strings.TrimSpace(t); t != "" {
					rec.Features = append(rec.Features, t)
				}
			}
		}
	}
	if len(rec.Features) > 0 {
		rec.Description = strings.Join(rec.Features, "\n")
	}

	if img := firstAttr(page, "src", "img.UCc1lI", "img._0DkuPH", "img[loading='eager']"); img != "" {
		rec.Image = img
		rec.Images = append(rec.Images, img)
	}
	if imgs, err := page.Elements("img"); err == nil {
		for _, img := range imgs {
			if len(rec.Images) >= 6 {
				break
			}
			v, err := img.Attribute("src")
			if err != nil || v == nil {
				continue
			}
			src := *v
			if (strings.Contains(src, "rukminim") || strings.Contains(src, "flixcart")) && !contains(rec.Images, src) {
				rec.Images = append(rec.Images, src)
			}
		}
	}
	if rec.Image == models.PlaceholderImage && len(rec.Images) > 0 {
		rec.Image = rec.Images[0]
	}

	if tables, err := page.Elements("tr.WJdYP6"); err == nil {
		for _, row := range tables {
			cells, err := row.Elements("td")
			if err != nil || len(cells) < 2 {
				continue
			}
			key, _ := cells[0].Text()
			value, _ := cells[1].Text()
			key, value = strings.TrimSpace(key), strings.TrimSpace(value)
			if key == "" || value == "" || strings.Contains(key, "Question") {
				continue
			}
			rec.Specifications[key] = value
			if strings.EqualFold(key, "brand") {
				rec.Brand = value
			}
		}
	}
	if rec.Brand == "" && rec.Title != "" {
		rec.Brand = strings.Fields(rec.Title)[0]
	}

	rec.Seller = firstText(page, "#sellerName")

	if bodyText := pageBodyText(page); bodyText != "" {
		lower := strings.ToLower(bodyText)
		if strings.Contains(lower, "out of stock") || strings.Contains(lower, "sold out") || strings.Contains(lower, "currently unavailable") {
			rec.InStock = false
			rec.Availability = "Out of Stock"
		} else {
			rec.InStock = true
			rec.Availability = "In Stock"
		}
		if d := deliveryLine(bodyText); d != "" {
			rec.DeliveryInfo = d
			rec.DeliveryDate = d
		}
	}
}

// pageBodyText returns document.body.innerText, empty on failure.
func pageBodyText(page *rod.Page) string {
	res, err := page.Eval("() => document.body ? document.body.innerText : ''")
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// deliveryLine picks the first line that reads like a delivery promise.
func deliveryLine(bodyText string) string {
	for _, line := range strings.Split(bodyText, "\n") {
		line = strings.TrimSpace(line)
		if strings.Contains(line, "Delivery by") || strings.Contains(line, "Get it by") {
			return line
		}
	}
	return ""
}
