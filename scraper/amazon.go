package scraper

import (
	"log"
	"net/url"
	"strings"
	"time"

	"dealscout/models"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

const amazonBase = "https://www.amazon.in"

// NewAmazonAdapter returns the amazon.in adapter.
func NewAmazonAdapter(filter *RelevanceFilter, maxDetailChecks int) SourceAdapter {
	a := &siteAdapter{
		source:          models.SourceAmazon,
		filter:          filter,
		minPrice:        100,
		maxDetailChecks: maxDetailChecks,
		searchURL: func(query string) string {
			return amazonBase + "/s?k=" + url.QueryEscape(query)
		},
		applyPincode: amazonApplyPincode,
	}
	a.collectPreviews = amazonCollectPreviews
	a.extractDetail = amazonExtractDetail
	return a
}

func amazonCollectPreviews(page *rod.Page, query string) []models.ListingPreview {
	rows, err := page.Elements("div[data-component-type='s-search-result']")
	if err != nil {
		log.Printf("[amazon] search rows: %v", err)
		return nil
	}
	previews := make([]models.ListingPreview, 0, len(rows))
	for _, row := range rows {
		href := childAttr(row, "href", "a.a-link-normal.s-no-outline", "h2 a")
		if href == "" {
			continue
		}
		priceText := childText(row, "span.a-price-whole")
		previews = append(previews, models.ListingPreview{
			Source:    models.SourceAmazon,
			URL:       absoluteURL(amazonBase, href),
			Title:     childText(row, "h2 span", "span.a-size-medium", "span.a-size-base-plus"),
			PriceText: priceText,
			Price:     CleanPrice(priceText),
			Image:     childAttr(row, "src", "img.s-image"),
		})
	}
	return previews
}

// amazonApplyPincode drives the delivery-location dialog. Failures are
// logged and swallowed; results just come back without local delivery info.
func amazonApplyPincode(page *rod.Page, pincode string) {
	has, btn, err := page.Has("#contextualIngressPtLabel")
	if err != nil || !has {
		return
	}
	if err := btn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		log.Printf("[amazon] pincode dialog: %v", err)
		return
	}
	time.Sleep(time.Second)

	has, input, err := page.Has("#GLUXZipUpdateInput")
	if err != nil || !has {
		return
	}
	if err := input.Input(pincode); err != nil {
		log.Printf("[amazon] pincode input: %v", err)
		return
	}
	if has, apply, err := page.Has("input[aria-labelledby='GLUXZipUpdate-announce']"); err == nil && has {
		apply.Click(proto.InputMouseButtonLeft, 1)
		time.Sleep(2 * time.Second)
	}
	if has, done, err := page.Has("button[name='glowDoneButton']"); err == nil && has {
		done.Click(proto.InputMouseButtonLeft, 1)
		time.Sleep(time.Second)
	}
}

func amazonExtractDetail(page *rod.Page, rec *models.ProductRecord) {
	if t := firstText(page, "#productTitle"); t != "" {
		rec.Title = t
	}
	if p := CleanPrice(firstText(page,
		"span.a-price.aok-align-center.reinventPricePriceToPayMargin.priceToPay span.a-price-whole",
		"span.a-price-whole",
	)); p > 0 {
		rec.Price = p
	}
	rec.OriginalPrice = CleanPrice(firstText(page, "span.a-price.a-text-price span.a-offscreen"))
	rec.Discount = firstText(page, "span.savingsPercentage")
	rec.Rating = ParseRating(firstText(page, "span.a-icon-alt"))
	rec.ReviewCount = ParseReviewCount(firstText(page, "#acrCustomerReviewText"))

	if img := firstAttr(page, "src", "#landingImage", "#imgBlkFront"); img != "" {
		rec.Image = img
	}
	if thumbs, err := page.Elements("img.a-dynamic-image"); err == nil {
		for _, img := range thumbs {
			if len(rec.Images) >= 6 {
				break
			}
			if v, err := img.Attribute("src"); err == nil && v != nil && *v != "" && !contains(rec.Images, *v) {
				rec.Images = append(rec.Images, *v)
			}
		}
	}

	if d := firstText(page,
		"#mir-layout-DELIVERY_BLOCK-slot-PRIMARY_DELIVERY_MESSAGE_LARGE b",
		"span[data-csa-c-delivery-time]",
	); d != "" {
		rec.DeliveryDate = d
	}
	if d := firstText(page, "#mir-layout-DELIVERY_BLOCK-slot-PRIMARY_DELIVERY_MESSAGE_LARGE"); d != "" {
		rec.DeliveryInfo = d
	}

	if avail := firstText(page, "#availability span"); avail != "" {
		rec.Availability = avail
		lower := strings.ToLower(avail)
		rec.InStock = strings.Contains(lower, "in stock") || strings.Contains(lower, "available")
	}

	if b := firstText(page, "#bylineInfo"); b != "" {
		b = strings.ReplaceAll(b, "Visit the ", "")
		b = strings.ReplaceAll(b, " Store", "")
		b = strings.ReplaceAll(b, "Brand: ", "")
		rec.Brand = b
	}

	if items, err := page.Elements("#feature-bullets ul li"); err == nil {
		for _, li := range items {
			if t, err := li.Text(); err == nil {
				if t = strings.TrimSpace(t); t != "" {
					rec.Features = append(rec.Features, t)
				}
			}
		}
	}
	if len(rec.Features) == 0 {
		rec.Description = firstText(page, "#productDescription p")
	}

	if tables, err := page.Elements("table.a-keyvalue"); err == nil {
		for _, table := range tables {
			rows, err := table.Elements("tr")
			if err != nil {
				continue
			}
			for _, row := range rows {
				cells, err := row.Elements("td")
				if err != nil || len(cells) != 2 {
					continue
				}
				key, _ := cells[0].Text()
				value, _ := cells[1].Text()
				key, value = strings.TrimSpace(key), strings.TrimSpace(value)
				if key != "" && value != "" {
					rec.Specifications[key] = value
				}
			}
		}
	}

	rec.Seller = firstText(page, "#sellerProfileTriggerId")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
