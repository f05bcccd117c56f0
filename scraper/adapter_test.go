package scraper

import (
	"context"
	"testing"

	"dealscout/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSiteAdapter(minPrice, maxDetailChecks int) *siteAdapter {
	return &siteAdapter{
		source:          "testmart",
		filter:          newTestFilter(),
		minPrice:        minPrice,
		maxDetailChecks: maxDetailChecks,
	}
}

func preview(url string, price int, title string) models.ListingPreview {
	return models.ListingPreview{Source: "testmart", URL: url, Title: title, Price: price}
}

func TestSelectCandidatesFiltersAndSorts(t *testing.T) {
	a := newTestSiteAdapter(100, 10)
	previews := []models.ListingPreview{
		preview("https://t/3", 52000, "Dell Inspiron 15 Laptop"),
		preview("https://t/1", 45000, "HP Pavilion Laptop"),
		preview("https://t/low", 20, "Laptop i5"),            // below min price
		preview("", 48000, "Lenovo IdeaPad Laptop"),          // no URL
		preview("https://t/acc", 46000, "Laptop Sleeve Bag"), // accessory
		preview("https://t/off", 47000, "Ceramic Coffee Mug"), // irrelevant
	}

	got := a.selectCandidates(previews, "laptop")

	require.Len(t, got, 2)
	assert.Equal(t, "https://t/1", got[0].URL)
	assert.Equal(t, "https://t/3", got[1].URL)
	assert.Equal(t, 45000, got[0].Price)
}

func TestBestRecordTakesFirstUsableDetail(t *testing.T) {
	a := newTestSiteAdapter(100, 10)
	candidates := []models.ListingPreview{
		preview("https://t/1", 45000, "HP Pavilion Laptop"),
		preview("https://t/2", 52000, "Dell Inspiron Laptop"),
	}

	fetched := []string{}
	rec, err := a.bestRecord(context.Background(), candidates, func(p models.ListingPreview) *models.ProductRecord {
		fetched = append(fetched, p.URL)
		if p.URL == "https://t/2" {
			return record(p.URL, p.Price, p.Title)
		}
		return nil // cheapest candidate's detail page broke
	})

	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "https://t/2", rec.URL)
	assert.Equal(t, []string{"https://t/1", "https://t/2"}, fetched)
}

func TestBestRecordFallsBackToCheapestPreview(t *testing.T) {
	a := newTestSiteAdapter(100, 10)
	candidates := []models.ListingPreview{
		preview("https://t/1", 45000, "HP Pavilion Laptop"),
		preview("https://t/2", 52000, "Dell Inspiron Laptop"),
	}

	rec, err := a.bestRecord(context.Background(), candidates, func(p models.ListingPreview) *models.ProductRecord {
		return &models.ProductRecord{URL: p.URL} // usable record needs a price too
	})

	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "https://t/1", rec.URL)
	assert.Equal(t, 45000, rec.Price)
	assert.Equal(t, "HP Pavilion Laptop", rec.Title)
}

func TestBestRecordHonorsDetailCheckBudget(t *testing.T) {
	a := newTestSiteAdapter(100, 2)
	candidates := []models.ListingPreview{
		preview("https://t/1", 45000, "Laptop A"),
		preview("https://t/2", 46000, "Laptop B"),
		preview("https://t/3", 47000, "Laptop C"),
		preview("https://t/4", 48000, "Laptop D"),
	}

	calls := 0
	rec, err := a.bestRecord(context.Background(), candidates, func(p models.ListingPreview) *models.ProductRecord {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	// Budget exhausted; the cheapest preview is surfaced instead.
	require.NotNil(t, rec)
	assert.Equal(t, "https://t/1", rec.URL)
}

func TestBestRecordAbortsOnCancelledContext(t *testing.T) {
	a := newTestSiteAdapter(100, 10)
	candidates := []models.ListingPreview{
		preview("https://t/1", 45000, "Laptop A"),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec, err := a.bestRecord(ctx, candidates, func(p models.ListingPreview) *models.ProductRecord {
		t.Fatal("fetch must not run after cancellation")
		return nil
	})

	assert.Error(t, err)
	assert.Nil(t, rec)
}

func TestBestRecordNilWhenFallbackUnusable(t *testing.T) {
	a := newTestSiteAdapter(0, 10)
	// A zero-price preview can reach here on storefronts with no minimum.
	candidates := []models.ListingPreview{
		preview("https://t/1", 0, "Laptop A"),
	}

	rec, err := a.bestRecord(context.Background(), candidates, func(p models.ListingPreview) *models.ProductRecord {
		return nil
	})

	require.NoError(t, err)
	assert.Nil(t, rec)
}
