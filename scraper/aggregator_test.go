package scraper

import (
	"testing"

	"dealscout/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildResponseBestDealIsLowestPrice(t *testing.T) {
	cheap := record("https://f/p", 35000, "Budget Laptop")
	cheap.Rating = 3.1
	pricey := record("https://a/p", 45000, "Premium Laptop")
	pricey.Rating = 4.7
	pricey.ReviewCount = 5000
	pricey.InStock = true

	queried := []string{models.SourceAmazon, models.SourceFlipkart, models.SourceCroma, models.SourceReliance}
	outcomes := []models.AdapterOutcome{
		models.Found(models.SourceAmazon, pricey),
		models.Found(models.SourceFlipkart, cheap),
		models.NotFound(models.SourceCroma),
		models.Failed(models.SourceReliance, "blocked"),
	}
	resp := BuildResponse("laptop", "688524", models.CategoryElectronics, queried, outcomes, newTestScorer(), 0)

	require.NotNil(t, resp.BestDeal)
	assert.Equal(t, models.SourceFlipkart, resp.BestDeal.Source)
	assert.Equal(t, 35000, resp.BestDeal.Record.Price)

	// The quality pick disagrees with the price pick here.
	require.NotNil(t, resp.TopPick)
	assert.Equal(t, models.SourceAmazon, resp.TopPick.Source)

	assert.Equal(t, 4, resp.Summary.SourcesQueried)
	assert.Equal(t, 2, resp.Summary.SourcesWithResult)
	assert.Equal(t, 35000, resp.Summary.MinPrice)
	assert.Equal(t, 45000, resp.Summary.MaxPrice)
}

func TestBuildResponseMapPreSeeded(t *testing.T) {
	outcomes := []models.AdapterOutcome{
		models.Found(models.SourceAmazon, record("https://a/p", 1000, "Bottle")),
	}
	resp := BuildResponse("water bottle", "", models.CategoryGeneral,
		[]string{models.SourceAmazon, models.SourceFlipkart, models.SourceSnapdeal}, outcomes, newTestScorer(), 0)

	assert.Len(t, resp.Sources, len(models.AllSources()))
	assert.NotNil(t, resp.Sources[models.SourceAmazon])
	for _, src := range []string{models.SourceFlipkart, models.SourceSnapdeal, models.SourceCroma, models.SourceReliance, models.SourceAjio} {
		rec, ok := resp.Sources[src]
		assert.True(t, ok)
		assert.Nil(t, rec)
	}
}

func TestBuildResponseAllAbsent(t *testing.T) {
	outcomes := []models.AdapterOutcome{
		models.NotFound(models.SourceAmazon),
		models.Failed(models.SourceFlipkart, "timeout"),
	}
	resp := BuildResponse("laptop", "", models.CategoryElectronics,
		[]string{models.SourceAmazon, models.SourceFlipkart}, outcomes, newTestScorer(), 0)

	assert.Nil(t, resp.BestDeal)
	assert.Nil(t, resp.TopPick)
	assert.Zero(t, resp.Summary.SourcesWithResult)
	assert.Zero(t, resp.Summary.MinPrice)
	assert.Zero(t, resp.Summary.MaxPrice)
}

func TestBuildResponseIgnoresUnusableFoundRecord(t *testing.T) {
	// A found outcome with a zero price must not surface in the map.
	broken := models.NewProductRecord("https://a/p")
	outcomes := []models.AdapterOutcome{
		{Source: models.SourceAmazon, Status: models.OutcomeFound, Record: broken},
	}
	resp := BuildResponse("laptop", "", models.CategoryElectronics,
		[]string{models.SourceAmazon}, outcomes, newTestScorer(), 0)

	assert.Nil(t, resp.Sources[models.SourceAmazon])
	assert.Nil(t, resp.BestDeal)
	assert.Zero(t, resp.Summary.SourcesWithResult)
}
