package scraper

import (
	"dealscout/models"
)

// BuildResponse folds adapter outcomes into the aggregate payload. The
// source map always carries every known source key; sources that were not
// queried, found nothing or failed stay nil. BestDeal is the lowest-priced
// usable record; TopPick is the scorer's quality choice and may disagree.
func BuildResponse(query, pincode, category string, queried []string, outcomes []models.AdapterOutcome, scorer *Scorer, budget float64) *models.DealsResponse {
	sources := models.NewSourceResultMap()
	sourced := make([]models.SourcedRecord, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Status == models.OutcomeFound && o.Record.IsUsable() {
			sources[o.Source] = o.Record
			sourced = append(sourced, models.SourcedRecord{Source: o.Source, Record: o.Record})
		}
	}

	resp := &models.DealsResponse{
		Query:    query,
		Pincode:  pincode,
		Category: category,
		Sources:  sources,
		Outcomes: outcomes,
		Summary: models.DealsSummary{
			SourcesQueried:    len(queried),
			SourcesWithResult: len(sourced),
		},
	}

	for _, r := range sourced {
		price := r.Record.Price
		if resp.Summary.MinPrice == 0 || price < resp.Summary.MinPrice {
			resp.Summary.MinPrice = price
		}
		if price > resp.Summary.MaxPrice {
			resp.Summary.MaxPrice = price
		}
		if resp.BestDeal == nil || price < resp.BestDeal.Record.Price {
			best := r
			resp.BestDeal = &best
		}
	}

	if scorer != nil && len(sourced) > 0 {
		ranked := scorer.Rank(sourced, budget)
		resp.TopPick = ranked.Best
	}
	return resp
}
