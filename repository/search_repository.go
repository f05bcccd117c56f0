package repository

import (
	"fmt"

	"dealscout/database"
	"dealscout/models"
)

type SearchRepository struct{}

func NewSearchRepository() *SearchRepository {
	return &SearchRepository{}
}

// sourcePrice pulls a nullable price for one source out of a deals response.
func sourcePrice(resp *models.DealsResponse, source string) *int {
	if rec := resp.Sources[source]; rec.IsUsable() {
		p := rec.Price
		return &p
	}
	return nil
}

// RecordSearch persists one completed deal lookup with the per-source
// prices observed at fetch time.
func (r *SearchRepository) RecordSearch(resp *models.DealsResponse) (*models.SearchRecord, error) {
	bestSource := ""
	var bestPrice *int
	if resp.BestDeal != nil {
		bestSource = resp.BestDeal.Source
		p := resp.BestDeal.Record.Price
		bestPrice = &p
	}

	query := `
		INSERT INTO searches (query, pincode, category, amazon_price, flipkart_price, snapdeal_price, croma_price, reliance_price, ajio_price, best_source, best_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, query, pincode, category, amazon_price, flipkart_price, snapdeal_price, croma_price, reliance_price, ajio_price, best_source, best_price, created_at
	`

	var rec models.SearchRecord
	err := database.DB.QueryRow(query,
		resp.Query, resp.Pincode, resp.Category,
		sourcePrice(resp, models.SourceAmazon),
		sourcePrice(resp, models.SourceFlipkart),
		sourcePrice(resp, models.SourceSnapdeal),
		sourcePrice(resp, models.SourceCroma),
		sourcePrice(resp, models.SourceReliance),
		sourcePrice(resp, models.SourceAjio),
		bestSource, bestPrice,
	).Scan(
		&rec.ID, &rec.Query, &rec.Pincode, &rec.Category,
		&rec.AmazonPrice, &rec.FlipkartPrice, &rec.SnapdealPrice,
		&rec.CromaPrice, &rec.ReliancePrice, &rec.AjioPrice,
		&rec.BestSource, &rec.BestPrice, &rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record search: %v", err)
	}

	return &rec, nil
}

// GetRecentSearches returns the latest searches, newest first.
func (r *SearchRepository) GetRecentSearches(limit int) ([]models.SearchRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := `
		SELECT id, query, pincode, category, amazon_price, flipkart_price, snapdeal_price, croma_price, reliance_price, ajio_price, best_source, best_price, created_at
		FROM searches
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := database.DB.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get searches: %v", err)
	}
	defer rows.Close()

	var searches []models.SearchRecord
	for rows.Next() {
		var rec models.SearchRecord
		err := rows.Scan(
			&rec.ID, &rec.Query, &rec.Pincode, &rec.Category,
			&rec.AmazonPrice, &rec.FlipkartPrice, &rec.SnapdealPrice,
			&rec.CromaPrice, &rec.ReliancePrice, &rec.AjioPrice,
			&rec.BestSource, &rec.BestPrice, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search: %v", err)
		}
		searches = append(searches, rec)
	}

	return searches, nil
}

// GetSearchesByQuery returns past lookups for the same query text, useful
// for price-over-time views.
func (r *SearchRepository) GetSearchesByQuery(queryText string, limit int) ([]models.SearchRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := `
		SELECT id, query, pincode, category, amazon_price, flipkart_price, snapdeal_price, croma_price, reliance_price, ajio_price, best_source, best_price, created_at
		FROM searches
		WHERE LOWER(query) = LOWER($1)
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := database.DB.Query(query, queryText, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get searches by query: %v", err)
	}
	defer rows.Close()

	var searches []models.SearchRecord
	for rows.Next() {
		var rec models.SearchRecord
		err := rows.Scan(
			&rec.ID, &rec.Query, &rec.Pincode, &rec.Category,
			&rec.AmazonPrice, &rec.FlipkartPrice, &rec.SnapdealPrice,
			&rec.CromaPrice, &rec.ReliancePrice, &rec.AjioPrice,
			&rec.BestSource, &rec.BestPrice, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search: %v", err)
		}
		searches = append(searches, rec)
	}

	return searches, nil
}

// PruneOlderThan deletes search rows past the retention window and returns
// how many went.
func (r *SearchRepository) PruneOlderThan(days int) (int64, error) {
	if days <= 0 {
		return 0, nil
	}
	result, err := database.DB.Exec(
		`DELETE FROM searches WHERE created_at < NOW() - ($1 || ' days')::interval`, days)
	if err != nil {
		return 0, fmt.Errorf("failed to prune searches: %v", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}
