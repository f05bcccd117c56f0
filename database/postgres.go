package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"
)

var DB *sql.DB

// InitDatabase opens and verifies the Postgres connection.
func InitDatabase(dbURL string) error {
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	var err error
	DB, err = sql.Open("postgres", dbURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	if err := DB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %v", err)
	}

	log.Println("Successfully connected to database")
	return nil
}

// CreateTables creates the search history schema if missing.
func CreateTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS searches (
			id SERIAL PRIMARY KEY,
			query TEXT NOT NULL,
			pincode VARCHAR(10) DEFAULT '',
			category VARCHAR(20) NOT NULL,
			amazon_price INTEGER,
			flipkart_price INTEGER,
			snapdeal_price INTEGER,
			croma_price INTEGER,
			reliance_price INTEGER,
			ajio_price INTEGER,
			best_source VARCHAR(20) DEFAULT '',
			best_price INTEGER,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_searches_query ON searches (query)`,
		`CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches (created_at)`,
	}

	for _, query := range queries {
		_, err := DB.Exec(query)
		if err != nil {
			return fmt.Errorf("failed to create table: %v", err)
		}
	}

	return nil
}

// CloseDatabase closes the database connection.
func CloseDatabase() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
