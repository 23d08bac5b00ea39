package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/aleenprd/boligportal-scraper/models"
	"github.com/aleenprd/boligportal-scraper/utils"
)

// PostgresWriter mirrors assembled listings into PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, creates the listings
// table if needed and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(ctx context.Context, dsn string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{MaxAttempts: 5, BaseDelay: time.Second, Logger: logger}
	if err := retry.Do(ctx, "postgres ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			url                    TEXT PRIMARY KEY,
			creation_date          DATE NOT NULL,
			scraped_date           DATE NOT NULL,
			full_address           TEXT NOT NULL DEFAULT '',
			street                 TEXT NOT NULL DEFAULT '',
			zip_code               TEXT NOT NULL DEFAULT '',
			district               TEXT NOT NULL DEFAULT '',
			housing_type           TEXT NOT NULL DEFAULT '',
			size                   DOUBLE PRECISION NOT NULL DEFAULT 0,
			number_of_rooms        INTEGER NOT NULL DEFAULT 0,
			floor                  TEXT NOT NULL DEFAULT '',
			rental_period          TEXT NOT NULL DEFAULT '',
			available_from         DATE,
			summary                TEXT NOT NULL DEFAULT '',
			monthly_rent           INTEGER NOT NULL DEFAULT 0,
			aconto                 INTEGER NOT NULL DEFAULT 0,
			deposit                INTEGER NOT NULL DEFAULT 0,
			prepaid_rent           INTEGER NOT NULL DEFAULT 0,
			occupancy_price        INTEGER NOT NULL DEFAULT 0,
			total_monthly_cost     INTEGER NOT NULL DEFAULT 0,
			months_of_prepaid_rent INTEGER NOT NULL DEFAULT 0,
			months_of_deposit      INTEGER NOT NULL DEFAULT 0,
			is_furnished           SMALLINT NOT NULL DEFAULT 0,
			is_shareable           SMALLINT NOT NULL DEFAULT 0,
			pets_allowed           SMALLINT NOT NULL DEFAULT 0,
			has_elevator           SMALLINT NOT NULL DEFAULT 0,
			students_only          SMALLINT NOT NULL DEFAULT 0,
			has_balcony            SMALLINT NOT NULL DEFAULT 0,
			has_parking            SMALLINT NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_listings_zip_code           ON listings(zip_code);
		CREATE INDEX IF NOT EXISTS idx_listings_total_monthly_cost ON listings(total_monthly_cost);
		CREATE INDEX IF NOT EXISTS idx_listings_creation_date      ON listings(creation_date);
	`)
	return err
}

// Write upserts the listings in batches. A listing seen again replaces the
// stored row.
func (pw *PostgresWriter) Write(listings []*models.Listing) error {
	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		query, args := upsertQuery(listings[i:end])
		if _, err := pw.db.Exec(query, args...); err != nil {
			return fmt.Errorf("postgres: upsert batch at %d: %w", i, err)
		}
	}
	return nil
}

// Count returns the number of stored listings.
func (pw *PostgresWriter) Count() (int, error) {
	var n int
	if err := pw.db.QueryRow("SELECT COUNT(*) FROM listings").Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count: %w", err)
	}
	return n, nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

func upsertQuery(batch []*models.Listing) (string, []interface{}) {
	n := len(Columns)
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*n)

	for idx, l := range batch {
		placeholders := make([]string, n)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", idx*n+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs, sqlValues(l)...)
	}

	updates := make([]string, 0, n-1)
	for _, c := range Columns[1:] {
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (%s)
		VALUES %s
		ON CONFLICT (url) DO UPDATE SET %s
	`, strings.Join(Columns, ", "), strings.Join(valueStrings, ","), strings.Join(updates, ", "))
	return query, valueArgs
}

// sqlValues is values with dates as time.Time and the floor as text.
func sqlValues(l *models.Listing) []interface{} {
	vals := values(l)
	vals[1] = l.CreationDate.Time
	vals[2] = l.ScrapedDate.Time
	vals[10] = l.Floor.String()
	if l.AvailableFrom != nil {
		vals[12] = l.AvailableFrom.Time
	} else {
		vals[12] = nil
	}
	return vals
}
