package trends

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS keyword_trends (
    keyword TEXT NOT NULL,
    category TEXT NOT NULL,
    frequency BIGINT NOT NULL DEFAULT 1,
    first_seen BIGINT NOT NULL,
    last_seen BIGINT NOT NULL,
    PRIMARY KEY (keyword, category)
);
`

// PostgresStore is the shared-database variant for deployments where several
// engine instances feed the same counters. The database-level upsert keeps
// increments atomic across processes, not just goroutines.
type PostgresStore struct {
	db *sql.DB
}

func OpenPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.Exec(postgresSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply trends schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Upsert(keyword, category string, seen time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO keyword_trends(keyword, category, frequency, first_seen, last_seen)
		 VALUES($1, $2, 1, $3, $3)
		 ON CONFLICT (keyword, category) DO UPDATE SET
		     frequency = keyword_trends.frequency + 1,
		     last_seen = EXCLUDED.last_seen`,
		keyword, category, seen.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("upsert trend %s/%s: %w", keyword, category, err)
	}
	return nil
}

func (s *PostgresStore) TopKeywords(category string, limit int) ([]Counter, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT keyword, category, frequency, first_seen, last_seen
		 FROM keyword_trends
		 WHERE category = $1
		 ORDER BY frequency DESC, last_seen DESC
		 LIMIT $2`,
		category, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query top keywords: %w", err)
	}
	defer rows.Close()

	return scanCounters(rows)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
