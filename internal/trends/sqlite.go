package trends

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Timestamps are stored as unix nanoseconds so the last_seen tie-break is a
// plain integer ORDER BY in every store.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS keyword_trends (
    keyword TEXT NOT NULL,
    category TEXT NOT NULL,
    frequency INTEGER NOT NULL DEFAULT 1,
    first_seen INTEGER NOT NULL,
    last_seen INTEGER NOT NULL,
    PRIMARY KEY (keyword, category)
);
`

// SQLiteStore persists counters in an embedded database. The upsert is a
// single atomic statement, so increments are safe even without the recorder's
// queue in front.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply trends schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Upsert(keyword, category string, seen time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO keyword_trends(keyword, category, frequency, first_seen, last_seen)
		 VALUES(?, ?, 1, ?, ?)
		 ON CONFLICT(keyword, category) DO UPDATE SET
		     frequency = frequency + 1,
		     last_seen = excluded.last_seen`,
		keyword, category, seen.UnixNano(), seen.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("upsert trend %s/%s: %w", keyword, category, err)
	}
	return nil
}

func (s *SQLiteStore) TopKeywords(category string, limit int) ([]Counter, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT keyword, category, frequency, first_seen, last_seen
		 FROM keyword_trends
		 WHERE category = ?
		 ORDER BY frequency DESC, last_seen DESC
		 LIMIT ?`,
		category, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query top keywords: %w", err)
	}
	defer rows.Close()

	return scanCounters(rows)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanCounters(rows *sql.Rows) ([]Counter, error) {
	var out []Counter
	for rows.Next() {
		var c Counter
		var first, last int64
		if err := rows.Scan(&c.Keyword, &c.Category, &c.Frequency, &first, &last); err != nil {
			return nil, fmt.Errorf("scan trend row: %w", err)
		}
		c.FirstSeen = time.Unix(0, first).UTC()
		c.LastSeen = time.Unix(0, last).UTC()
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trend rows: %w", err)
	}
	return out, nil
}
