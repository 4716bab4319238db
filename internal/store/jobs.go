package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"empleo-engine/internal/domain"
)

// InsertJobIfNew inserts one job keyed by URL. Returns whether a row was
// actually added; re-runs of the same sources are mostly re-inserts.
func InsertJobIfNew(ctx context.Context, db *sql.DB, j domain.Job) (bool, error) {
	if j.URL == "" {
		return false, fmt.Errorf("missing url")
	}
	res, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO jobs(title, company, location, salary, url, description, source, posted_at, inserted_at)
VALUES(?,?,?,?,?,?,?,?,?);`,
		j.Title, j.Company, j.Location, j.Salary, j.URL, j.Description, j.Source, j.PostedAt,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("insert job: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// InsertJobs bulk-inserts and returns how many rows were new. Individual
// insert errors are counted, not fatal: a bad record must not sink a run's
// worth of results.
func InsertJobs(ctx context.Context, db *sql.DB, jobs []domain.Job) (added int, failed int) {
	for _, j := range jobs {
		ok, err := InsertJobIfNew(ctx, db, j)
		if err != nil {
			failed++
			continue
		}
		if ok {
			added++
		}
	}
	return added, failed
}

// ListJobs returns the most recent rows, newest first.
func ListJobs(ctx context.Context, db *sql.DB, limit int) ([]domain.Job, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := db.QueryContext(ctx, `
SELECT title, company, location, salary, url, description, source, posted_at
FROM jobs ORDER BY id DESC LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Job
	for rows.Next() {
		var j domain.Job
		if err := rows.Scan(&j.Title, &j.Company, &j.Location, &j.Salary, &j.URL, &j.Description, &j.Source, &j.PostedAt); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// CountBySource aggregates stored rows per source for the API.
func CountBySource(ctx context.Context, db *sql.DB) (map[string]int, error) {
	rows, err := db.QueryContext(ctx, `SELECT source, COUNT(*) FROM jobs GROUP BY source;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var src string
		var n int
		if err := rows.Scan(&src, &n); err != nil {
			return nil, err
		}
		out[src] = n
	}
	return out, rows.Err()
}
