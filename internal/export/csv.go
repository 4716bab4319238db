// Package export writes run results to CSV files for offline analysis,
// one file per run: the filtered set and optionally the full unfiltered set.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"empleo-engine/internal/domain"
)

var header = []string{"title", "company", "location", "salary", "url", "source", "posted_at"}

// WriteCSV writes jobs to dir/<prefix>_<date>.csv and returns the path.
func WriteCSV(dir, prefix string, jobs []domain.Job) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", prefix, time.Now().Format("2006-01-02")))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, j := range jobs {
		rec := []string{j.Title, j.Company, j.Location, j.Salary, j.URL, j.Source, j.PostedAt}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}
	w.Flush()
	return path, w.Error()
}
