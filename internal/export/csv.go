// Package export renders observation rows as CSV for spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vidwatch/vidwatch/internal/tracker"
)

var header = []string{
	"Title", "Channel", "Duration", "Views", "Views (int)", "URL", "Query", "Scraped At",
}

// Write renders rows as CSV to w.
func Write(w io.Writer, rows []tracker.Observation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		views := ""
		if r.Views != nil {
			views = strconv.FormatInt(*r.Views, 10)
		}
		record := []string{
			r.Title, r.Channel, r.Duration, r.ViewsRaw, views,
			r.URL, r.Query, r.ScrapedAt.Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Filename builds the timestamped export name, per-query or whole-DB.
func Filename(query string, now time.Time) string {
	ts := now.Format("20060102_150405")
	if query == "" {
		return fmt.Sprintf("youtube_all_%s.csv", ts)
	}
	return fmt.Sprintf("youtube_%s_%s.csv", strings.ReplaceAll(query, " ", "_"), ts)
}

// File writes rows to a timestamped CSV under dir and returns the path.
func File(dir, query string, now time.Time, rows []tracker.Observation) (string, error) {
	path := filepath.Join(dir, Filename(query, now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	if err := Write(f, rows); err != nil {
		return "", err
	}
	return path, nil
}
