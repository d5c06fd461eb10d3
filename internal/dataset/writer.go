// Package dataset persists extracted post records as CSV files: a
// per-session file that faithfully records one run, and a cumulative file
// merged across runs with first-seen deduplication.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/emiller/postharvest/internal/types"
)

// CumulativeFile is the name of the cross-run dataset inside the data dir.
const CumulativeFile = "linkedin_original_posts.csv"

// Writer persists records under a data directory.
type Writer struct {
	DataDir string
	Log     zerolog.Logger
}

// NewWriter returns a Writer rooted at dataDir.
func NewWriter(dataDir string, log zerolog.Logger) *Writer {
	return &Writer{DataDir: dataDir, Log: log}
}

// SessionPath returns the per-session file path for a session identifier.
func (w *Writer) SessionPath(sessionID string) string {
	return filepath.Join(w.DataDir, fmt.Sprintf("linkedin_posts_%s.csv", sessionID))
}

// CumulativePath returns the cumulative dataset path.
func (w *Writer) CumulativePath() string {
	return filepath.Join(w.DataDir, CumulativeFile)
}

// Write persists the session records: the full per-session file first (never
// deduplicated), then the cumulative merge. It returns the cumulative view
// after the merge.
func (w *Writer) Write(records []types.PostRecord, sessionID string) ([]types.PostRecord, error) {
	if err := os.MkdirAll(w.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", w.DataDir, err)
	}

	sessionPath := w.SessionPath(sessionID)
	if err := writeCSV(sessionPath, records); err != nil {
		return nil, fmt.Errorf("failed to write session dataset: %w", err)
	}
	w.Log.Info().Int("records", len(records)).Str("path", sessionPath).Msg("session dataset written")

	merged, err := w.MergeCumulative(records)
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// MergeCumulative appends records to the cumulative dataset, deduplicating
// on (profile name, post text) with the earliest-written record winning.
// Re-running the merge with the same records is a no-op.
func (w *Writer) MergeCumulative(records []types.PostRecord) ([]types.PostRecord, error) {
	path := w.CumulativePath()

	existing, err := ReadRecords(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read cumulative dataset: %w", err)
	}

	seen := make(map[string]bool, len(existing))
	merged := make([]types.PostRecord, 0, len(existing)+len(records))
	for _, rec := range existing {
		if !seen[rec.DedupKey()] {
			merged = append(merged, rec)
			seen[rec.DedupKey()] = true
		}
	}
	added := 0
	for _, rec := range records {
		if !seen[rec.DedupKey()] {
			merged = append(merged, rec)
			seen[rec.DedupKey()] = true
			added++
		}
	}

	if err := writeCSV(path, merged); err != nil {
		return nil, fmt.Errorf("failed to write cumulative dataset: %w", err)
	}
	w.Log.Info().Int("added", added).Int("total", len(merged)).Str("path", path).Msg("cumulative dataset merged")

	return merged, nil
}

func writeCSV(path string, records []types.PostRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(types.CSVHeader); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write(rec.CSVRow()); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return f.Close()
}

// ReadRecords loads a dataset file back into records. Only the columns the
// merge needs are interpreted; unknown layouts fail loudly.
func ReadRecords(path string) ([]types.PostRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if len(rows[0]) != len(types.CSVHeader) {
		return nil, fmt.Errorf("unexpected column count %d in %s", len(rows[0]), path)
	}

	records := make([]types.PostRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, recordFromRow(row))
	}
	return records, nil
}

func recordFromRow(row []string) types.PostRecord {
	rec := types.PostRecord{
		ProfileName:  row[0],
		ProfileURL:   row[1],
		PostText:     row[2],
		PostDateText: row[3],
		PostDate:     row[4],
		DayOfWeek:    row[5],
		HourOfDay:    row[6],
		Reactions:    atoi(row[7]),
		Comments:     atoi(row[8]),
		Reposts:      atoi(row[9]),
		TotalEngage:  atoi(row[10]),
		HashtagCount: atoi(row[12]),
		PostLength:   atoi(row[13]),
		ScrapedAt:    row[14],
		SessionID:    row[15],
	}
	if row[11] != "" {
		rec.Hashtags = strings.Split(row[11], ", ")
	}
	return rec
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
