package explain

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// WriteJSON atomically writes report as indented JSON to path (write-temp,
// fsync, rename — spec §4.11's artifact-write contract, grounded on the
// manifest package's atomic persistence pattern).
func WriteJSON(path string, report Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("explain: marshal report: %w", err)
	}
	return atomicWrite(path, data)
}

// WriteTable writes the normalized tabular form for query (spec §4.10):
// one row per (cell, subscore) with its value and top contributor.
func WriteTable(path string, report Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("explain: ensure dir: %w", err)
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("explain: create table file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"cell_id", "aucs", "unscored", "subscore", "value", "top_contributor_amenity_id", "top_contributor_category", "top_contributor_best_mode", "top_contributor_value"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("explain: write header: %w", err)
	}

	for _, cell := range report.Cells {
		for name, se := range cell.Subscores {
			row := []string{
				cell.CellID,
				strconv.FormatFloat(cell.AUCS, 'g', -1, 64),
				strconv.FormatBool(cell.Unscored),
				name,
				strconv.FormatFloat(se.Value, 'g', -1, 64),
			}
			if len(se.Contributors) > 0 {
				top := se.Contributors[0]
				row = append(row, top.AmenityID, top.Category, top.BestMode, strconv.FormatFloat(top.Contribution, 'g', -1, 64))
			} else {
				row = append(row, "", "", "", "")
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("explain: write row: %w", err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("explain: flush table: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("explain: sync table: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("explain: close table: %w", err)
	}
	return os.Rename(tmp, path)
}

func atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("explain: ensure dir: %w", err)
	}
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("explain: create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("explain: write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("explain: sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("explain: close temp file: %w", err)
	}
	return os.Rename(tmp, path)
}
