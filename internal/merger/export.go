// internal/merger/export.go
package merger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github-repo-report/internal/model"
	"github-repo-report/internal/store"
)

// ExportJSON writes records as a pretty-printed JSON array.
func ExportJSON(path string, records []model.CombinedRecord) error {
	if records == nil {
		records = []model.CombinedRecord{}
	}
	return store.WriteJSON(path, records)
}

// ExportCSV writes records as a CRLF-terminated CSV table headed by the
// CombinedRecord columns. An empty collection produces an empty file.
func ExportCSV(path string, records []model.CombinedRecord) (err error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if len(records) == 0 {
		return nil
	}

	w := csv.NewWriter(f)
	w.UseCRLF = true
	if err := w.Write(model.CombinedColumns()); err != nil {
		return err
	}
	for _, r := range records {
		if err := w.Write(row(r)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func row(r model.CombinedRecord) []string {
	fields := r.Fields()
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = cell(f.Value)
	}
	return out
}

// cell stringifies a field value; nil becomes an empty cell.
func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprint(t)
	}
}
