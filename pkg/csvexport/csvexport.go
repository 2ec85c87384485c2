package csvexport

import (
	"encoding/csv"
	"fmt"
	"net/http"
)

// Write streams a CSV document with the given header and rows. Every row
// must have the same width as the header.
func Write(w http.ResponseWriter, filename string, header []string, rows [][]string) error {
	if len(header) == 0 {
		return fmt.Errorf("csv header is required")
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for i, row := range rows {
		if len(row) != len(header) {
			return fmt.Errorf("csv row %d has %d columns, header has %d", i, len(row), len(header))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
