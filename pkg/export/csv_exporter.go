package export

import (
	"fmt"
	"strings"
)

// Dataset defines tabular export content. Rows are ordered column slices
// aligned with Headers.
type Dataset struct {
	Headers []string
	Rows    [][]string
	// QuotedColumns lists column indexes that are always double-quote
	// wrapped in CSV output. All other columns are written verbatim:
	// they carry controlled vocabularies or validated numeric/date
	// values, never free text.
	QuotedColumns []int
}

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}

	quoted := make(map[int]bool, len(data.QuotedColumns))
	for _, idx := range data.QuotedColumns {
		quoted[idx] = true
	}

	var b strings.Builder
	b.WriteString(strings.Join(data.Headers, ","))
	for _, row := range data.Rows {
		if len(row) != len(data.Headers) {
			return nil, fmt.Errorf("csv row has %d fields, want %d", len(row), len(data.Headers))
		}
		b.WriteByte('\n')
		for i, field := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			if quoted[i] {
				b.WriteByte('"')
				b.WriteString(field)
				b.WriteByte('"')
			} else {
				b.WriteString(field)
			}
		}
	}

	return []byte(b.String()), nil
}
