// Package ingest reads tabular attendee and company files (CSV, TSV, XLSX)
// into pipeline records.
package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Options configures table reading. Encoding is an IANA charset name for
// non-UTF-8 CSV/TSV input ("" means UTF-8); it does not apply to XLSX.
type Options struct {
	Encoding string
	Sheet    string // XLSX sheet name, first sheet when empty
}

// readTable loads the whole file as rows of strings, dispatching on the file
// extension. The first row is the header.
func readTable(path string, opts Options) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readDelimited(path, ',', opts.Encoding)
	case ".tsv", ".txt":
		return readDelimited(path, '\t', opts.Encoding)
	case ".xlsx":
		return readXLSX(path, opts.Sheet)
	default:
		return nil, eris.Errorf("ingest: unsupported file type: %s", path)
	}
}

func readDelimited(path string, delimiter rune, encoding string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open file")
	}
	defer f.Close()

	var r io.Reader = f
	if encoding != "" {
		enc, err := htmlindex.Get(encoding)
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: unknown encoding %q", encoding)
		}
		r = transform.NewReader(f, enc.NewDecoder())
	}

	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1 // allow variable fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "ingest: read row")
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func readXLSX(path, sheetName string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open xlsx")
	}

	var sheet *xlsx.Sheet
	if sheetName != "" {
		s, ok := f.Sheet[sheetName]
		if !ok {
			return nil, eris.Errorf("ingest: sheet %q not found", sheetName)
		}
		sheet = s
	} else {
		if len(f.Sheets) == 0 {
			return nil, eris.Errorf("ingest: no sheets in %s", path)
		}
		sheet = f.Sheets[0]
	}

	var rows [][]string
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// header maps lowercased, trimmed column names to their positions. Duplicate
// names keep the first occurrence.
type header map[string]int

func newHeader(row []string) header {
	h := make(header, len(row))
	for i, name := range row {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := h[key]; !ok {
			h[key] = i
		}
	}
	return h
}

// get returns the trimmed cell under the first of the given column names that
// exists in the header.
func (h header) get(row []string, names ...string) string {
	for _, name := range names {
		i, ok := h[name]
		if !ok || i >= len(row) {
			continue
		}
		return strings.TrimSpace(row[i])
	}
	return ""
}

func (h header) has(name string) bool {
	_, ok := h[name]
	return ok
}
