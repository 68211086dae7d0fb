package ingest

import (
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadrank-cli/internal/model"
)

// recomputedColumns are score outputs present in annotated snapshot exports.
// They are recomputed on every run, so re-ingesting them would only feed
// stale values back into the pipeline.
var recomputedColumns = map[string]bool{
	"lead score":        true,
	"contact score":     true,
	"company score":     true,
	"seniority":         true,
	"domain":            true,
	"warmth":            true,
	"matched company":   true,
	"match confidence":  true,
	"penalty":           true,
	"confidence":        true,
	"normal company":    true,
	"raw contact score": true,
	"raw lead score":    true,
}

// coreColumns are mapped onto Person fields directly; anything else that is
// not recomputed rides along as an annotation.
var coreColumns = map[string]bool{
	"first name":   true,
	"last name":    true,
	"job title":    true,
	"title":        true,
	"company":      true,
	"company name": true,
	"source":       true,
	"first seen":   true,
	"last updated": true,
	"date created": true,
	"date updated": true,
}

// ReadPeople parses an attendee file into Person records. First Name and
// Last Name columns are required; rows with both blank are dropped. Columns
// that are neither core fields nor recomputed scores are preserved verbatim
// in Annotations.
func ReadPeople(path string, opts Options) ([]model.Person, error) {
	rows, err := readTable(path, opts)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("ingest: %s is empty", path)
	}

	h := newHeader(rows[0])
	if !h.has("first name") || !h.has("last name") {
		return nil, eris.Errorf("ingest: %s missing required columns First Name, Last Name", path)
	}

	annotationCols := annotationColumns(rows[0])

	var people []model.Person
	skipped := 0
	for _, row := range rows[1:] {
		p := model.Person{
			FirstName:   h.get(row, "first name"),
			LastName:    h.get(row, "last name"),
			JobTitle:    h.get(row, "job title", "title"),
			CompanyName: h.get(row, "company", "company name"),
		}
		if p.FirstName == "" && p.LastName == "" {
			skipped++
			continue
		}

		if src := h.get(row, "source"); src != "" {
			p.Sources = splitSources(src)
		}

		for _, col := range annotationCols {
			if v := h.get(row, strings.ToLower(col)); v != "" {
				if p.Annotations == nil {
					p.Annotations = map[string]string{}
				}
				p.Annotations[col] = v
			}
		}

		people = append(people, p)
	}

	zap.L().Info("parsed people file",
		zap.String("path", path),
		zap.Int("rows", len(people)),
		zap.Int("skipped_no_name", skipped),
	)
	return people, nil
}

// annotationColumns returns the original-cased header names that pass through
// as annotations, in file order.
func annotationColumns(headerRow []string) []string {
	var cols []string
	seen := map[string]bool{}
	for _, name := range headerRow {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] || coreColumns[key] || recomputedColumns[key] {
			continue
		}
		seen[key] = true
		cols = append(cols, name)
	}
	return cols
}

// splitSources splits a compound source cell ("LISN v1 + MTM Scrape 3") into
// individual labels.
func splitSources(s string) []string {
	var out []string
	for _, part := range strings.Split(s, "+") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
