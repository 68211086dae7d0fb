package ingest

import (
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadrank-cli/internal/model"
)

// ReadScored parses a scored people output file back into ScoredPerson
// records, keeping the score columns. Used by the baseline rebuild, which
// aggregates historical scored snapshots.
func ReadScored(path string, opts Options) ([]model.ScoredPerson, error) {
	rows, err := readTable(path, opts)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("ingest: %s is empty", path)
	}

	h := newHeader(rows[0])
	if !h.has("lead score") || !h.has("contact score") {
		return nil, eris.Errorf("ingest: %s is not a scored people file (no Lead Score / Contact Score)", path)
	}

	var scored []model.ScoredPerson
	for _, row := range rows[1:] {
		p := model.ScoredPerson{
			Person: model.Person{
				FirstName:   h.get(row, "first name"),
				LastName:    h.get(row, "last name"),
				JobTitle:    h.get(row, "job title", "title"),
				CompanyName: h.get(row, "company name", "company"),
			},
			LeadScore:       cellFloat(h.get(row, "lead score")),
			ContactScore:    cellFloat(h.get(row, "contact score")),
			CompanyScore:    cellFloat(h.get(row, "company score")),
			Seniority:       cellFloat(h.get(row, "seniority")),
			Domain:          cellFloat(h.get(row, "domain")),
			Warmth:          cellFloat(h.get(row, "warmth")),
			MatchedCompany:  h.get(row, "matched company"),
			MatchConfidence: cellFloat(h.get(row, "match confidence")),
			Penalty:         model.Penalty(h.get(row, "penalty")),
		}
		if p.FirstName == "" && p.LastName == "" {
			continue
		}
		if src := h.get(row, "source"); src != "" {
			p.Sources = splitSources(src)
		}
		scored = append(scored, p)
	}
	if len(scored) == 0 {
		return nil, eris.Errorf("ingest: %s has no usable rows", path)
	}
	return scored, nil
}

// cellFloat parses a score cell, treating blanks and garbage as zero.
func cellFloat(value string) float64 {
	if value == "" {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}
