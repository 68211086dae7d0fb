// Package scorer implements contact, company, confidence, and lead scoring
// over explicit population snapshots.
package scorer

import "github.com/sells-group/leadrank-cli/internal/model"

const (
	// noCompanyPenalty keeps 30% of the contact score when the person's
	// employer could not be matched to the company store.
	noCompanyPenalty = 0.30

	// noTitlePenalty keeps 60% of the company score when the person matched
	// a company but carries no job title.
	noTitlePenalty = 0.60

	// floorScore is the fixed lead score for a person with neither a title
	// nor a company. It bypasses normalization entirely.
	floorScore = 5.0
)

// ComposeLead combines a raw contact score and a matched company score into a
// raw lead score. The four branches are mutually exclusive; the returned
// penalty records which one applied. Floor rows must not enter the lead-score
// normalization population.
func ComposeLead(contact, company float64, matched, hasTitle bool) (float64, model.Penalty) {
	switch {
	case matched && hasTitle:
		return contact / 100 * company, model.PenaltyNone
	case !matched && hasTitle:
		return contact * noCompanyPenalty, model.PenaltyNoCompany
	case matched && !hasTitle:
		return company * noTitlePenalty, model.PenaltyNoTitle
	default:
		return floorScore, model.PenaltyFloor
	}
}
