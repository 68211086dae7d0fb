// Package model defines the core records shared across the scoring pipeline.
package model

import (
	"strings"
	"time"
)

// Penalty identifies which lead-score penalty branch was applied.
type Penalty string

// Penalty branches, mutually exclusive.
const (
	PenaltyNone      Penalty = "none"       // company matched and title present
	PenaltyNoCompany Penalty = "no_company" // contact score cut to 30%
	PenaltyNoTitle   Penalty = "no_title"   // company score cut to 60%
	PenaltyFloor     Penalty = "floor"      // neither present, fixed floor score
)

// Engagement is a single dated engagement signal attached to a person,
// consumed by the warmth pillar.
type Engagement struct {
	Vector     string    `json:"vector"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Person is one row of the accumulated set for a conference.
type Person struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	JobTitle    string `json:"job_title,omitempty"`
	CompanyName string `json:"company_name,omitempty"`

	// Sources is the membership tag set: every batch label that has ever
	// contributed this person. Grows monotonically, never shrinks.
	Sources   []string  `json:"sources"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`

	// Annotations are opaque passthrough columns (externally added in the
	// spreadsheet UI). The accumulator carries them, never interprets them.
	Annotations map[string]string `json:"annotations,omitempty"`

	Engagements []Engagement `json:"engagements,omitempty"`

	Blacklisted bool `json:"blacklisted,omitempty"`
}

// FullName joins first and last name, trimming when either is blank.
func (p Person) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// HasTitle reports whether the person has a non-blank job title.
func (p Person) HasTitle() bool {
	return strings.TrimSpace(p.JobTitle) != ""
}

// HasSource reports whether label is already in the membership tag set.
func (p Person) HasSource(label string) bool {
	for _, s := range p.Sources {
		if s == label {
			return true
		}
	}
	return false
}

// SourceBatch identifies one immutable capture of people from one channel.
type SourceBatch struct {
	ID         string    `json:"id"`
	Conference string    `json:"conference"`
	Label      string    `json:"label"`
	IngestedAt time.Time `json:"ingested_at"`
	RowCount   int       `json:"row_count"`
}

// MatchResult is the outcome of matching a person's employer string against
// the company store. Confidence is the similarity score, 0-100.
type MatchResult struct {
	CompanyName  string  `json:"company_name"`
	Confidence   float64 `json:"confidence"`
	CompanyScore float64 `json:"company_score"`
}

// ScoredPerson is one row of the sorted output table.
type ScoredPerson struct {
	Person

	Seniority    float64 `json:"seniority"`
	Domain       float64 `json:"domain"`
	Warmth       float64 `json:"warmth"`
	ContactScore float64 `json:"contact_score"`

	MatchedCompany  string  `json:"matched_company,omitempty"`
	MatchConfidence float64 `json:"match_confidence,omitempty"`
	CompanyScore    float64 `json:"company_score,omitempty"`

	LeadScore float64 `json:"lead_score"`
	Penalty   Penalty `json:"penalty"`
}
