// Package accum implements the append-only accumulated set for a conference:
// deduplicated merging of source batches and annotated snapshot re-ingestion.
// The set only ever grows; there is no deletion transition.
package accum

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadrank-cli/internal/match"
	"github.com/sells-group/leadrank-cli/internal/model"
)

// Key computes the dedup key for a person: normalized full name plus
// normalized company, exact-match on the normalized strings. It reuses the
// matcher's normalization pass but none of its similarity scoring.
func Key(p model.Person) string {
	return match.NormalizeName(p.FullName()) + "|" + match.NormalizeName(p.CompanyName)
}

// Stats summarizes one merge.
type Stats struct {
	Added   int
	Merged  int
	Skipped int
}

// Set is one conference's accumulated working set. Insertion order is
// preserved so repeated runs produce stable output.
type Set struct {
	conference string
	people     map[string]*model.Person
	order      []string
}

// NewSet returns an empty accumulated set for a conference.
func NewSet(conference string) *Set {
	return &Set{
		conference: conference,
		people:     make(map[string]*model.Person),
	}
}

// Restore rebuilds a set from previously persisted people, preserving their
// order.
func Restore(conference string, people []model.Person) *Set {
	s := NewSet(conference)
	for _, p := range people {
		key := Key(p)
		if _, ok := s.people[key]; ok {
			continue
		}
		cp := clonePerson(p)
		s.people[key] = &cp
		s.order = append(s.order, key)
	}
	return s
}

// Conference returns the conference key the set belongs to.
func (s *Set) Conference() string { return s.conference }

// Len returns the number of accumulated people.
func (s *Set) Len() int { return len(s.order) }

// People returns the accumulated people in insertion order.
func (s *Set) People() []model.Person {
	out := make([]model.Person, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, clonePerson(*s.people[key]))
	}
	return out
}

// AddSource merges a source batch into the set under the given membership
// label. Rows without a usable name are skipped; duplicate keys merge
// deterministically and never lose a row.
func (s *Set) AddSource(rows []model.Person, label string, now time.Time) Stats {
	return s.merge(rows, label, now)
}

// IngestSnapshot merges a previously exported, externally annotated snapshot
// back into the set. Same merge rule as AddSource; annotation columns follow
// append-don't-clobber, so a blank incoming value never clears one somebody
// typed into the exported sheet.
func (s *Set) IngestSnapshot(rows []model.Person, label string, now time.Time) Stats {
	return s.merge(rows, label, now)
}

func (s *Set) merge(rows []model.Person, label string, now time.Time) Stats {
	var st Stats
	for _, row := range rows {
		if match.NormalizeName(row.FullName()) == "" {
			st.Skipped++
			continue
		}
		key := Key(row)
		existing, ok := s.people[key]
		if !ok {
			p := clonePerson(row)
			if label != "" && !p.HasSource(label) {
				p.Sources = append(p.Sources, label)
			}
			if p.FirstSeen.IsZero() {
				p.FirstSeen = now
			}
			p.LastSeen = now
			s.people[key] = &p
			s.order = append(s.order, key)
			st.Added++
			continue
		}
		mergePerson(existing, row, label, now)
		st.Merged++
	}
	zap.L().Info("batch merged",
		zap.String("conference", s.conference),
		zap.String("label", label),
		zap.Int("added", st.Added),
		zap.Int("merged", st.Merged),
		zap.Int("skipped", st.Skipped),
		zap.Int("total", s.Len()))
	return st
}

// mergePerson folds an incoming row into an existing person. Non-blank
// incoming values win; blank incoming values never erase anything; the
// membership tag set and annotations only grow.
func mergePerson(dst *model.Person, src model.Person, label string, now time.Time) {
	dst.JobTitle = preferNonBlank(dst.JobTitle, src.JobTitle)
	dst.CompanyName = preferNonBlank(dst.CompanyName, src.CompanyName)
	dst.FirstName = preferNonBlank(dst.FirstName, src.FirstName)
	dst.LastName = preferNonBlank(dst.LastName, src.LastName)

	if label != "" && !dst.HasSource(label) {
		dst.Sources = append(dst.Sources, label)
	}
	for _, tag := range src.Sources {
		if tag != "" && !dst.HasSource(tag) {
			dst.Sources = append(dst.Sources, tag)
		}
	}

	for k, v := range src.Annotations {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if dst.Annotations == nil {
			dst.Annotations = make(map[string]string)
		}
		dst.Annotations[k] = v
	}

	for _, e := range src.Engagements {
		if !hasEngagement(dst.Engagements, e) {
			dst.Engagements = append(dst.Engagements, e)
		}
	}

	if src.Blacklisted {
		dst.Blacklisted = true
	}
	dst.LastSeen = now
}

func preferNonBlank(existing, incoming string) string {
	if strings.TrimSpace(incoming) != "" {
		return incoming
	}
	return existing
}

func hasEngagement(list []model.Engagement, e model.Engagement) bool {
	for _, x := range list {
		if x.Vector == e.Vector && x.OccurredAt.Equal(e.OccurredAt) {
			return true
		}
	}
	return false
}

func clonePerson(p model.Person) model.Person {
	cp := p
	cp.Sources = append([]string(nil), p.Sources...)
	cp.Engagements = append([]model.Engagement(nil), p.Engagements...)
	if p.Annotations != nil {
		cp.Annotations = make(map[string]string, len(p.Annotations))
		for k, v := range p.Annotations {
			cp.Annotations[k] = v
		}
	}
	return cp
}
