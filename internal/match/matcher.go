package match

import (
	"sort"
	"strings"

	"github.com/sells-group/leadrank-cli/internal/model"
)

// DefaultThreshold is the hard acceptance threshold for a company match.
// Below it a person stays unmatched.
const DefaultThreshold = 90.0

// candidate is one company the matcher can attach a person to.
type candidate struct {
	name       string
	normalName string
	score      float64
}

// Matcher resolves employer strings to the single best company candidate at
// or above the acceptance threshold.
type Matcher struct {
	threshold  float64
	candidates []candidate
}

// NewMatcher builds a matcher over the company population. Candidates are
// held in lexical order of canonical name, so equal-similarity ties always
// resolve to the lexically smallest candidate regardless of input order.
func NewMatcher(companies []model.Company, threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	cands := make([]candidate, 0, len(companies))
	for _, c := range companies {
		normal := c.NormalName
		if normal == "" {
			normal = NormalizeName(c.Name)
		}
		if strings.TrimSpace(normal) == "" {
			continue
		}
		cands = append(cands, candidate{name: c.Name, normalName: normal, score: c.Score})
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].name < cands[j].name })

	return &Matcher{threshold: threshold, candidates: cands}
}

// Best returns the highest-similarity candidate at or above the threshold
// for the given employer string, or ok=false when the person stays
// unmatched. An empty or all-blank employer attempts no match.
func (m *Matcher) Best(employer string) (model.MatchResult, bool) {
	normal := NormalizeName(employer)
	if normal == "" {
		return model.MatchResult{}, false
	}

	var best model.MatchResult
	found := false
	for _, c := range m.candidates {
		sim := SimilarityNormalized(normal, c.normalName)
		if sim < m.threshold {
			continue
		}
		// Strict greater-than keeps the first (lexically smallest) candidate
		// on equal similarity.
		if !found || sim > best.Confidence {
			best = model.MatchResult{CompanyName: c.name, Confidence: sim, CompanyScore: c.score}
			found = true
		}
	}
	return best, found
}
