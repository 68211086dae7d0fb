// Package match implements company-name normalization and fuzzy matching of
// people to companies. Normalization and similarity are pure functions so the
// acceptance threshold and tie-break rule are testable in isolation.
package match

import (
	"regexp"
	"strings"
)

// corporateSuffixes lists legal-entity and corporate filler words dropped
// during normalization.
var corporateSuffixes = map[string]struct{}{
	"llc": {}, "inc": {}, "ltd": {}, "gmbh": {}, "limited": {},
	"corporation": {}, "corp": {}, "plc": {}, "sa": {}, "srl": {},
	"ag": {}, "ab": {}, "oy": {}, "as": {}, "bv": {}, "sas": {},
	"sarl": {}, "sro": {}, "spa": {},
	"global": {}, "international": {}, "group": {}, "holdings": {},
	"holding": {}, "enterprises": {}, "enterprise": {},
	"company": {}, "companies": {}, "co": {}, "pty": {},
	"proprietary": {}, "private": {}, "public": {}, "incorporated": {},
	"llp": {},
}

// industrySuffixes lists sector filler words that carry no identity: two
// studios named "Acme Games" and "Acme Interactive" are the same lead.
var industrySuffixes = map[string]struct{}{
	"games": {}, "game": {}, "gaming": {}, "studio": {}, "studios": {},
	"entertainment": {}, "interactive": {}, "digital": {}, "media": {},
	"publishing": {}, "publisher": {}, "publishers": {}, "software": {},
	"tech": {}, "technology": {}, "solutions": {}, "services": {},
	"service": {}, "mobile": {}, "apps": {}, "applications": {},
	"application": {}, "app": {},
}

// domainSuffixes are TLD tails stripped from tokens like "acme.com".
var domainSuffixes = []string{
	".com", ".org", ".net", ".io", ".xyz", ".ai", ".co", ".biz",
	".info", ".app", ".games", ".game", ".tech", ".studio", ".dev",
}

var (
	parentheticalRe = regexp.MustCompile(`\([^)]*\)`)
	nonAlnumRe      = regexp.MustCompile(`[^a-z0-9\s]`)
	digitsRe        = regexp.MustCompile(`^[0-9]{1,4}$`)
)

// NormalizeName standardizes a company name for matching and deduplication:
// lowercase, drop parentheticals, strip domain tails, replace punctuation
// with spaces, drop corporate/industry suffix words and short bare numbers,
// collapse whitespace.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}

	name = parentheticalRe.ReplaceAllString(name, " ")

	// Strip domain tails before punctuation removal eats the dots.
	words := strings.Fields(name)
	for i, w := range words {
		for _, suffix := range domainSuffixes {
			if strings.HasSuffix(w, suffix) {
				words[i] = strings.TrimSuffix(w, suffix)
				break
			}
		}
	}
	name = strings.Join(words, " ")

	name = nonAlnumRe.ReplaceAllString(name, " ")

	var kept []string
	for _, w := range strings.Fields(name) {
		if _, ok := corporateSuffixes[w]; ok {
			continue
		}
		if _, ok := industrySuffixes[w]; ok {
			continue
		}
		if digitsRe.MatchString(w) {
			continue
		}
		kept = append(kept, w)
	}

	return strings.Join(kept, " ")
}
