package match

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Similarity tuning. False matches are worse than missed matches, so every
// gate below errs toward rejection.
const (
	exactScore       = 100.0
	containmentScore = 97.0
	lengthRatioGate  = 0.8
	containRatioGate = 0.9
	containMinLen    = 5
	ratioGate        = 0.98
)

// Similarity scores two raw company names 0-100, normalizing both sides
// first.
func Similarity(a, b string) float64 {
	return SimilarityNormalized(NormalizeName(a), NormalizeName(b))
}

// SimilarityNormalized scores two pre-normalized company names 0-100:
// exact equality scores 100; grossly different lengths score 0; one name
// containing the other scores 97; otherwise a character-level alignment
// ratio must clear a high floor or the pair scores 0.
func SimilarityNormalized(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return exactScore
	}

	minLen, maxLen := len(a), len(b)
	if minLen > maxLen {
		minLen, maxLen = maxLen, minLen
	}
	lenRatio := float64(minLen) / float64(maxLen)
	if lenRatio < lengthRatioGate {
		return 0
	}

	if (strings.Contains(a, b) || strings.Contains(b, a)) &&
		minLen >= containMinLen && lenRatio > containRatioGate {
		return containmentScore
	}

	ratio := difflib.NewMatcher(chars(a), chars(b)).Ratio()
	if ratio >= ratioGate {
		return ratio * 100
	}
	return 0
}

// chars splits a string into single-character sequence elements for the
// alignment matcher.
func chars(s string) []string {
	return strings.Split(s, "")
}
