package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
)

// Baseline is the persisted min/max statistics of a reference population,
// used to normalize small new datasets against a fixed historical frame
// instead of against themselves. Rebuilt by the baseline rebuild command.
type Baseline struct {
	GeneratedAt  time.Time `json:"generated_at"`
	ContactScore Range     `json:"contact_score"`
	LeadScore    Range     `json:"lead_score"`
	Population   int       `json:"population"`
	SourceLists  []string  `json:"source_lists,omitempty"`
}

// LoadBaseline reads a baseline artifact from disk. A missing file is not an
// error; it returns (nil, nil) and callers fall back to relative mode.
func LoadBaseline(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "stats: read baseline %s", path)
	}

	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, eris.Wrapf(err, "stats: parse baseline %s", path)
	}
	return &b, nil
}

// SaveBaseline writes a baseline artifact atomically (temp file + rename) so
// an aborted run never leaves a half-written frame of reference behind.
func SaveBaseline(path string, b Baseline) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return eris.Wrap(err, "stats: marshal baseline")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "stats: create baseline dir for %s", path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".baseline-*")
	if err != nil {
		return eris.Wrap(err, "stats: create temp baseline")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return eris.Wrap(err, "stats: write temp baseline")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return eris.Wrap(err, "stats: close temp baseline")
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return eris.Wrapf(err, "stats: rename baseline into place %s", path)
	}
	return nil
}
