package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadrank-cli/internal/model"
	"github.com/sells-group/leadrank-cli/internal/scorer"
)

func scoredFixture() []model.ScoredPerson {
	return []model.ScoredPerson{
		{
			Person: model.Person{
				FirstName: "Bob", LastName: "Roy", CompanyName: "Supercell",
				Sources: []string{"mtm"},
			},
			LeadScore: 62, ContactScore: 70, Penalty: model.PenaltyNoCompany,
		},
		{
			Person: model.Person{
				FirstName: "Ann", LastName: "Lee", JobTitle: "CEO", CompanyName: "Acme Studios",
				Sources:     []string{"lisn", "mtm"},
				FirstSeen:   time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
				Annotations: map[string]string{"Outreach": "emailed"},
			},
			Seniority: 100, Domain: 55, Warmth: 10, ContactScore: 88,
			MatchedCompany: "Acme Studios", MatchConfidence: 97, CompanyScore: 92,
			LeadScore: 95, Penalty: model.PenaltyNone,
		},
		{
			Person:    model.Person{FirstName: "Cat", LastName: "Day", CompanyName: "Playrix"},
			LeadScore: 62, ContactScore: 40, Penalty: model.PenaltyNoCompany,
		},
	}
}

func TestSortPeople(t *testing.T) {
	scored := scoredFixture()
	SortPeople(scored)

	assert.Equal(t, "Ann", scored[0].FirstName)
	// Equal lead scores fall back to name order.
	assert.Equal(t, "Bob", scored[1].FirstName)
	assert.Equal(t, "Cat", scored[2].FirstName)
}

func TestWritePeopleTSV(t *testing.T) {
	scored := scoredFixture()
	SortPeople(scored)

	path := filepath.Join(t.TempDir(), "scored.tsv")
	require.NoError(t, WritePeople(path, scored))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	header := rows[0]
	assert.Equal(t, "First Name", header[0])
	assert.Equal(t, "Outreach", header[len(header)-1]) // annotation union appended

	ann := rows[1]
	assert.Equal(t, "Ann", ann[0])
	assert.Equal(t, "95", ann[4])
	assert.Equal(t, "lisn + mtm", ann[13])
	assert.Equal(t, "2026-01-10", ann[14])
	assert.Equal(t, "emailed", ann[len(ann)-1])

	bob := rows[2]
	assert.Equal(t, "no_company", bob[12])
	assert.Empty(t, bob[len(bob)-1])
}

func TestWritePeople_UnsupportedExtension(t *testing.T) {
	err := WritePeople(filepath.Join(t.TempDir(), "scored.xlsx"), scoredFixture())
	assert.Error(t, err)
}

func TestPrintPeople(t *testing.T) {
	scored := scoredFixture()
	SortPeople(scored)

	var buf bytes.Buffer
	require.NoError(t, PrintPeople(&buf, scored, 2))

	out := buf.String()
	assert.Contains(t, out, "Ann Lee")
	assert.Contains(t, out, "Bob Roy")
	assert.NotContains(t, out, "Cat Day") // beyond limit

	var empty bytes.Buffer
	require.NoError(t, PrintPeople(&empty, nil, 0))
	assert.Contains(t, empty.String(), "No results.")
}

func TestSortAndWriteCompanies(t *testing.T) {
	companies := []model.Company{
		{Name: "Beta", NormalName: "beta", Score: 40},
		{Name: "Acme Studios", NormalName: "acme", Score: 92, Blacklisted: true, BlacklistReason: "client"},
		{Name: "Alpha", NormalName: "alpha", Score: 40},
	}
	breakdowns := []scorer.CompanyBreakdown{
		{Dev: 0},
		{Dev: 10, Status: 8},
		{Dev: 5},
	}

	SortCompanies(companies, breakdowns)
	assert.Equal(t, "Acme Studios", companies[0].Name)
	assert.Equal(t, 10.0, breakdowns[0].Dev) // breakdown travels with its company
	assert.Equal(t, "Alpha", companies[1].Name)
	assert.Equal(t, "Beta", companies[2].Name)

	path := filepath.Join(t.TempDir(), "company_scores.csv")
	require.NoError(t, WriteCompanies(path, companies, breakdowns))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "Acme Studios,acme,92"))
	assert.Contains(t, lines[1], "X,client")
}

func TestWriteCompanies_LengthMismatch(t *testing.T) {
	err := WriteCompanies(filepath.Join(t.TempDir(), "out.csv"),
		[]model.Company{{Name: "Acme"}}, nil)
	assert.Error(t, err)
}
