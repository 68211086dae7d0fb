package accum

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadrank-cli/internal/model"
)

var (
	day1 = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	day2 = time.Date(2026, 1, 17, 9, 0, 0, 0, time.UTC)
)

func TestKeyNormalization(t *testing.T) {
	a := model.Person{FirstName: "Ann", LastName: "Lee", CompanyName: "Acme Studios, Inc."}
	b := model.Person{FirstName: "ANN", LastName: "lee", CompanyName: "Acme Studios"}
	c := model.Person{FirstName: "Ann", LastName: "Lee", CompanyName: "Supercell"}

	assert.Equal(t, Key(a), Key(b))
	assert.NotEqual(t, Key(a), Key(c))
}

func TestAddSource_InsertAndMerge(t *testing.T) {
	s := NewSet("gdc_sf_26")

	st := s.AddSource([]model.Person{
		{FirstName: "Ann", LastName: "Lee", JobTitle: "CEO", CompanyName: "Acme Studios"},
		{FirstName: "Bob", LastName: "Roy", CompanyName: "Supercell"},
	}, "lisn", day1)

	assert.Equal(t, Stats{Added: 2}, st)
	require.Equal(t, 2, s.Len())

	// Second batch: Ann again (new title blank, must not clobber), Bob with
	// a title filled in, and one new person.
	st = s.AddSource([]model.Person{
		{FirstName: "Ann", LastName: "Lee", CompanyName: "Acme Studios, Inc."},
		{FirstName: "Bob", LastName: "Roy", JobTitle: "Head of UA", CompanyName: "Supercell"},
		{FirstName: "Cat", LastName: "Day", CompanyName: "Playrix"},
	}, "mtm", day2)

	assert.Equal(t, Stats{Added: 1, Merged: 2}, st)
	require.Equal(t, 3, s.Len())

	people := s.People()
	ann, bob := people[0], people[1]

	assert.Equal(t, "CEO", ann.JobTitle) // blank incoming never erases
	assert.ElementsMatch(t, []string{"lisn", "mtm"}, ann.Sources)
	assert.True(t, ann.FirstSeen.Equal(day1))
	assert.True(t, ann.LastSeen.Equal(day2))

	assert.Equal(t, "Head of UA", bob.JobTitle) // blank filled from new row
}

func TestAddSource_Idempotent(t *testing.T) {
	batch := []model.Person{
		{FirstName: "Ann", LastName: "Lee", JobTitle: "CEO", CompanyName: "Acme Studios"},
		{FirstName: "Bob", LastName: "Roy", CompanyName: "Supercell"},
	}

	s := NewSet("gdc_sf_26")
	s.AddSource(batch, "lisn", day1)
	once := s.People()

	s.AddSource(batch, "lisn", day1)
	twice := s.People()

	assert.Equal(t, once, twice)
}

func TestAddSource_MonotonicGrowth(t *testing.T) {
	s := NewSet("gdc_sf_26")
	s.AddSource([]model.Person{
		{FirstName: "Ann", LastName: "Lee", JobTitle: "CEO", CompanyName: "Acme Studios"},
	}, "lisn", day1)

	s.AddSource([]model.Person{
		{FirstName: "Zed", LastName: "Quill", CompanyName: "Playrix"},
	}, "mtm", day2)

	people := s.People()
	require.Len(t, people, 2, "existing person must survive later merges")
	assert.True(t, people[0].FirstSeen.Equal(day1))
	assert.Equal(t, "Ann", people[0].FirstName)
	assert.Equal(t, "CEO", people[0].JobTitle)
}

func TestAddSource_SkipsUnusableRows(t *testing.T) {
	s := NewSet("gdc_sf_26")
	st := s.AddSource([]model.Person{
		{CompanyName: "Acme Studios"}, // no name at all
		{FirstName: "Ann", LastName: "Lee"},
	}, "lisn", day1)

	assert.Equal(t, Stats{Added: 1, Skipped: 1}, st)
}

func TestAddSource_RefreshWithNewValue(t *testing.T) {
	s := NewSet("gdc_sf_26")
	s.AddSource([]model.Person{
		{FirstName: "Ann", LastName: "Lee", JobTitle: "Marketing Manager", CompanyName: "Acme Studios"},
	}, "lisn", day1)

	s.AddSource([]model.Person{
		{FirstName: "Ann", LastName: "Lee", JobTitle: "VP Marketing", CompanyName: "Acme Studios"},
	}, "mtm", day2)

	assert.Equal(t, "VP Marketing", s.People()[0].JobTitle)
}

func TestIngestSnapshot_AnnotationsAppendDontClobber(t *testing.T) {
	s := NewSet("gdc_sf_26")
	s.AddSource([]model.Person{
		{FirstName: "Ann", LastName: "Lee", JobTitle: "CEO", CompanyName: "Acme Studios"},
	}, "lisn", day1)

	// First snapshot round-trip adds an annotation.
	s.IngestSnapshot([]model.Person{
		{
			FirstName: "Ann", LastName: "Lee", CompanyName: "Acme Studios",
			Annotations: map[string]string{"Outreach": "emailed 1/12", "Owner": "matt"},
		},
	}, "snapshot", day2)

	// Second round-trip has a blank Outreach cell and a new note.
	s.IngestSnapshot([]model.Person{
		{
			FirstName: "Ann", LastName: "Lee", CompanyName: "Acme Studios",
			Annotations: map[string]string{"Outreach": "", "Note": "wants demo"},
		},
	}, "snapshot", day2)

	ann := s.People()[0]
	assert.Equal(t, "emailed 1/12", ann.Annotations["Outreach"])
	assert.Equal(t, "matt", ann.Annotations["Owner"])
	assert.Equal(t, "wants demo", ann.Annotations["Note"])
	assert.Equal(t, "CEO", ann.JobTitle)
}

func TestRestore(t *testing.T) {
	people := []model.Person{
		{FirstName: "Ann", LastName: "Lee", CompanyName: "Acme Studios", Sources: []string{"lisn"}, FirstSeen: day1, LastSeen: day1},
		{FirstName: "Bob", LastName: "Roy", CompanyName: "Supercell", Sources: []string{"mtm"}, FirstSeen: day1, LastSeen: day1},
	}

	s := Restore("gdc_sf_26", people)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, people, s.People())
}

func TestPeopleReturnsCopies(t *testing.T) {
	s := NewSet("gdc_sf_26")
	s.AddSource([]model.Person{
		{FirstName: "Ann", LastName: "Lee", CompanyName: "Acme Studios"},
	}, "lisn", day1)

	people := s.People()
	people[0].FirstName = "Mangled"
	people[0].Sources[0] = "mangled"

	fresh := s.People()
	assert.Equal(t, "Ann", fresh[0].FirstName)
	assert.Equal(t, []string{"lisn"}, fresh[0].Sources)
}
