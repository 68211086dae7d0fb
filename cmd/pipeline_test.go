package main

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execCLI runs the root command as a user would, against the temp store set
// up by the caller's environment.
func execCLI(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestPipelineEndToEnd(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LEADRANK_STORE_DRIVER", "sqlite")
	t.Setenv("LEADRANK_STORE_PATH", "leadrank.db")

	staging := "COMPANY_STAGING.tsv"
	require.NoError(t, os.WriteFile(staging, []byte(
		"Company Name\tMakes Games\tF2P\tMobile\tFounded Year\tRev <30D (ST)\t"+
			"Current Employee Count (GJ)\tClose Status\tClose Status Change Dt\n"+
			"Acme Studios\tX\tX\tX\t2024\t$9,000\t120\tQualified\t2026-01-10\n"+
			"Supercell\tX\t\t\t2010\t$50,000\t600\t\t\n"+
			"Ghost Co\t\t\t\t\t\t\t\t\n"), 0o644))

	people := "lisn_v1.csv"
	require.NoError(t, os.WriteFile(people, []byte(
		"First Name,Last Name,Job Title,Company\n"+
			"Ann,Lee,CEO,Acme Studios\n"+
			"Bob,Roy,Director of UA,Supercell Oy\n"+
			"Cat,Day,,Unknown Startup\n"), 0o644))

	require.NoError(t, execCLI(t, "companies", "import", staging))
	require.NoError(t, execCLI(t, "score", "companies", "--limit", "0"))

	require.NoError(t, execCLI(t, "accum", "add", "--conference", "gdc_sf_26", "--label", "lisn", people))

	// Second add of the same file is idempotent: everyone merges.
	require.NoError(t, execCLI(t, "accum", "add", "--conference", "gdc_sf_26", "--label", "lisn", people))

	require.NoError(t, execCLI(t, "accum", "status", "--conference", "gdc_sf_26"))

	scored := "scored_people_2026-02-14_v1.csv"
	require.NoError(t, execCLI(t, "score", "people",
		"--conference", "gdc_sf_26", "--version", "v1", "--output", scored))

	data, err := os.ReadFile(scored)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4) // header + 3 people
	assert.Contains(t, lines[0], "Lead Score")

	require.NoError(t, execCLI(t, "velocity", "--conference", "gdc_sf_26"))
	require.NoError(t, execCLI(t, "velocity", "--conference", "gdc_sf_26", "--format", "markdown"))

	require.NoError(t, execCLI(t, "baseline", "rebuild", scored, "--master", "master.csv"))
	assert.FileExists(t, "store/baselines/master_people_stats.json")
	assert.FileExists(t, "master.csv")

	// Absolute mode normalizes against the baseline just written.
	require.NoError(t, execCLI(t, "score", "people",
		"--conference", "gdc_sf_26", "--version", "v2", "--absolute", "--output", scored))
}

func TestPipeline_ScorePeopleWithoutAccum(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LEADRANK_STORE_DRIVER", "sqlite")
	t.Setenv("LEADRANK_STORE_PATH", "leadrank.db")

	err := execCLI(t, "score", "people", "--conference", "nowhere_26", "--output", "out.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no accumulated set")
}
