package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"accum", "score", "companies", "baseline", "velocity"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "leadrank", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestAccumCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range accumCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"add", "ingest", "status"} {
		assert.True(t, names[name], "accum should have subcommand %q", name)
	}
}

func TestScoreCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range scoreCmd.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["companies"])
	assert.True(t, names["people"])
}

func TestScorePeopleCommand_Flags(t *testing.T) {
	for _, flagName := range []string{"conference", "version", "output", "limit", "absolute"} {
		flag := scorePeopleCmd.Flags().Lookup(flagName)
		require.NotNil(t, flag, "score people should have --%s flag", flagName)
	}
	assert.Equal(t, "25", scorePeopleCmd.Flags().Lookup("limit").DefValue)
}

func TestVelocityCommand_Flags(t *testing.T) {
	flag := velocityCmd.Flags().Lookup("format")
	require.NotNil(t, flag)
	assert.Equal(t, "text", flag.DefValue)
}

func TestBatchLabelFor(t *testing.T) {
	assert.Equal(t, "MTM Scrape 3", batchLabelFor("/data/sources/MTM Scrape 3.csv"))
	assert.Equal(t, "lisn_v1", batchLabelFor("lisn_v1.xlsx"))
}

func TestSnapshotDate(t *testing.T) {
	d := snapshotDate("output/scored_people_2026-01-17_v2.csv")
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, 17, d.Day())
}
