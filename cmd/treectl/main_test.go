package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/familytree/internal/core"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCensuses(t *testing.T) {
	out, err := run(t, "censuses")
	require.NoError(t, err)
	assert.Contains(t, out, "us-1880")
	assert.Contains(t, out, "en-1881")

	out, err = run(t, "censuses", "England")
	require.NoError(t, err)
	assert.Contains(t, out, "en-1881")
	assert.NotContains(t, out, "us-1880")

	out, err = run(t, "censuses", "Toronto, Ontario, Canada")
	require.NoError(t, err)
	assert.Contains(t, out, "ca-1901")

	_, err = run(t, "censuses", "Atlantis")
	assert.Error(t, err)
}

func TestCensusArgs(t *testing.T) {
	_, err := run(t, "census", "demo", "us-1880")
	assert.Error(t, err, "three arguments are required")

	_, err = run(t, "census", "demo", "xx-1066", "I1")
	assert.ErrorIs(t, err, core.ErrCensusNotFound, "unknown censuses fail before connecting")
}

func TestWriteCensusReport(t *testing.T) {
	var out bytes.Buffer
	writeCensusReport(&out, &core.CensusReport{
		Title:    "US 1880",
		Place:    "United States",
		Date:     time.Date(1880, time.June, 1, 0, 0, 0, 0, time.UTC),
		Headings: []core.CensusHeading{{Abbreviation: "Name"}, {Abbreviation: "Age"}},
		Rows:     []core.CensusRow{{Cells: []string{"John Smith", "40"}}},
	})

	lines := strings.Split(out.String(), "\n")
	assert.Equal(t, "US 1880, United States, 1 June 1880", lines[0])
	assert.Contains(t, out.String(), "John Smith")
	assert.Contains(t, out.String(), "Age")
}

func TestWriteCleanupReport(t *testing.T) {
	var out bytes.Buffer
	ids := writeCleanupReport(&app{out: &out}, core.CleanupReport{
		Months:     6,
		Inactive:   []core.User{{ID: 2, UserName: "old"}, {ID: 1, UserName: "root", SiteAdmin: true}},
		Unverified: []core.User{{ID: 5, UserName: "new"}},
	})

	assert.Equal(t, []int32{2, 5}, ids)
	assert.Contains(t, out.String(), "inactive for 6 months")
	assert.Contains(t, out.String(), "administrator, kept")
}
