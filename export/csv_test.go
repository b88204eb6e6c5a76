package export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rec struct {
	Code  string
	Name  string
	Notes string
}

var cols = []Column[rec]{
	{Header: "Code", Value: func(r rec) string { return r.Code }},
	{Header: "Name", Value: func(r rec) string { return r.Name }},
	{Header: "Notes", Value: func(r rec) string { return r.Notes }},
}

func TestWritePlain(t *testing.T) {
	var b strings.Builder
	err := Write(&b, cols, []rec{
		{"EQ001", "Mower", "shed"},
		{"EQ002", "Rake", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, "Code,Name,Notes\nEQ001,Mower,shed\nEQ002,Rake,\n", b.String())
}

func TestWriteQuoting(t *testing.T) {
	var b strings.Builder
	err := Write(&b, cols, []rec{
		{"EQ003", "Drill, cordless", `bit set "metric"` + "\nin case"},
	})
	require.NoError(t, err)

	lines := strings.SplitN(b.String(), "\n", 2)
	assert.Equal(t, "Code,Name,Notes", lines[0])
	assert.Equal(t, "EQ003,\"Drill, cordless\",\"bit set \"\"metric\"\"\nin case\"\n", lines[1])
}

func TestWriteRoundTrip(t *testing.T) {
	rows := []rec{
		{"EQ001", "Mower", "left shed"},
		{"EQ002", "Drill, cordless", `handle "loose"`},
		{"EQ003", "Ladder", "multi\nline\nnote"},
		{"EQ004", "", ","},
	}

	var b strings.Builder
	require.NoError(t, Write(&b, cols, rows))

	parsed, err := csv.NewReader(strings.NewReader(b.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, len(rows)+1)

	assert.Equal(t, []string{"Code", "Name", "Notes"}, parsed[0])
	for i, r := range rows {
		assert.Equal(t, []string{r.Code, r.Name, r.Notes}, parsed[i+1], "row %d", i)
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 31, 23, 5, 0, 0, time.UTC)
	assert.Equal(t, "equipment_2026-08-31.csv", Filename("equipment", now, "csv"))
	assert.Equal(t, "checkouts_2026-08-31.csv", Filename("checkouts", now, "csv"))
}
