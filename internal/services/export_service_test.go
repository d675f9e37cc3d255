package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteWorkbook(t *testing.T) {
	env := newTestEnv(t)
	seeded, err := NewSeedService(env.personRepo, env.relationshipRepo).Seed()
	require.NoError(t, err)

	export := NewExportService(env.personRepo, env.relationshipRepo)
	export.now = func() time.Time { return time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC) }

	var buf bytes.Buffer
	require.NoError(t, export.WriteWorkbook(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{peopleSheet, relationshipsSheet}, f.GetSheetList())

	people, err := f.GetRows(peopleSheet)
	require.NoError(t, err)
	require.Len(t, people, seeded.Persons+1)
	assert.Equal(t, "Full name", people[0][1])

	// rows follow the default name ordering
	assert.Equal(t, "Elizabeth Davis", people[1][1])
	assert.Equal(t, "1952-09-08", people[1][3])
	assert.Equal(t, "71", people[1][5])
	assert.Equal(t, "TRUE", people[1][6])

	relationships, err := f.GetRows(relationshipsSheet)
	require.NoError(t, err)
	assert.Len(t, relationships, seeded.Relationships+1)
}
