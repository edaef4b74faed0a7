package main

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/climax-batch/internal/adapter/sqlstore"
	"github.com/couchcryptid/climax-batch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Deterministic(t *testing.T) {
	assert.Equal(t, generate(20, 7), generate(20, 7))
	assert.NotEqual(t, generate(20, 7), generate(20, 8))
}

func TestGenerate_IncludesIrrigationExceptions(t *testing.T) {
	trials := generate(5, 1)
	require.Len(t, trials, 7)

	for _, tr := range trials[:2] {
		assert.True(t, domain.IsIrrigationException(tr.params.CultureID))
		assert.True(t, tr.data.Irrigated)
		assert.NotNil(t, tr.data.Drought, "exception %d needs plain drought", tr.params.CultureID)
	}
}

func TestGenerate_EveryTrialBuildsARow(t *testing.T) {
	for _, tr := range generate(30, 3) {
		_, err := domain.BuildReportRow(tr.params.CultureID, tr.data)
		assert.NoError(t, err, "culture %d", tr.params.CultureID)
	}
}

func TestFixtures_InputMatchesStore(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "trials.tsv")
	dbPath := filepath.Join(dir, "climate.db")
	trials := generate(10, 42)
	ctx := context.Background()

	require.NoError(t, writeInput(inputPath, trials))
	require.NoError(t, seedStore(ctx, dbPath, trials))

	store, err := sqlstore.Open(ctx, sqlstore.DriverSQLite, dbPath)
	require.NoError(t, err)
	defer store.Close()

	f, err := os.Open(inputPath)
	require.NoError(t, err)
	defer f.Close()

	sc := bufio.NewScanner(f)
	lines := 0
	for sc.Scan() {
		params, err := domain.ParseParameterLine(sc.Text())
		require.NoError(t, err)

		data, err := store.ClimateData(ctx, params)
		require.NoError(t, err, "line %q", sc.Text())
		assert.Equal(t, trials[lines].data, data)
		lines++
	}
	require.NoError(t, sc.Err())
	assert.Equal(t, len(trials), lines)
}

func TestGenerate_UniqueCultureIDs(t *testing.T) {
	trials := generate(9000, 1)
	seen := make(map[int]bool, len(trials))
	exceptions := 0
	for _, tr := range trials {
		id := tr.params.CultureID
		assert.False(t, seen[id], "duplicate culture %d", id)
		seen[id] = true
		if domain.IsIrrigationException(id) {
			exceptions++
		}
	}
	assert.Equal(t, 2, exceptions)
}
