package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cluster "github.com/yyyoichi/subsidy_cluster"
)

const testCSV = `TotalUnits,ActiveSubs,Latitude,Longitude,OwnerType
1,1,41.8,-87.6,A
2,2,41.8,-87.6,A
99,99,41.9,-87.7,B
100,100,41.9,-87.7,B
oops,3,41.9,-87.7,B
`

func writeCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cleaned.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o644))
	return path
}

func TestParseFlags(t *testing.T) {
	cfg, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, cluster.DefaultK, cfg.k)
	assert.Equal(t, cluster.DefaultMaxIterations, cfg.maxIter)
	assert.Equal(t, "output", cfg.outDir)

	cfg, err = parseFlags([]string{"-k", "2", "-init", "spaced", "-seed", "9"})
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.k)
	assert.Equal(t, uint64(9), cfg.seed)
	strategy, err := cfg.initStrategy()
	require.NoError(t, err)
	assert.Equal(t, cluster.InitSpaced, strategy)

	_, err = parseFlags([]string{"-import"})
	assert.Error(t, err)

	cfg, err = parseFlags([]string{"-init", "random"})
	require.NoError(t, err)
	_, err = cfg.initStrategy()
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	t.Run("csv to chart", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "output")
		cfg, err := parseFlags([]string{"-csv", writeCSV(t), "-k", "2", "-out", outDir})
		require.NoError(t, err)

		var out bytes.Buffer
		require.NoError(t, run(ctx, cfg, &out, logger))
		text := out.String()
		assert.Contains(t, text, "Loaded 4 cleaned housing entries.")
		assert.Contains(t, text, "Cluster centroids:")
		assert.Contains(t, text, "Cluster 0: 2 properties")
		assert.Contains(t, text, "Cluster 1: 2 properties")
		assert.Contains(t, text, "OwnerType distribution by cluster:")
		assert.Contains(t, text, "A: 2")
		assert.Contains(t, text, "B: 2")
		assert.Contains(t, text, "Saved plot to "+filepath.Join(outDir, "clusters_1.html"))
		assert.FileExists(t, filepath.Join(outDir, "clusters_1.html"))
	})

	t.Run("import then read from the store", func(t *testing.T) {
		db := filepath.Join(t.TempDir(), "properties.db")
		csvPath := writeCSV(t)

		cfg, err := parseFlags([]string{"-csv", csvPath, "-db", db, "-import", "-k", "2", "-no-chart"})
		require.NoError(t, err)
		var out bytes.Buffer
		require.NoError(t, run(ctx, cfg, &out, logger))

		// importing again replaces the stored records
		out.Reset()
		require.NoError(t, run(ctx, cfg, &out, logger))

		cfg, err = parseFlags([]string{"-csv", "does-not-exist.csv", "-db", db, "-k", "2", "-no-chart"})
		require.NoError(t, err)
		out.Reset()
		require.NoError(t, run(ctx, cfg, &out, logger))
		assert.Contains(t, out.String(), "Loaded 4 cleaned housing entries.")
		assert.NotContains(t, out.String(), "Saved plot")
	})

	t.Run("k larger than data", func(t *testing.T) {
		cfg, err := parseFlags([]string{"-csv", writeCSV(t), "-k", "5", "-no-chart"})
		require.NoError(t, err)
		err = run(ctx, cfg, &bytes.Buffer{}, logger)
		assert.ErrorIs(t, err, cluster.ErrInvalidClusterCount)
	})
}

func TestPrintSummary(t *testing.T) {
	res := &cluster.Result{
		Centroids: []cluster.Vector{{0, 0}, {1, 1}},
		Summary: cluster.Summary{
			Centroids:         []cluster.Centroid{{TotalUnits: 2, SubsidyCount: 1}, {TotalUnits: 100, SubsidyCount: 0}},
			Sizes:             []int{3, 0},
			OwnerDistribution: []map[string]int{{"Public": 1, "Multiple": 2}, {}},
		},
		Iterations: 100,
	}
	var buf bytes.Buffer
	printSummary(&buf, res)
	text := buf.String()
	assert.Contains(t, text, "Total Units: 2\nActive Subsidies: 1\n")
	assert.Contains(t, text, "Cluster 1: 0 properties")
	assert.True(t, strings.Index(text, "Multiple: 2") < strings.Index(text, "Public: 1"), "owners are sorted")
	assert.Contains(t, text, "stopped after 100 iterations")
}
