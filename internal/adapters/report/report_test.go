package report_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/robuild/internal/adapters/report"
	"go.trai.ch/robuild/internal/core/domain"
)

func TestRenderer_Render(t *testing.T) {
	started := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := &domain.BuildReport{
		Package:    "my-lib",
		StartedAt:  started,
		FinishedAt: started.Add(250 * time.Millisecond),
		Chunks: []domain.ChunkReport{
			{
				Entry:        "index",
				Format:       domain.FormatESM,
				File:         "dist/index.mjs",
				Size:         2048,
				GzipSize:     700,
				Exports:      []string{"a", "b", "c", "d", "e", "f"},
				Dependencies: []string{"[platform]", "react"},
			},
			{Entry: "index", Format: domain.FormatCJS, File: "dist/cjs/index.cjs", Size: 1000},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, report.NewRenderer().Render(&buf, r))
	out := buf.String()

	assert.Contains(t, out, "ENTRY")
	assert.Contains(t, out, "dist/index.mjs")
	assert.Contains(t, out, "2.0 kB")
	assert.Contains(t, out, "a, b, c, d, +2 more")
	assert.Contains(t, out, "[platform], react")
	assert.Contains(t, out, "dist/cjs/index.cjs")
	assert.Contains(t, out, "my-lib: 2 files, 3.0 kB (700 B gzip) in 250ms")
}

func TestGzipMeasurer_GzipSizes(t *testing.T) {
	dir := t.TempDir()
	repetitive := filepath.Join(dir, "a.js")
	require.NoError(t, os.WriteFile(repetitive, []byte(strings.Repeat("export const a = 1;\n", 500)), 0o600))
	small := filepath.Join(dir, "b.js")
	require.NoError(t, os.WriteFile(small, []byte("x"), 0o600))

	sizes, err := report.NewGzipMeasurer().GzipSizes(context.Background(), []string{repetitive, small})
	require.NoError(t, err)

	require.Len(t, sizes, 2)
	assert.Positive(t, sizes[repetitive])
	assert.Less(t, sizes[repetitive], int64(500*20))
	assert.Positive(t, sizes[small])
}

func TestGzipMeasurer_MissingFile(t *testing.T) {
	_, err := report.NewGzipMeasurer().GzipSizes(context.Background(), []string{filepath.Join(t.TempDir(), "missing.js")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open file")
}
