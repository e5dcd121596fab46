package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/robuild/internal/core/domain"
)

func chunk(id string, entry bool, imports ...string) domain.Chunk {
	return domain.Chunk{
		ID:       domain.NewInternedString(id),
		FileName: id,
		IsEntry:  entry,
		Imports:  imports,
	}
}

func TestDependencyResolver_SeesThroughInternalChunks(t *testing.T) {
	g := domain.NewChunkGraph("dist", domain.PlatformNode, []domain.Chunk{
		chunk("a.mjs", true, "_chunks/b.mjs"),
		chunk("_chunks/b.mjs", false, "c"),
	})

	r := domain.NewDependencyResolver()
	assert.Equal(t, []string{"c"}, r.Resolve(g, "a.mjs"))
}

func TestDependencyResolver_BuiltinsCollapse(t *testing.T) {
	g := domain.NewChunkGraph("dist", domain.PlatformNode, []domain.Chunk{
		chunk("index.mjs", true, "node:fs", "path", "zod", "zod", "fs/promises", "_chunks/x.mjs"),
		chunk("_chunks/x.mjs", false, "@scope/pkg/sub", "events"),
	})

	r := domain.NewDependencyResolver()
	assert.Equal(t, []string{"@scope/pkg/sub", domain.PlatformSentinel, "zod"}, r.Resolve(g, "index.mjs"))
}

func TestDependencyResolver_BrowserKeepsPolyfills(t *testing.T) {
	tests := []struct {
		name     string
		platform domain.Platform
	}{
		{name: "browser", platform: domain.PlatformBrowser},
		{name: "neutral", platform: domain.PlatformNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := domain.NewChunkGraph("dist", tt.platform, []domain.Chunk{
				chunk("index.js", true, "buffer", "events", "node:fs"),
			})

			r := domain.NewDependencyResolver()
			assert.Equal(t, []string{domain.PlatformSentinel, "buffer", "events"}, r.Resolve(g, "index.js"))
		})
	}
}

func TestDependencyResolver_MemoIsPlatformScoped(t *testing.T) {
	chunks := []domain.Chunk{chunk("index.js", true, "util")}
	node := domain.NewChunkGraph("dist", domain.PlatformNode, chunks)
	browser := domain.NewChunkGraph("dist", domain.PlatformBrowser, chunks)

	r := domain.NewDependencyResolver()
	assert.Equal(t, []string{domain.PlatformSentinel}, r.Resolve(node, "index.js"))
	assert.Equal(t, []string{"util"}, r.Resolve(browser, "index.js"))
}

func TestDependencyResolver_EmptyAndUnknown(t *testing.T) {
	g := domain.NewChunkGraph("dist", domain.PlatformNode, []domain.Chunk{chunk("a.mjs", true)})

	r := domain.NewDependencyResolver()
	assert.Equal(t, []string{}, r.Resolve(g, "a.mjs"))
	assert.Nil(t, r.Resolve(g, "missing.mjs"))
}

func TestDependencyResolver_BreaksCycles(t *testing.T) {
	g := domain.NewChunkGraph("dist", domain.PlatformNode, []domain.Chunk{
		chunk("a.mjs", true, "_chunks/b.mjs"),
		chunk("_chunks/b.mjs", false, "_chunks/c.mjs", "left"),
		chunk("_chunks/c.mjs", false, "_chunks/b.mjs", "right"),
	})

	r := domain.NewDependencyResolver()
	assert.Equal(t, []string{"left", "right"}, r.Resolve(g, "a.mjs"))

	// Chunks resolved inside a cut cycle are not memoized with partial results.
	assert.Equal(t, []string{"left", "right"}, r.Resolve(g, "_chunks/c.mjs"))
	assert.Equal(t, []string{"left", "right"}, r.Resolve(g, "_chunks/b.mjs"))
}

func TestDependencyResolver_MemoIsScoped(t *testing.T) {
	esm := domain.NewChunkGraph("dist", domain.PlatformNode, []domain.Chunk{chunk("index", true, "a")})
	cjs := domain.NewChunkGraph("dist/cjs", domain.PlatformNode, []domain.Chunk{chunk("index", true, "b")})

	r := domain.NewDependencyResolver()
	assert.Equal(t, []string{"a"}, r.Resolve(esm, "index"))
	assert.Equal(t, []string{"b"}, r.Resolve(cjs, "index"))
}

func TestChunkGraph_Lookup(t *testing.T) {
	g := domain.NewChunkGraph("dist", domain.PlatformNode, []domain.Chunk{
		chunk("index.mjs", true),
		chunk("_chunks/shared.mjs", false),
		chunk("cli.mjs", true),
	})

	require.Equal(t, 3, g.Len())
	assert.Equal(t, "dist", g.Scope())
	assert.Equal(t, domain.PlatformNode, g.Platform())

	c, ok := g.Chunk("_chunks/shared.mjs")
	require.True(t, ok)
	assert.False(t, c.IsEntry)

	_, ok = g.Chunk("nope")
	assert.False(t, ok)

	entries := g.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "index.mjs", entries[0].FileName)
	assert.Equal(t, "cli.mjs", entries[1].FileName)
}

func TestIsBuiltin(t *testing.T) {
	assert.True(t, domain.IsBuiltin("fs"))
	assert.True(t, domain.IsBuiltin("node:test"))
	assert.True(t, domain.IsBuiltin("stream/web"))
	assert.False(t, domain.IsBuiltin("lodash"))
	assert.False(t, domain.IsBuiltin("fs-extra"))
}
