package domain_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/robuild/internal/core/domain"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name     string
		format   domain.Format
		platform domain.Platform
		fixed    bool
		multi    bool
		ext      string
		dts      string
		subdir   string
		module   domain.ModuleFormat
	}{
		{"esm single", domain.FormatESM, domain.PlatformNode, false, false, ".mjs", ".d.mts", "", domain.ModuleFormatES},
		{"esm multi", domain.FormatESM, domain.PlatformNode, false, true, ".mjs", ".d.mts", "", domain.ModuleFormatES},
		{"esm fixed browser", domain.FormatESM, domain.PlatformBrowser, true, true, ".mjs", ".d.mts", "", domain.ModuleFormatES},
		{"cjs node single", domain.FormatCJS, domain.PlatformNode, false, false, ".cjs", ".d.cts", "", domain.ModuleFormatCJS},
		{"cjs node multi", domain.FormatCJS, domain.PlatformNode, false, true, ".cjs", ".d.cts", "cjs", domain.ModuleFormatCJS},
		{"cjs neutral", domain.FormatCJS, domain.PlatformNeutral, false, false, ".cjs", ".d.cts", "", domain.ModuleFormatCJS},
		{"cjs browser", domain.FormatCJS, domain.PlatformBrowser, false, true, ".js", ".d.cts", "cjs", domain.ModuleFormatCJS},
		{"cjs browser fixed", domain.FormatCJS, domain.PlatformBrowser, true, false, ".cjs", ".d.cts", "", domain.ModuleFormatCJS},
		{"iife node single", domain.FormatIIFE, domain.PlatformNode, false, false, ".js", ".d.ts", "", domain.ModuleFormatIIFE},
		{"iife node multi", domain.FormatIIFE, domain.PlatformNode, false, true, ".js", ".d.ts", "iife", domain.ModuleFormatIIFE},
		{"iife browser single", domain.FormatIIFE, domain.PlatformBrowser, false, false, ".js", ".d.ts", "browser", domain.ModuleFormatIIFE},
		{"iife browser fixed", domain.FormatIIFE, domain.PlatformBrowser, true, true, ".mjs", ".d.ts", "browser", domain.ModuleFormatIIFE},
		{"umd neutral multi", domain.FormatUMD, domain.PlatformNeutral, false, true, ".js", ".d.ts", "umd", domain.ModuleFormatUMD},
		{"umd browser single", domain.FormatUMD, domain.PlatformBrowser, false, false, ".js", ".d.ts", "browser", domain.ModuleFormatUMD},
		{"umd fixed", domain.FormatUMD, domain.PlatformNode, true, false, ".mjs", ".d.ts", "", domain.ModuleFormatUMD},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := domain.Plan(tt.format, tt.platform, tt.fixed, tt.multi)
			assert.Equal(t, tt.ext, p.Extension)
			assert.Equal(t, tt.dts, p.DeclarationExtension)
			assert.Equal(t, tt.subdir, p.Subdir)
			assert.Equal(t, tt.module, p.ModuleFormat)
			assert.Equal(t, "[name]"+tt.ext, p.EntryPattern)

			again := domain.Plan(tt.format, tt.platform, tt.fixed, tt.multi)
			assert.Equal(t, p, again, "plan must be a pure function")
			assert.True(t, strings.HasPrefix(p.Extension, "."))
		})
	}
}

func TestPlan_Dir(t *testing.T) {
	root := filepath.Join("pkg", "dist")

	assert.Equal(t, root, domain.Plan(domain.FormatESM, domain.PlatformNode, false, true).Dir(root))
	assert.Equal(t, filepath.Join(root, "cjs"), domain.Plan(domain.FormatCJS, domain.PlatformNode, false, true).Dir(root))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]domain.Format{
		"esm":      domain.FormatESM,
		"es":       domain.FormatESM,
		"module":   domain.FormatESM,
		"CJS":      domain.FormatCJS,
		"commonjs": domain.FormatCJS,
		"iife":     domain.FormatIIFE,
		"umd":      domain.FormatUMD,
	} {
		got, err := domain.ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := domain.ParseFormat("amd")
	require.ErrorIs(t, err, domain.ErrUnknownFormat)
}

func TestParsePlatform(t *testing.T) {
	p, err := domain.ParsePlatform("")
	require.NoError(t, err)
	assert.Equal(t, domain.PlatformNode, p)

	p, err = domain.ParsePlatform("Browser")
	require.NoError(t, err)
	assert.Equal(t, domain.PlatformBrowser, p)

	_, err = domain.ParsePlatform("deno")
	require.ErrorIs(t, err, domain.ErrUnknownPlatform)
}
