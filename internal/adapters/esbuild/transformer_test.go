package esbuild_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/robuild/internal/adapters/esbuild"
	"go.trai.ch/robuild/internal/core/domain"
	"go.trai.ch/robuild/internal/core/ports"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		wantVersion api.Target
		wantEngines []api.Engine
		wantErr     bool
	}{
		{name: "empty", target: "", wantVersion: api.ESNext},
		{name: "es version", target: "es2020", wantVersion: api.ES2020},
		{name: "engine", target: "node18", wantVersion: api.ESNext, wantEngines: []api.Engine{{Name: api.EngineNode, Version: "18"}}},
		{
			name:        "mixed list",
			target:      "ES2019, chrome100.1",
			wantVersion: api.ES2019,
			wantEngines: []api.Engine{{Name: api.EngineChrome, Version: "100.1"}},
		},
		{name: "unknown engine", target: "netscape4", wantErr: true},
		{name: "engine without version", target: "node", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, engines, err := esbuild.ParseTarget(tt.target)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVersion, version)
			assert.Equal(t, tt.wantEngines, engines)
		})
	}
}

func TestTransformer_RewritesImports(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "src", "index.ts")
	source := []byte(`import { a } from "./a";
import type { T } from "./types";
import lodash from "lodash";
export const value: T = a + lodash;
`)

	var seen []string
	result, err := esbuild.NewTransformer().Transform(context.Background(), path, source, ports.TransformOptions{
		Platform: domain.PlatformNode,
		OutFile:  filepath.Join(root, "dist", "index.mjs"),
		RewriteImport: func(specifier, importer string) string {
			assert.Equal(t, path, importer)
			seen = append(seen, specifier)
			if strings.HasPrefix(specifier, ".") {
				return specifier + ".mjs"
			}
			return specifier
		},
	})
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	code := string(result.Code)
	assert.Contains(t, code, `"./a.mjs"`)
	assert.Contains(t, code, `"lodash"`)
	assert.NotContains(t, code, "./types")
	assert.ElementsMatch(t, []string{"./a", "lodash"}, seen)
	assert.Nil(t, result.Map)
}

func TestTransformer_Sourcemap(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "src", "util.ts")

	result, err := esbuild.NewTransformer().Transform(context.Background(), path,
		[]byte("export const n: number = 1;\n"),
		ports.TransformOptions{Sourcemap: true, OutFile: filepath.Join(root, "dist", "util.mjs")})
	require.NoError(t, err)

	assert.Contains(t, string(result.Code), "sourceMappingURL=util.mjs.map")
	assert.Contains(t, string(result.Map), `"sources"`)
}

func TestTransformer_ReportsErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.ts")

	result, err := esbuild.NewTransformer().Transform(context.Background(), path,
		[]byte("export const = ;\n"), ports.TransformOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, result.Errors)
	assert.Empty(t, result.Code)
}

func TestMinifier_Minify(t *testing.T) {
	code := []byte("export function add(first, second) {\n  return first + second;\n}\n")

	result, err := esbuild.NewMinifier().Minify(context.Background(), "add.mjs", code, ports.MinifyOptions{})
	require.NoError(t, err)
	assert.Less(t, len(result.Code), len(code))
	assert.NotContains(t, string(result.Code), "second")
}

func TestMinifier_Errors(t *testing.T) {
	_, err := esbuild.NewMinifier().Minify(context.Background(), "bad.mjs", []byte("export const = ;"), ports.MinifyOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransformFailed))
}
