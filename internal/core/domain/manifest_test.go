package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/robuild/internal/core/domain"
)

func TestManifest_DependencyNames(t *testing.T) {
	m := &domain.Manifest{
		Dependencies:     map[string]string{"zod": "^3", "@a/b": "1"},
		PeerDependencies: map[string]string{"react": "*", "zod": "^3"},
	}
	assert.Equal(t, []string{"@a/b", "react", "zod"}, m.DependencyNames())

	empty := &domain.Manifest{}
	assert.Empty(t, empty.DependencyNames())
}

func TestExportKey(t *testing.T) {
	assert.Equal(t, ".", domain.ExportKey("index"))
	assert.Equal(t, "./utils/a", domain.ExportKey("utils/a"))
	assert.Equal(t, "./cli", domain.ExportKey("cli"))
}

func TestExportMap_MarshalJSON(t *testing.T) {
	m := domain.NewExportMap()

	full := m.Target("./utils")
	full.Import = "./dist/utils.mjs"
	full.Require = "./dist/cjs/utils.cjs"
	full.Types = "./dist/utils.d.mts"

	m.Target(".").Import = "./dist/index.mjs"
	m.Target("./types-only").Types = "./dist/types-only.d.mts"

	data, err := json.Marshal(m)
	require.NoError(t, err)

	assert.Equal(t,
		`{".":"./dist/index.mjs",`+
			`"./types-only":{"types":"./dist/types-only.d.mts"},`+
			`"./utils":{"types":"./dist/utils.d.mts","import":"./dist/utils.mjs","require":"./dist/cjs/utils.cjs"}}`,
		string(data))
	assert.Equal(t, 3, m.Len())
}
