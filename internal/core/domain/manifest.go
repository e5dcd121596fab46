package domain

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
)

// Manifest is the subset of package.json the build reads.
type Manifest struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	Type             string            `json:"type,omitempty"`
	Dependencies     map[string]string `json:"dependencies,omitempty"`
	PeerDependencies map[string]string `json:"peerDependencies,omitempty"`
}

// DependencyNames returns the sorted, de-duplicated runtime and peer dependency names.
func (m *Manifest) DependencyNames() []string {
	names := make([]string, 0, len(m.Dependencies)+len(m.PeerDependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	for name := range m.PeerDependencies {
		names = append(names, name)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// ExportTarget is one conditional export of the manifest "exports" field.
type ExportTarget struct {
	Types   string
	Import  string
	Require string
}

func (t ExportTarget) fields() [][2]string {
	var out [][2]string
	if t.Types != "" {
		out = append(out, [2]string{"types", t.Types})
	}
	if t.Import != "" {
		out = append(out, [2]string{"import", t.Import})
	}
	if t.Require != "" {
		out = append(out, [2]string{"require", t.Require})
	}
	return out
}

// MarshalJSON writes types, import and require in that order. A target with a
// single condition other than types collapses to a bare path string.
func (t ExportTarget) MarshalJSON() ([]byte, error) {
	fields := t.fields()
	if len(fields) == 1 && fields[0][0] != "types" {
		return json.Marshal(fields[0][1])
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(f[0])
		v, err := json.Marshal(f[1])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ExportMap is the generated manifest "exports" field.
type ExportMap struct {
	targets map[string]*ExportTarget
}

// NewExportMap creates an empty ExportMap.
func NewExportMap() *ExportMap {
	return &ExportMap{targets: make(map[string]*ExportTarget)}
}

// ExportKey maps a distribution name to its export subpath.
func ExportKey(distName string) string {
	if distName == "index" {
		return "."
	}
	return "./" + strings.TrimPrefix(distName, "./")
}

// Target returns the target for key, creating it if needed.
func (m *ExportMap) Target(key string) *ExportTarget {
	t, ok := m.targets[key]
	if !ok {
		t = &ExportTarget{}
		m.targets[key] = t
	}
	return t
}

// Keys returns the subpaths with "." first and the rest sorted.
func (m *ExportMap) Keys() []string {
	keys := make([]string, 0, len(m.targets))
	for k := range m.targets {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		switch {
		case a == b:
			return 0
		case a == ".":
			return -1
		case b == ".":
			return 1
		}
		return strings.Compare(a, b)
	})
	return keys
}

// Len returns the number of subpaths.
func (m *ExportMap) Len() int {
	return len(m.targets)
}

// MarshalJSON writes the subpaths in Keys order.
func (m *ExportMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(k)
		vb, err := json.Marshal(m.targets[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
