package domain

import (
	"slices"
	"strings"
	"sync"
)

// PlatformSentinel is the single report label builtin imports collapse to.
const PlatformSentinel = "[platform]"

// Chunk is one JavaScript file written by the engine.
type Chunk struct {
	// ID is the engine's identifier for the chunk. Imports of other chunks use the same value.
	ID InternedString
	// FileName is the path relative to the format output directory.
	FileName  string
	IsEntry   bool
	EntryName string
	Imports   []string
	Exports   []string
	Size      int64
	// Declaration is the path of the declaration file written next to the chunk, if any.
	Declaration string
}

// ChunkGraph is an arena of the chunks written by one engine pass.
type ChunkGraph struct {
	scope    string
	platform Platform
	chunks   []Chunk
	index    map[InternedString]int
}

// NewChunkGraph indexes chunks. scope distinguishes graphs of different passes
// whose chunk ids would otherwise collide, typically the output directory.
// platform is the target of the pass that wrote the chunks.
func NewChunkGraph(scope string, platform Platform, chunks []Chunk) *ChunkGraph {
	g := &ChunkGraph{
		scope:    scope,
		platform: platform,
		chunks:   chunks,
		index:    make(map[InternedString]int, len(chunks)),
	}
	for i, c := range chunks {
		g.index[c.ID] = i
	}
	return g
}

// Scope returns the graph's scope.
func (g *ChunkGraph) Scope() string {
	return g.scope
}

// Platform returns the target platform of the graph's pass.
func (g *ChunkGraph) Platform() Platform {
	return g.platform
}

// isPlatformImport reports whether imp is provided by the runtime. node: ids
// always are. Bare builtin names only are on node; elsewhere they name
// npm packages such as the buffer or events polyfills.
func (g *ChunkGraph) isPlatformImport(imp string) bool {
	if strings.HasPrefix(imp, NodeProtocolPrefix) {
		return true
	}
	return g.platform == PlatformNode && IsBuiltin(imp)
}

// Len returns the number of chunks.
func (g *ChunkGraph) Len() int {
	return len(g.chunks)
}

// Chunk looks a chunk up by id.
func (g *ChunkGraph) Chunk(id string) (*Chunk, bool) {
	i, ok := g.index[NewInternedString(id)]
	if !ok {
		return nil, false
	}
	return &g.chunks[i], true
}

// Entries returns the entry chunks in arena order.
func (g *ChunkGraph) Entries() []*Chunk {
	var out []*Chunk
	for i := range g.chunks {
		if g.chunks[i].IsEntry {
			out = append(out, &g.chunks[i])
		}
	}
	return out
}

// DependencyResolver computes the external dependency labels of chunks.
// Results are memoized for the whole build by scope-qualified chunk id.
type DependencyResolver struct {
	mu   sync.Mutex
	memo map[InternedString][]string
}

// NewDependencyResolver creates a DependencyResolver with an empty memo.
func NewDependencyResolver() *DependencyResolver {
	return &DependencyResolver{
		memo: make(map[InternedString][]string),
	}
}

// Resolve returns the sorted, de-duplicated dependency labels of the chunk id.
// Platform imports collapse to PlatformSentinel, imports of other chunks are followed,
// everything else is reported by its import id. A chunk re-entered while it is
// being visited contributes nothing.
func (r *DependencyResolver) Resolve(g *ChunkGraph, id string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	visiting := make(map[int]bool)
	labels, _ := r.resolve(g, id, visiting)
	return labels
}

func (r *DependencyResolver) memoKey(g *ChunkGraph, id string) InternedString {
	return NewInternedString(g.scope + "\x00" + string(g.platform) + "\x00" + id)
}

// resolve reports whether a cycle was cut below id. Such results are partial
// and are not memoized.
func (r *DependencyResolver) resolve(g *ChunkGraph, id string, visiting map[int]bool) ([]string, bool) {
	key := r.memoKey(g, id)
	if labels, ok := r.memo[key]; ok {
		return labels, false
	}

	idx, ok := g.index[NewInternedString(id)]
	if !ok {
		return nil, false
	}
	if visiting[idx] {
		return nil, true
	}
	visiting[idx] = true
	defer delete(visiting, idx)

	var labels []string
	cut := false
	for _, imp := range g.chunks[idx].Imports {
		if g.isPlatformImport(imp) {
			labels = append(labels, PlatformSentinel)
			continue
		}
		if _, isChunk := g.index[NewInternedString(imp)]; isChunk {
			sub, subCut := r.resolve(g, imp, visiting)
			labels = append(labels, sub...)
			cut = cut || subCut
			continue
		}
		labels = append(labels, imp)
	}

	slices.Sort(labels)
	labels = slices.Compact(labels)
	if labels == nil {
		labels = []string{}
	}

	if !cut {
		r.memo[key] = labels
	}
	return labels, cut
}
