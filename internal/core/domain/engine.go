package domain

// DirectiveKind names a code mutation applied around the engine pass.
type DirectiveKind string

const (
	DirectiveShebang      DirectiveKind = "shebang"
	DirectiveNodeProtocol DirectiveKind = "node-protocol"
	DirectiveBanner       DirectiveKind = "banner"
	DirectiveFooter       DirectiveKind = "footer"
)

// Directive is one ordered code mutation.
type Directive struct {
	Kind  DirectiveKind
	Value string
}

// EngineConfig is the engine invocation for one (entry, format) pair.
// beforeEngineInvoke hooks may mutate it.
type EngineConfig struct {
	Entry   string
	Format  Format
	Plan    FormatPlan
	RootDir string
	// OutDir is the directory this format pass writes to.
	OutDir   string
	Platform Platform
	// Input maps distribution names to absolute source paths.
	Input map[string]string
	Rules *RuleSet
	// Define holds identifier replacements, values are JavaScript expressions.
	Define       map[string]string
	Minify       bool
	Sourcemap    bool
	Declarations bool
	Directives   []Directive
	GlobalName   string
	Target       string
	// Plugins holds engine-native plugin values.
	Plugins []any
}

// Directive returns the first directive of kind.
func (c *EngineConfig) Directive(kind DirectiveKind) (Directive, bool) {
	for _, d := range c.Directives {
		if d.Kind == kind {
			return d, true
		}
	}
	return Directive{}, false
}

// OutputConfig tells the engine where and how to write. beforeWrite hooks may mutate it.
type OutputConfig struct {
	Dir                  string
	EntryPattern         string
	ChunkPattern         string
	Format               Format
	Extension            string
	DeclarationExtension string
	Sourcemap            bool
}

// DefaultChunkPattern names shared chunks.
const DefaultChunkPattern = "_chunks/[name]-[hash]"

// WriteResult lists the chunks written by the engine.
type WriteResult struct {
	Chunks []Chunk
}
