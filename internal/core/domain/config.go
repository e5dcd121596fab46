package domain

// HookStage names one of the five build lifecycle points.
type HookStage string

const (
	HookStart              HookStage = "start"
	HookEntries            HookStage = "entries"
	HookBeforeEngineInvoke HookStage = "beforeEngineInvoke"
	HookBeforeWrite        HookStage = "beforeWrite"
	HookEnd                HookStage = "end"
)

// Environment variables describing the running shell hook.
const (
	HookEnvRoot   = "ROBUILD_ROOT"
	HookEnvStage  = "ROBUILD_HOOK"
	HookEnvEntry  = "ROBUILD_ENTRY"
	HookEnvFormat = "ROBUILD_FORMAT"
	HookEnvOutDir = "ROBUILD_OUT_DIR"
)

// HookStages lists the lifecycle points in invocation order.
var HookStages = []HookStage{
	HookStart,
	HookEntries,
	HookBeforeEngineInvoke,
	HookBeforeWrite,
	HookEnd,
}

// InputSpec is the raw input of an entry: a list of paths or a name to path map.
type InputSpec struct {
	Paths []string
	Named map[string]string
}

// IsEmpty reports whether no input was declared.
func (s InputSpec) IsEmpty() bool {
	return len(s.Paths) == 0 && len(s.Named) == 0
}

// RawEntry is an entry as read from a build description, before normalization.
// Unset optional values stay nil so the normalizer can apply defaults.
type RawEntry struct {
	// Shorthand holds the "path[,path]:outDir" form. Other fields are ignored when it is set.
	Shorthand string

	Name       string
	Kind       EntryKind
	Input      InputSpec
	OutDir     string
	Formats    []string
	Platform   string
	GlobalName string

	Clean      *bool
	CleanPaths []string

	Minify         *bool
	Sourcemap      *bool
	Declarations   *bool
	Hash           *bool
	FixedExtension *bool

	External            []string
	NoExternal          []string
	ExternalPredicate   Predicate
	NoExternalPredicate Predicate

	Env    map[string]string
	Define map[string]string
	Copy   []CopyRule

	Shebang      string
	NodeProtocol string
	Target       string
	Banner       string
	Footer       string

	Plugins []any
}

// BuildConfig is a loaded build description.
type BuildConfig struct {
	// RootDir is the absolute package root.
	RootDir string
	Entries []RawEntry
	// Exports enables rewriting the manifest "exports" field after the build.
	Exports bool
	// Hooks maps lifecycle stages to shell commands.
	Hooks map[HookStage][]string
	// DotEnv holds variables read from the package's .env file.
	DotEnv map[string]string
}
