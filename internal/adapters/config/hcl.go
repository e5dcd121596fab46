package config

import (
	"maps"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"go.trai.ch/robuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// HCLBuildfile is the root of a robuild.hcl file.
type HCLBuildfile struct {
	Exports bool            `hcl:"exports,optional"`
	Hooks   *HCLHooks       `hcl:"hooks,block"`
	Entries []HCLEntryBlock `hcl:"entry,block"`
}

// HCLHooks holds one command list per lifecycle stage.
type HCLHooks struct {
	Start              []string `hcl:"start,optional"`
	Entries            []string `hcl:"entries,optional"`
	BeforeEngineInvoke []string `hcl:"before_engine_invoke,optional"`
	BeforeWrite        []string `hcl:"before_write,optional"`
	End                []string `hcl:"end,optional"`
}

// HCLEntryBlock is an `entry "name" { ... }` block.
type HCLEntryBlock struct {
	Name           string            `hcl:"name,label"`
	Kind           string            `hcl:"kind,optional"`
	Input          []string          `hcl:"input,optional"`
	NamedInput     map[string]string `hcl:"named_input,optional"`
	OutDir         string            `hcl:"out_dir,optional"`
	Format         []string          `hcl:"format,optional"`
	Platform       string            `hcl:"platform,optional"`
	GlobalName     string            `hcl:"global_name,optional"`
	Clean          *bool             `hcl:"clean,optional"`
	CleanPaths     []string          `hcl:"clean_paths,optional"`
	Minify         *bool             `hcl:"minify,optional"`
	Sourcemap      *bool             `hcl:"sourcemap,optional"`
	Declarations   *bool             `hcl:"declarations,optional"`
	Hash           *bool             `hcl:"hash,optional"`
	FixedExtension *bool             `hcl:"fixed_extension,optional"`
	External       []string          `hcl:"external,optional"`
	NoExternal     []string          `hcl:"no_external,optional"`
	Env            map[string]string `hcl:"env,optional"`
	Define         cty.Value         `hcl:"define,optional"`
	Copy           []HCLCopyBlock    `hcl:"copy,block"`
	Shebang        string            `hcl:"shebang,optional"`
	NodeProtocol   string            `hcl:"node_protocol,optional"`
	Target         string            `hcl:"target,optional"`
	Banner         string            `hcl:"banner,optional"`
	Footer         string            `hcl:"footer,optional"`
}

// HCLCopyBlock is a `copy { from = "...", to = "..." }` block.
type HCLCopyBlock struct {
	From string `hcl:"from"`
	To   string `hcl:"to,optional"`
}

// LoadHCL reads an HCL build description.
func LoadHCL(path string) (*domain.BuildConfig, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, zerr.With(zerr.Wrap(diags, "failed to parse config file"), "path", path)
	}

	var buildfile HCLBuildfile
	diags = gohcl.DecodeBody(file.Body, nil, &buildfile)
	if diags.HasErrors() {
		return nil, zerr.With(zerr.Wrap(diags, "failed to decode config file"), "path", path)
	}

	cfg := &domain.BuildConfig{
		RootDir: filepath.Dir(path),
		Exports: buildfile.Exports,
		Hooks:   buildfile.Hooks.toDomain(),
		Entries: make([]domain.RawEntry, 0, len(buildfile.Entries)),
	}
	for i := range buildfile.Entries {
		raw, err := buildfile.Entries[i].toDomain()
		if err != nil {
			return nil, zerr.With(err, "path", path)
		}
		cfg.Entries = append(cfg.Entries, raw)
	}
	return cfg, nil
}

func (h *HCLHooks) toDomain() map[domain.HookStage][]string {
	if h == nil {
		return nil
	}
	hooks := map[domain.HookStage][]string{
		domain.HookStart:              h.Start,
		domain.HookEntries:            h.Entries,
		domain.HookBeforeEngineInvoke: h.BeforeEngineInvoke,
		domain.HookBeforeWrite:        h.BeforeWrite,
		domain.HookEnd:                h.End,
	}
	maps.DeleteFunc(hooks, func(_ domain.HookStage, commands []string) bool {
		return len(commands) == 0
	})
	return hooks
}

func (e *HCLEntryBlock) toDomain() (domain.RawEntry, error) {
	define, err := convertDefine(e.Define)
	if err != nil {
		return domain.RawEntry{}, zerr.With(err, "entry", e.Name)
	}

	raw := domain.RawEntry{
		Name:           e.Name,
		Kind:           domain.EntryKind(e.Kind),
		Input:          domain.InputSpec{Paths: e.Input, Named: e.NamedInput},
		OutDir:         e.OutDir,
		Formats:        e.Format,
		Platform:       e.Platform,
		GlobalName:     e.GlobalName,
		Clean:          e.Clean,
		CleanPaths:     e.CleanPaths,
		Minify:         e.Minify,
		Sourcemap:      e.Sourcemap,
		Declarations:   e.Declarations,
		Hash:           e.Hash,
		FixedExtension: e.FixedExtension,
		External:       e.External,
		NoExternal:     e.NoExternal,
		Env:            e.Env,
		Define:         define,
		Shebang:        e.Shebang,
		NodeProtocol:   e.NodeProtocol,
		Target:         e.Target,
		Banner:         e.Banner,
		Footer:         e.Footer,
	}
	for _, c := range e.Copy {
		raw.Copy = append(raw.Copy, domain.CopyRule{From: c.From, To: c.To})
	}
	return raw, nil
}

// convertDefine turns an HCL object into replacement source text. Strings are
// taken verbatim, other values are written as JSON literals.
func convertDefine(val cty.Value) (map[string]string, error) {
	if val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidEntry, "define must be an object"), "type", ty.FriendlyName())
	}

	define := make(map[string]string, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		key, value := it.Element()
		if value.Type() == cty.String && !value.IsNull() {
			define[key.AsString()] = value.AsString()
			continue
		}
		encoded, err := ctyjson.Marshal(value, value.Type())
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to encode define value"), "key", key.AsString())
		}
		define[key.AsString()] = string(encoded)
	}
	return define, nil
}
