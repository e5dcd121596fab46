package orchestrator

import (
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/robuild/internal/core/domain"
	"go.trai.ch/robuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// typeScriptExtensions enable declarations by default when an input uses one of them.
var typeScriptExtensions = []string{".ts", ".tsx", ".mts", ".cts"}

// normalizer turns raw entries into build entries. It remembers every
// distribution name claimed so far, so collisions are caught across entries.
type normalizer struct {
	root   string
	dotEnv map[string]string
	inputs ports.InputResolver
	claims map[string]string
}

// Normalize resolves the raw entries of cfg. Every default is applied here;
// the returned entries are not normalized again.
func Normalize(cfg *domain.BuildConfig, inputs ports.InputResolver) ([]*domain.Entry, error) {
	n := &normalizer{
		root:   cfg.RootDir,
		dotEnv: cfg.DotEnv,
		inputs: inputs,
		claims: make(map[string]string),
	}

	entries := make([]*domain.Entry, 0, len(cfg.Entries))
	for i, raw := range cfg.Entries {
		entry, err := n.entry(raw)
		if err != nil {
			return nil, zerr.With(err, "entry_index", i)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

//nolint:cyclop,funlen // one step per entry option
func (n *normalizer) entry(raw domain.RawEntry) (*domain.Entry, error) {
	if raw.Shorthand != "" {
		parsed, err := parseShorthand(raw.Shorthand)
		if err != nil {
			return nil, err
		}
		raw = parsed
	}

	kind := raw.Kind
	switch kind {
	case "":
		kind = domain.EntryKindBundle
	case domain.EntryKindBundle, domain.EntryKindTransform:
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidEntry, "unknown entry kind"), "kind", string(kind))
	}

	if raw.Input.IsEmpty() {
		return nil, zerr.With(zerr.Wrap(domain.ErrMissingInput, "failed to normalize entry"), "entry", raw.Name)
	}

	platform, err := domain.ParsePlatform(raw.Platform)
	if err != nil {
		return nil, zerr.With(err, "entry", raw.Name)
	}

	formats, err := parseFormats(raw.Formats)
	if err != nil {
		return nil, zerr.With(err, "entry", raw.Name)
	}

	protocol, err := parseNodeProtocol(raw.NodeProtocol)
	if err != nil {
		return nil, zerr.With(err, "entry", raw.Name)
	}

	outDir := raw.OutDir
	if outDir == "" {
		outDir = domain.DefaultOutDir
	}

	e := &domain.Entry{
		Name:           raw.Name,
		Kind:           kind,
		OutDir:         n.abs(outDir),
		Formats:        formats,
		Platform:       platform,
		GlobalName:     raw.GlobalName,
		Clean:          domain.CleanPolicy{Enabled: boolOr(raw.Clean, true)},
		Minify:         boolOr(raw.Minify, false),
		Sourcemap:      boolOr(raw.Sourcemap, false),
		Hash:           boolOr(raw.Hash, false),
		FixedExtension: boolOr(raw.FixedExtension, false),
		Env:            n.env(raw.Env),
		Define:         maps.Clone(raw.Define),
		Shebang:        raw.Shebang,
		NodeProtocol:   protocol,
		Target:         raw.Target,
		Banner:         raw.Banner,
		Footer:         raw.Footer,
		Plugins:        slices.Clone(raw.Plugins),
	}

	for _, p := range raw.CleanPaths {
		e.Clean.Paths = append(e.Clean.Paths, n.abs(p))
	}

	for _, c := range raw.Copy {
		from := n.abs(c.From)
		to := c.To
		if to == "" {
			to = filepath.Base(from)
		}
		if !filepath.IsAbs(to) {
			to = filepath.Join(e.OutDir, to)
		}
		e.Copy = append(e.Copy, domain.CopyRule{From: from, To: filepath.Clean(to)})
	}

	if e.External, err = externalOption(raw.External, raw.ExternalPredicate); err != nil {
		return nil, zerr.With(err, "entry", raw.Name)
	}
	if e.NoExternal, err = externalOption(raw.NoExternal, raw.NoExternalPredicate); err != nil {
		return nil, zerr.With(err, "entry", raw.Name)
	}

	if kind == domain.EntryKindTransform {
		err = n.transformInput(e, raw.Input)
	} else {
		err = n.bundleInputs(e, raw.Input)
	}
	if err != nil {
		return nil, err
	}

	if e.Name == "" {
		e.Name = n.defaultName(e)
	}

	if e.GlobalName == "" {
		for _, f := range e.Formats {
			if f.NeedsGlobalName() {
				err := zerr.With(zerr.Wrap(domain.ErrMissingGlobalName, "failed to normalize entry"), "entry", e.Name)
				return nil, zerr.With(err, "format", string(f))
			}
		}
	}

	e.Declarations = kind == domain.EntryKindBundle && boolOr(raw.Declarations, hasTypeScript(e.Inputs))
	return e, nil
}

// parseShorthand splits "path[,path...]:outDir" on its last colon. A trailing
// slash on the path segment selects a transform entry.
func parseShorthand(s string) (domain.RawEntry, error) {
	paths, outDir := s, ""
	if i := strings.LastIndex(s, ":"); i >= 0 {
		paths, outDir = s[:i], s[i+1:]
	}
	paths = strings.TrimSpace(paths)
	outDir = strings.TrimSpace(outDir)
	if paths == "" {
		return domain.RawEntry{}, zerr.With(zerr.Wrap(domain.ErrInvalidEntry, "entry shorthand has no input"), "entry", s)
	}

	if strings.HasSuffix(paths, "/") {
		return domain.RawEntry{
			Kind:   domain.EntryKindTransform,
			Input:  domain.InputSpec{Paths: []string{paths}},
			OutDir: outDir,
		}, nil
	}

	var inputs []string
	for p := range strings.SplitSeq(paths, ",") {
		if p = strings.TrimSpace(p); p != "" {
			inputs = append(inputs, p)
		}
	}
	return domain.RawEntry{
		Kind:   domain.EntryKindBundle,
		Input:  domain.InputSpec{Paths: inputs},
		OutDir: outDir,
	}, nil
}

func parseFormats(list []string) ([]domain.Format, error) {
	if len(list) == 0 {
		return []domain.Format{domain.FormatESM}, nil
	}
	formats := make([]domain.Format, 0, len(list))
	for _, s := range list {
		f, err := domain.ParseFormat(s)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	return formats, nil
}

func parseNodeProtocol(s string) (domain.NodeProtocol, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "keep":
		return domain.NodeProtocolKeep, nil
	case "add", "true":
		return domain.NodeProtocolAdd, nil
	case "strip", "false":
		return domain.NodeProtocolStrip, nil
	default:
		return "", zerr.With(zerr.Wrap(domain.ErrInvalidEntry, "unknown node protocol mode"), "nodeProtocol", s)
	}
}

func externalOption(list []string, predicate domain.Predicate) (domain.ExternalOption, error) {
	matchers, err := domain.ParseMatchers(list)
	if err != nil {
		return domain.ExternalOption{}, err
	}
	return domain.ExternalOption{Matchers: matchers, Predicate: predicate}, nil
}

func (n *normalizer) bundleInputs(e *domain.Entry, spec domain.InputSpec) error {
	for _, p := range spec.Paths {
		pattern := n.abs(p)
		if !within(n.root, pattern) {
			return outsideRoot(e.Name, p)
		}
		matches, err := n.inputs.ResolveInputs([]string{pattern}, n.root)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to resolve entry input"), "entry", e.Name)
		}
		for _, path := range matches {
			if !within(n.root, path) {
				return outsideRoot(e.Name, path)
			}
			if err := n.claim(e, distName(n.root, path), path); err != nil {
				return err
			}
		}
	}

	for _, name := range slices.Sorted(maps.Keys(spec.Named)) {
		path := n.abs(spec.Named[name])
		if !within(n.root, path) {
			return outsideRoot(e.Name, spec.Named[name])
		}
		if err := n.claim(e, strings.TrimPrefix(filepath.ToSlash(name), "./"), path); err != nil {
			return err
		}
	}
	return nil
}

// claim records name for path. The same file may be listed twice; two files may not share a name.
func (n *normalizer) claim(e *domain.Entry, name, path string) error {
	if other, ok := n.claims[name]; ok {
		if other == path {
			if !slices.ContainsFunc(e.Inputs, func(in domain.Input) bool { return in.Name == name }) {
				e.Inputs = append(e.Inputs, domain.Input{Name: name, Path: path})
			}
			return nil
		}
		err := zerr.With(zerr.With(zerr.Wrap(domain.ErrDistNameCollision, "failed to resolve entry input"), "name", name), "path", path)
		return zerr.With(err, "other", other)
	}
	n.claims[name] = path
	e.Inputs = append(e.Inputs, domain.Input{Name: name, Path: path})
	return nil
}

func (n *normalizer) transformInput(e *domain.Entry, spec domain.InputSpec) error {
	if len(spec.Paths) != 1 || len(spec.Named) != 0 {
		return zerr.With(zerr.Wrap(domain.ErrInvalidEntry, "transform entries take exactly one input directory"), "entry", e.Name)
	}
	dir := n.abs(spec.Paths[0])
	if !within(n.root, dir) {
		return outsideRoot(e.Name, spec.Paths[0])
	}
	info, err := os.Stat(dir)
	if err != nil {
		err := zerr.With(zerr.Wrap(domain.ErrInputNotFound, "failed to resolve entry input"), "entry", e.Name)
		return zerr.With(err, "path", spec.Paths[0])
	}
	if !info.IsDir() {
		err := zerr.With(zerr.Wrap(domain.ErrInvalidEntry, "transform entries take a directory"), "entry", e.Name)
		return zerr.With(err, "path", spec.Paths[0])
	}
	rel, _ := filepath.Rel(n.root, dir)
	e.Inputs = []domain.Input{{Name: filepath.ToSlash(rel), Path: dir}}
	return nil
}

func outsideRoot(entry, path string) error {
	err := zerr.With(zerr.Wrap(domain.ErrInputOutsideRoot, "failed to resolve entry input"), "entry", entry)
	return zerr.With(err, "path", path)
}

// env overlays the entry's variables onto the package .env values.
func (n *normalizer) env(entry map[string]string) map[string]string {
	if len(n.dotEnv) == 0 && len(entry) == 0 {
		return nil
	}
	env := maps.Clone(n.dotEnv)
	if env == nil {
		env = make(map[string]string, len(entry))
	}
	maps.Copy(env, entry)
	return env
}

func (n *normalizer) defaultName(e *domain.Entry) string {
	if e.Kind == domain.EntryKindTransform {
		return e.Inputs[0].Name + "/"
	}
	names := make([]string, 0, len(e.Inputs))
	for _, in := range e.Inputs {
		rel, err := filepath.Rel(n.root, in.Path)
		if err != nil {
			rel = in.Path
		}
		names = append(names, filepath.ToSlash(rel))
	}
	return strings.Join(names, ",")
}

func (n *normalizer) abs(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(n.root, p)
}

// distName is the path of an input relative to the source root, or to the
// package root for files outside of it, without extension.
func distName(root, path string) string {
	base := root
	if src := filepath.Join(root, domain.SourceDir); within(src, path) {
		base = src
	}
	rel, err := filepath.Rel(base, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
}

// within reports whether path lies strictly inside dir.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

func hasTypeScript(inputs []domain.Input) bool {
	for _, in := range inputs {
		if slices.Contains(typeScriptExtensions, filepath.Ext(in.Path)) {
			return true
		}
	}
	return false
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
