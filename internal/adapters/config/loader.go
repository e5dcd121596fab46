// Package config provides the build description loader for robuild.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.trai.ch/robuild/internal/core/domain"
	"go.trai.ch/robuild/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const (
	// YAMLFileName is the preferred build description file.
	YAMLFileName = "robuild.yaml"
	// YMLFileName is accepted as an alternative spelling.
	YMLFileName = "robuild.yml"
	// HCLFileName is the HCL build description file.
	HCLFileName = "robuild.hcl"
	// DotEnvFileName holds package-local environment variables.
	DotEnvFileName = ".env"
)

// Filenames lists the build description files in lookup order.
var Filenames = []string{YAMLFileName, YMLFileName, HCLFileName}

var _ ports.ConfigLoader = (*FileConfigLoader)(nil)

// FileConfigLoader implements ports.ConfigLoader using a YAML or HCL file.
type FileConfigLoader struct {
	// Filename forces a specific file instead of searching Filenames.
	Filename string
	Logger   ports.Logger
}

// NewLoader creates a loader that discovers the build description.
func NewLoader(log ports.Logger) *FileConfigLoader {
	return &FileConfigLoader{Logger: log}
}

// Load searches cwd and its parents for a build description. The directory
// containing the file becomes the package root.
func (l *FileConfigLoader) Load(cwd string) (*domain.BuildConfig, error) {
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve working directory"), "cwd", cwd)
	}

	path, err := l.find(abs)
	if err != nil {
		return nil, err
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	env, err := readDotEnv(cfg.RootDir)
	if err != nil {
		return nil, err
	}
	cfg.DotEnv = env

	if l.Logger != nil {
		l.Logger.Debug("loaded build description from " + path)
	}
	return cfg, nil
}

func (l *FileConfigLoader) find(start string) (string, error) {
	names := Filenames
	if l.Filename != "" {
		if filepath.IsAbs(l.Filename) {
			return l.Filename, nil
		}
		names = []string{l.Filename}
	}

	for dir := start; ; dir = filepath.Dir(dir) {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
		// A package manifest marks the package boundary.
		if _, err := os.Stat(filepath.Join(dir, domain.ManifestFile)); err == nil {
			break
		}
		if parent := filepath.Dir(dir); parent == dir {
			break
		}
	}
	return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "no build description found"), "cwd", start)
}

// Load reads a build description from the given path. The format follows the
// file extension.
func Load(path string) (*domain.BuildConfig, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve config path"), "path", path)
	}

	if filepath.Ext(abs) == ".hcl" {
		return LoadHCL(abs)
	}

	data, err := os.ReadFile(abs) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", abs)
	}

	var buildfile Buildfile
	if err := yaml.Unmarshal(data, &buildfile); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", abs)
	}

	return buildfile.toDomain(filepath.Dir(abs))
}

func (b *Buildfile) toDomain(root string) (*domain.BuildConfig, error) {
	hooks, err := convertHooks(b.Hooks)
	if err != nil {
		return nil, err
	}

	cfg := &domain.BuildConfig{
		RootDir: root,
		Exports: b.Exports,
		Hooks:   hooks,
		Entries: make([]domain.RawEntry, 0, len(b.Entries)),
	}
	for _, dto := range b.Entries {
		cfg.Entries = append(cfg.Entries, dto.toDomain())
	}
	return cfg, nil
}

func (e *EntryDTO) toDomain() domain.RawEntry {
	if e.Shorthand != "" {
		return domain.RawEntry{Shorthand: e.Shorthand}
	}

	raw := domain.RawEntry{
		Name:           e.Name,
		Kind:           domain.EntryKind(e.Kind),
		Input:          domain.InputSpec{Paths: e.Input.Paths, Named: e.Input.Named},
		OutDir:         e.OutDir,
		Formats:        e.Format,
		Platform:       e.Platform,
		GlobalName:     e.GlobalName,
		Clean:          e.Clean.Enabled,
		CleanPaths:     e.Clean.Paths,
		Minify:         e.Minify,
		Sourcemap:      e.Sourcemap,
		Declarations:   e.Declarations,
		Hash:           e.Hash,
		FixedExtension: e.FixedExtension,
		External:       e.External,
		NoExternal:     e.NoExternal,
		Env:            e.Env,
		Define:         e.Define,
		Shebang:        e.Shebang.Line,
		NodeProtocol:   e.NodeProtocol,
		Target:         e.Target,
		Banner:         e.Banner,
		Footer:         e.Footer,
	}
	for _, c := range e.Copy {
		raw.Copy = append(raw.Copy, domain.CopyRule{From: c.From, To: c.To})
	}
	return raw
}

func convertHooks(in map[string][]string) (map[domain.HookStage][]string, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[domain.HookStage][]string, len(in))
	for name, commands := range in {
		stage, err := parseHookStage(name)
		if err != nil {
			return nil, err
		}
		out[stage] = commands
	}
	return out, nil
}

func parseHookStage(name string) (domain.HookStage, error) {
	for _, stage := range domain.HookStages {
		if strings.EqualFold(string(stage), name) {
			return stage, nil
		}
	}
	return "", zerr.With(zerr.New("unknown hook stage"), "stage", name)
}

func splitCopy(value string) (from, to string) {
	from, to, _ = strings.Cut(value, ":")
	return from, to
}

func readDotEnv(root string) (map[string]string, error) {
	env, err := godotenv.Read(filepath.Join(root, DotEnvFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read .env file"), "root", root)
	}
	return env, nil
}
