// Package settings resolves the tool settings of robuild from command line
// flags, ROBUILD_* environment variables and an optional user settings file.
package settings

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.trai.ch/robuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// EnvPrefix prefixes every environment variable read by the resolver.
const EnvPrefix = "ROBUILD"

// Setting keys. Flags bound to the resolver use the same names.
const (
	KeyLogLevel = "log-level"
	KeyDir      = "dir"
	KeyNoReport = "no-report"
	KeyProgress = "progress"
)

// Settings are the resolved tool settings.
type Settings struct {
	LogLevel domain.LogLevel
	// Dir is the directory the build description is searched from.
	Dir string
	// NoReport disables persisting the build report.
	NoReport bool
	// Progress records progress vertices instead of plain log lines.
	Progress bool
}

// Resolver merges settings sources. Flags win over environment variables,
// which win over the settings file.
type Resolver struct {
	v *viper.Viper
}

// New creates a Resolver with the default settings.
func New() *Resolver {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyDir, ".")
	v.SetDefault(KeyNoReport, false)
	v.SetDefault(KeyProgress, false)

	return &Resolver{v: v}
}

// DefaultFile returns the location of the user settings file.
func DefaultFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "robuild", "settings.yaml")
}

// ReadFile merges the settings file at path. A missing file is not an error.
func (r *Resolver) ReadFile(path string) error {
	if path == "" {
		return nil
	}
	r.v.SetConfigFile(path)
	if err := r.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to read settings file"), "path", path)
	}
	return nil
}

// BindFlags lets the given flags override every other source.
func (r *Resolver) BindFlags(flags *pflag.FlagSet) error {
	if err := r.v.BindPFlags(flags); err != nil {
		return zerr.Wrap(err, "failed to bind settings flags")
	}
	return nil
}

// Settings returns the merged settings.
func (r *Resolver) Settings() Settings {
	return Settings{
		LogLevel: domain.ParseLogLevel(r.v.GetString(KeyLogLevel)),
		Dir:      r.v.GetString(KeyDir),
		NoReport: r.v.GetBool(KeyNoReport),
		Progress: r.v.GetBool(KeyProgress),
	}
}
