package settings_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/robuild/internal/adapters/settings"
	"go.trai.ch/robuild/internal/core/domain"
)

func TestResolver_Defaults(t *testing.T) {
	s := settings.New().Settings()

	assert.Equal(t, domain.LogLevelInfo, s.LogLevel)
	assert.Equal(t, ".", s.Dir)
	assert.False(t, s.NoReport)
	assert.False(t, s.Progress)
}

func TestResolver_Precedence(t *testing.T) {
	file := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(file, []byte("log-level: error\ndir: from-file\nprogress: true\n"), 0o600))
	t.Setenv("ROBUILD_LOG_LEVEL", "warn")
	t.Setenv("ROBUILD_NO_REPORT", "true")

	r := settings.New()
	require.NoError(t, r.ReadFile(file))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String(settings.KeyLogLevel, "info", "")
	flags.String(settings.KeyDir, ".", "")
	require.NoError(t, r.BindFlags(flags))
	require.NoError(t, flags.Parse([]string{"--log-level", "debug"}))

	s := r.Settings()
	assert.Equal(t, domain.LogLevelDebug, s.LogLevel, "flag wins")
	assert.True(t, s.NoReport, "environment applies")
	assert.Equal(t, "from-file", s.Dir, "unset flag defers to the file")
	assert.True(t, s.Progress)
}

func TestResolver_ReadFile(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		r := settings.New()
		require.NoError(t, r.ReadFile(filepath.Join(t.TempDir(), "absent.yaml")))
		require.NoError(t, r.ReadFile(""))
	})

	t.Run("malformed file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "settings.yaml")
		require.NoError(t, os.WriteFile(file, []byte("log-level: [unterminated\n"), 0o600))

		err := settings.New().ReadFile(file)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read settings file")
	})
}
