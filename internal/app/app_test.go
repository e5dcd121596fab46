package app_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/robuild/internal/adapters/fs"
	"go.trai.ch/robuild/internal/adapters/telemetry"
	"go.trai.ch/robuild/internal/app"
	"go.trai.ch/robuild/internal/core/domain"
	"go.trai.ch/robuild/internal/core/ports"
	"go.trai.ch/robuild/internal/core/ports/mocks"
	"go.trai.ch/robuild/internal/engine/orchestrator"
	"go.uber.org/mock/gomock"
)

type fakeBuilder struct {
	buildFunc func(ctx context.Context, cfg *domain.BuildConfig, opts orchestrator.BuildOptions) (*domain.BuildReport, error)
}

func (f *fakeBuilder) Build(
	ctx context.Context,
	cfg *domain.BuildConfig,
	opts orchestrator.BuildOptions,
) (*domain.BuildReport, error) {
	return f.buildFunc(ctx, cfg, opts)
}

type appTestMocks struct {
	loader    *mocks.MockConfigLoader
	renderer  *mocks.MockReportRenderer
	store     *mocks.MockReportStore
	verifier  *mocks.MockVerifier
	logger    *mocks.MockLogger
	telemetry *mocks.MockTelemetry
	builder   *fakeBuilder
	out       *bytes.Buffer
}

func setupApp(t *testing.T) (*app.App, *appTestMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := &appTestMocks{
		loader:    mocks.NewMockConfigLoader(ctrl),
		renderer:  mocks.NewMockReportRenderer(ctrl),
		store:     mocks.NewMockReportStore(ctrl),
		verifier:  mocks.NewMockVerifier(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
		telemetry: mocks.NewMockTelemetry(ctrl),
		builder:   &fakeBuilder{},
		out:       new(bytes.Buffer),
	}
	m.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	a := app.New(
		m.loader,
		m.builder,
		fs.NewResolver(),
		m.renderer,
		m.store,
		m.verifier,
		m.logger,
		m.telemetry,
	).WithOutput(m.out)
	return a, m
}

func sampleReport(root string) *domain.BuildReport {
	return &domain.BuildReport{
		Package: "pkg",
		RootDir: root,
		Chunks: []domain.ChunkReport{
			{Entry: "index", Format: domain.FormatESM, File: "dist/index.mjs", Size: 10},
		},
	}
}

func TestApp_Build(t *testing.T) {
	a, m := setupApp(t)
	cfg := &domain.BuildConfig{RootDir: "/pkg"}
	report := sampleReport("/pkg")

	m.loader.EXPECT().Load("packages/lib").Return(cfg, nil)
	m.builder.buildFunc = func(_ context.Context, got *domain.BuildConfig, opts orchestrator.BuildOptions) (*domain.BuildReport, error) {
		assert.Same(t, cfg, got)
		assert.IsType(t, &telemetry.NoOp{}, opts.Telemetry)
		assert.Len(t, opts.Plugins, 1)
		return report, nil
	}
	m.renderer.EXPECT().Render(m.out, report).Return(nil)
	m.store.EXPECT().Put(*report).Return(nil)

	err := a.Build(context.Background(), app.BuildOptions{Dir: "packages/lib", Plugins: []any{"plugin"}})
	require.NoError(t, err)
}

func TestApp_Build_Progress(t *testing.T) {
	a, m := setupApp(t)
	report := sampleReport("/pkg")

	m.loader.EXPECT().Load(".").Return(&domain.BuildConfig{RootDir: "/pkg"}, nil)
	m.builder.buildFunc = func(_ context.Context, _ *domain.BuildConfig, opts orchestrator.BuildOptions) (*domain.BuildReport, error) {
		assert.Equal(t, ports.Telemetry(m.telemetry), opts.Telemetry)
		return report, nil
	}
	m.renderer.EXPECT().Render(gomock.Any(), report).Return(nil)
	m.telemetry.EXPECT().Close().Return(nil)

	err := a.Build(context.Background(), app.BuildOptions{Progress: true, NoReport: true})
	require.NoError(t, err)
}

func TestApp_Build_Failures(t *testing.T) {
	t.Run("configuration", func(t *testing.T) {
		a, m := setupApp(t)
		m.loader.EXPECT().Load(".").Return(nil, domain.ErrConfigNotFound)

		err := a.Build(context.Background(), app.BuildOptions{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfigNotFound)
		assert.Contains(t, err.Error(), "failed to load configuration")
	})

	t.Run("build", func(t *testing.T) {
		a, m := setupApp(t)
		m.loader.EXPECT().Load(".").Return(&domain.BuildConfig{RootDir: "/pkg"}, nil)
		m.builder.buildFunc = func(context.Context, *domain.BuildConfig, orchestrator.BuildOptions) (*domain.BuildReport, error) {
			return nil, domain.ErrHookFailed
		}

		err := a.Build(context.Background(), app.BuildOptions{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrBuildFailed)
		assert.ErrorIs(t, err, domain.ErrHookFailed)
	})

	t.Run("store", func(t *testing.T) {
		a, m := setupApp(t)
		report := sampleReport("/pkg")
		m.loader.EXPECT().Load(".").Return(&domain.BuildConfig{RootDir: "/pkg"}, nil)
		m.builder.buildFunc = func(context.Context, *domain.BuildConfig, orchestrator.BuildOptions) (*domain.BuildReport, error) {
			return report, nil
		}
		m.renderer.EXPECT().Render(gomock.Any(), report).Return(nil)
		m.store.EXPECT().Put(gomock.Any()).Return(errors.New("disk full"))

		err := a.Build(context.Background(), app.BuildOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to store build report")
	})
}

func TestApp_Report(t *testing.T) {
	t.Run("prints the stored report", func(t *testing.T) {
		a, m := setupApp(t)
		report := sampleReport("/pkg")

		m.loader.EXPECT().Load(".").Return(&domain.BuildConfig{RootDir: "/pkg"}, nil)
		m.store.EXPECT().Get("/pkg").Return(report, nil)
		m.verifier.EXPECT().MissingOutputs("/pkg", []string{"dist/index.mjs"}).Return([]string{"dist/index.mjs"}, nil)
		m.logger.EXPECT().Warn("dist/index.mjs no longer exists, run a build to refresh the report")
		m.renderer.EXPECT().Render(m.out, report).Return(nil)

		require.NoError(t, a.Report(context.Background(), app.ReportOptions{}))
	})

	t.Run("no report recorded", func(t *testing.T) {
		a, m := setupApp(t)
		m.loader.EXPECT().Load(".").Return(&domain.BuildConfig{RootDir: "/pkg"}, nil)
		m.store.EXPECT().Get("/pkg").Return(nil, nil)

		err := a.Report(context.Background(), app.ReportOptions{})
		require.ErrorIs(t, err, domain.ErrNoReport)
	})
}

func TestApp_Clean(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"src/index.ts", "dist/index.mjs", "lib/cli.mjs", ".robuild/report.json"} {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	}
	cfg := &domain.BuildConfig{
		RootDir: root,
		Entries: []domain.RawEntry{
			{Shorthand: "src/index.ts"},
			{Shorthand: "src/index.ts:dist"},
		},
	}

	t.Run("state only", func(t *testing.T) {
		a, m := setupApp(t)
		m.loader.EXPECT().Load(".").Return(cfg, nil)

		require.NoError(t, a.Clean(context.Background(), app.CleanOptions{State: true}))
		assert.NoDirExists(t, filepath.Join(root, domain.StateDir))
		assert.FileExists(t, filepath.Join(root, "dist", "index.mjs"))
	})

	t.Run("outputs", func(t *testing.T) {
		a, m := setupApp(t)
		m.loader.EXPECT().Load(".").Return(cfg, nil)

		require.NoError(t, a.Clean(context.Background(), app.CleanOptions{Outputs: true}))
		assert.NoDirExists(t, filepath.Join(root, "dist"))
		assert.FileExists(t, filepath.Join(root, "lib", "cli.mjs"))
		assert.FileExists(t, filepath.Join(root, "src", "index.ts"))
	})
}

type levelLogger struct {
	ports.Logger
	level domain.LogLevel
}

func (l *levelLogger) SetLevel(level domain.LogLevel) { l.level = level }

func TestApp_SetLogLevel(t *testing.T) {
	log := &levelLogger{}
	a := app.New(nil, nil, nil, nil, nil, nil, log, nil)

	a.SetLogLevel(domain.LogLevelDebug)
	assert.Equal(t, domain.LogLevelDebug, log.level)
}
