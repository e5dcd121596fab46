// Package shell runs build hooks and the TypeScript compiler as child processes.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/robuild/internal/core/domain"
	"go.trai.ch/robuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Environment variables passed to every hook command.
const (
	EnvRoot  = domain.HookEnvRoot
	EnvStage = domain.HookEnvStage
)

var _ ports.HookExecutor = (*Executor)(nil)

// Executor implements ports.HookExecutor with `sh -c`.
type Executor struct {
	logger ports.Logger
	shell  string
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
		shell:  "sh",
	}
}

// Execute runs commands one after another in the package root.
// The environment is os.Environ() overlaid with env. The first failing
// command aborts the stage.
func (e *Executor) Execute(ctx context.Context, stage domain.HookStage, commands []string, env map[string]string) error {
	if len(commands) == 0 {
		return nil
	}

	overrides := maps.Clone(env)
	if overrides == nil {
		overrides = make(map[string]string, 1)
	}
	overrides[EnvStage] = string(stage)
	cmdEnv := resolveEnvironment(os.Environ(), overrides)

	executable := e.shell
	if lp, err := lookPath(e.shell, cmdEnv); err == nil {
		executable = lp
	}

	for _, command := range commands {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.run(ctx, executable, command, overrides[EnvRoot], cmdEnv); err != nil {
			return zerr.With(zerr.With(err, "stage", string(stage)), "command", command)
		}
	}
	return nil
}

func (e *Executor) run(ctx context.Context, executable, command, dir string, env []string) error {
	cmd := exec.CommandContext(ctx, executable, "-c", command) //nolint:gosec // hooks are user provided commands
	cmd.Args[0] = e.shell
	cmd.Dir = dir
	cmd.Env = env

	var stdout, stderr io.Writer
	var flush func()
	if v, ok := ports.VertexFromContext(ctx); ok {
		stdout, stderr = v.Stdout(), v.Stderr()
		flush = func() {}
	} else {
		out := &logWriter{logger: e.logger, level: domain.LogLevelInfo}
		errOut := &logWriter{logger: e.logger, level: domain.LogLevelError}
		stdout, stderr = out, errOut
		flush = func() {
			out.Flush()
			errOut.Flush()
		}
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	flush()
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		wrapped := zerr.With(zerr.Wrap(domain.ErrHookFailed, "command failed"), "exit_code", exitCode)
		return zerr.With(wrapped, "reason", err.Error())
	}
	return nil
}

// logWriter forwards complete lines to the logger.
type logWriter struct {
	mu     sync.Mutex
	logger ports.Logger
	level  domain.LogLevel
	buf    bytes.Buffer
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Keep the partial line for the next write.
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.emit(strings.TrimSuffix(line, "\n"))
	}
	return len(p), nil
}

// Flush emits a trailing line without newline.
func (w *logWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

func (w *logWriter) emit(line string) {
	line = strings.TrimSuffix(line, "\r")
	if w.level == domain.LogLevelError {
		w.logger.Error(zerr.New(line))
		return
	}
	w.logger.Info(line)
}

// resolveEnvironment overlays overrides onto sysEnv. The result is sorted.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(overrides))
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}
	maps.Copy(envMap, overrides)

	result := make([]string, 0, len(envMap))
	for _, k := range slices.Sorted(maps.Keys(envMap)) {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH entry of env.
func lookPath(file string, env []string) (string, error) {
	if filepath.IsAbs(file) {
		return file, findExecutable(file)
	}

	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}
	return searchPath(file, filepath.SplitList(path))
}

func searchPath(file string, dirs []string) (string, error) {
	for _, dir := range dirs {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
