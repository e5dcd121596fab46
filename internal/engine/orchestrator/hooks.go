package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"go.trai.ch/robuild/internal/core/domain"
	"go.trai.ch/robuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// lifecycle runs the hooks of one stage: Go hooks and plugin hooks in chain
// order, then the shell commands of the build description.
type lifecycle struct {
	root     string
	chain    []ports.Hooks
	shell    map[domain.HookStage][]string
	executor ports.HookExecutor
}

// with returns a lifecycle whose chain also runs extra, after the existing hooks.
func (l *lifecycle) with(extra []ports.Hooks) *lifecycle {
	if len(extra) == 0 {
		return l
	}
	c := *l
	c.chain = append(slices.Clone(l.chain), extra...)
	return &c
}

func (l *lifecycle) start(ctx context.Context, bc *ports.BuildContext) error {
	for _, h := range l.chain {
		if h.Start == nil {
			continue
		}
		if err := h.Start(ctx, bc); err != nil {
			return hookError(domain.HookStart, err)
		}
	}
	return l.runShell(ctx, domain.HookStart, nil)
}

func (l *lifecycle) entries(ctx context.Context, entries []*domain.Entry, bc *ports.BuildContext) error {
	for _, h := range l.chain {
		if h.Entries == nil {
			continue
		}
		if err := h.Entries(ctx, entries, bc); err != nil {
			return hookError(domain.HookEntries, err)
		}
	}
	return l.runShell(ctx, domain.HookEntries, nil)
}

func (l *lifecycle) beforeEngineInvoke(
	ctx context.Context,
	cfg *domain.EngineConfig,
	bc *ports.BuildContext,
	env map[string]string,
) error {
	for _, h := range l.chain {
		if h.BeforeEngineInvoke == nil {
			continue
		}
		if err := h.BeforeEngineInvoke(ctx, cfg, bc); err != nil {
			return hookError(domain.HookBeforeEngineInvoke, err)
		}
	}
	return l.runShell(ctx, domain.HookBeforeEngineInvoke, env)
}

func (l *lifecycle) beforeWrite(
	ctx context.Context,
	out *domain.OutputConfig,
	handle ports.EngineHandle,
	bc *ports.BuildContext,
	env map[string]string,
) error {
	for _, h := range l.chain {
		if h.BeforeWrite == nil {
			continue
		}
		if err := h.BeforeWrite(ctx, out, handle, bc); err != nil {
			return hookError(domain.HookBeforeWrite, err)
		}
	}
	return l.runShell(ctx, domain.HookBeforeWrite, env)
}

func (l *lifecycle) end(ctx context.Context, bc *ports.BuildContext) error {
	for _, h := range l.chain {
		if h.End == nil {
			continue
		}
		if err := h.End(ctx, bc); err != nil {
			return hookError(domain.HookEnd, err)
		}
	}
	return l.runShell(ctx, domain.HookEnd, nil)
}

func (l *lifecycle) runShell(ctx context.Context, stage domain.HookStage, env map[string]string) error {
	commands := l.shell[stage]
	if len(commands) == 0 || l.executor == nil {
		return nil
	}

	vars := map[string]string{domain.HookEnvRoot: l.root}
	maps.Copy(vars, env)
	if err := l.executor.Execute(ctx, stage, commands, vars); err != nil {
		return hookError(stage, err)
	}
	return nil
}

// hookError marks err as a hook failure of stage.
func hookError(stage domain.HookStage, err error) error {
	if errors.Is(err, domain.ErrHookFailed) {
		err = zerr.Wrap(err, string(stage)+" hook failed")
	} else {
		err = zerr.Wrap(domain.ErrHookFailed, err.Error())
	}
	return zerr.With(err, "stage", string(stage))
}

// classifyPlugins sorts plugins by capability. A plugin contributing hooks is
// never also treated as an engine plugin; anything else is ignored with a warning.
func classifyPlugins(plugins []any, logger ports.Logger) ([]ports.Hooks, []any) {
	var (
		hooks  []ports.Hooks
		engine []any
	)
	for _, p := range plugins {
		switch plugin := p.(type) {
		case ports.HooksProvider:
			hooks = append(hooks, plugin.Hooks())
		case ports.EnginePluginProvider:
			engine = append(engine, plugin.EnginePlugin())
		default:
			logger.Warn(fmt.Sprintf("ignoring plugin of unsupported type %T", p))
		}
	}
	return hooks, engine
}
