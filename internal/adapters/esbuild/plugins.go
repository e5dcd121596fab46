package esbuild

import (
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/robuild/internal/core/domain"
)

// externalPlugin decides for every import whether it stays an import in the output.
// External builtins are respelled according to protocol.
func externalPlugin(rules *domain.RuleSet, protocol domain.NodeProtocol) api.Plugin {
	return api.Plugin{
		Name: "robuild-external",
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: `.*`},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					if args.Kind == api.ResolveEntryPoint || rules == nil {
						return api.OnResolveResult{}, nil
					}
					if !rules.IsExternal(args.Path) {
						return api.OnResolveResult{}, nil
					}
					return api.OnResolveResult{
						Path:     respell(args.Path, protocol),
						External: true,
					}, nil
				})
		},
	}
}

// rewritePlugin marks every import of a single transformed file as external,
// passing its specifier through rewrite.
func rewritePlugin(importer string, rewrite func(specifier, importer string) string) api.Plugin {
	return api.Plugin{
		Name: "robuild-rewrite",
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: `.*`},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					if args.Kind == api.ResolveEntryPoint {
						return api.OnResolveResult{}, nil
					}
					specifier := args.Path
					if rewrite != nil {
						specifier = rewrite(args.Path, importer)
					}
					return api.OnResolveResult{Path: specifier, External: true}, nil
				})
		},
	}
}

func respell(id string, protocol domain.NodeProtocol) string {
	if !domain.IsBuiltin(id) {
		return id
	}
	switch protocol {
	case domain.NodeProtocolAdd:
		if !strings.HasPrefix(id, domain.NodeProtocolPrefix) {
			return domain.NodeProtocolPrefix + id
		}
	case domain.NodeProtocolStrip:
		stripped := strings.TrimPrefix(id, domain.NodeProtocolPrefix)
		// Builtins that only exist with the prefix, such as node:test, keep it.
		if domain.IsBuiltin(stripped) {
			return stripped
		}
	}
	return id
}
