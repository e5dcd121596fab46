// Package esbuild implements the bundling engine, transform and minify services on top of esbuild.
package esbuild

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/robuild/internal/core/domain"
	"go.trai.ch/zerr"
)

var esVersions = map[string]api.Target{
	"esnext": api.ESNext,
	"es6":    api.ES2015,
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
	"es2023": api.ES2023,
	"es2024": api.ES2024,
}

var engineNames = map[string]api.EngineName{
	"chrome":  api.EngineChrome,
	"deno":    api.EngineDeno,
	"edge":    api.EngineEdge,
	"firefox": api.EngineFirefox,
	"hermes":  api.EngineHermes,
	"ie":      api.EngineIE,
	"ios":     api.EngineIOS,
	"node":    api.EngineNode,
	"opera":   api.EngineOpera,
	"rhino":   api.EngineRhino,
	"safari":  api.EngineSafari,
}

// ParseTarget converts a comma separated target list such as "es2020,node18"
// into an ECMAScript version and engine constraints.
func ParseTarget(target string) (api.Target, []api.Engine, error) {
	version := api.ESNext
	var engines []api.Engine

	for part := range strings.SplitSeq(target, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if v, ok := esVersions[part]; ok {
			version = v
			continue
		}

		name := strings.TrimRightFunc(part, func(r rune) bool {
			return (r >= '0' && r <= '9') || r == '.'
		})
		engine, ok := engineNames[name]
		if !ok || name == part {
			return 0, nil, zerr.With(zerr.New("unsupported target"), "target", part)
		}
		engines = append(engines, api.Engine{Name: engine, Version: part[len(name):]})
	}
	return version, engines, nil
}

func platformOf(p domain.Platform) api.Platform {
	switch p {
	case domain.PlatformBrowser:
		return api.PlatformBrowser
	case domain.PlatformNeutral:
		return api.PlatformNeutral
	default:
		return api.PlatformNode
	}
}

// formatOf maps a format to the engine's. UMD is emitted as CommonJS inside a wrapper.
func formatOf(f domain.Format) api.Format {
	switch f {
	case domain.FormatCJS, domain.FormatUMD:
		return api.FormatCommonJS
	case domain.FormatIIFE:
		return api.FormatIIFE
	default:
		return api.FormatESModule
	}
}

func loaderFor(path string) api.Loader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return api.LoaderTS
	case ".tsx":
		return api.LoaderTSX
	case ".jsx":
		return api.LoaderJSX
	case ".json":
		return api.LoaderJSON
	default:
		return api.LoaderJS
	}
}

func sourcemapOf(enabled bool) api.SourceMap {
	if enabled {
		return api.SourceMapLinked
	}
	return api.SourceMapNone
}

func umdHeader(globalName string) string {
	return `(function (root, factory) {
  if (typeof define === "function" && define.amd) define([], factory);
  else if (typeof module === "object" && module.exports) module.exports = factory();
  else root[` + strconv.Quote(globalName) + `] = factory();
})(typeof globalThis !== "undefined" ? globalThis : typeof self !== "undefined" ? self : this, function () {
var module = { exports: {} }, exports = module.exports;`
}

const umdFooter = `return module.exports;
});`

// banners assembles the code written before and after every output file.
// The shebang always comes first.
func banners(cfg *domain.EngineConfig, format domain.Format) (banner, footer string) {
	var head, tail []string
	if d, ok := cfg.Directive(domain.DirectiveShebang); ok && d.Value != "" {
		head = append(head, d.Value)
	}
	if d, ok := cfg.Directive(domain.DirectiveBanner); ok && d.Value != "" {
		head = append(head, d.Value)
	}
	if format == domain.FormatUMD {
		head = append(head, umdHeader(cfg.GlobalName))
		tail = append(tail, umdFooter)
	}
	if d, ok := cfg.Directive(domain.DirectiveFooter); ok && d.Value != "" {
		tail = append(tail, d.Value)
	}
	return strings.Join(head, "\n"), strings.Join(tail, "\n")
}

func minify(options *api.BuildOptions, enabled bool) {
	options.MinifyWhitespace = enabled
	options.MinifyIdentifiers = enabled
	options.MinifySyntax = enabled
}
