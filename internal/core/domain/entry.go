package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// EntryKind selects how an entry is built.
type EntryKind string

const (
	// EntryKindBundle bundles the entry inputs through the engine.
	EntryKindBundle EntryKind = "bundle"
	// EntryKindTransform transforms every file of an input directory one by one.
	EntryKindTransform EntryKind = "transform"
)

// Format is an output module convention.
type Format string

const (
	// FormatESM is the ECMAScript module format.
	FormatESM Format = "esm"
	// FormatCJS is the CommonJS format.
	FormatCJS Format = "cjs"
	// FormatIIFE is a self-executing script exposing a single global.
	FormatIIFE Format = "iife"
	// FormatUMD is the universal module definition format.
	FormatUMD Format = "umd"
)

// ParseFormat maps the accepted format spellings to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "esm", "es", "module":
		return FormatESM, nil
	case "cjs", "commonjs":
		return FormatCJS, nil
	case "iife":
		return FormatIIFE, nil
	case "umd":
		return FormatUMD, nil
	default:
		return "", zerr.With(zerr.Wrap(ErrUnknownFormat, "failed to parse format"), "format", s)
	}
}

// NeedsGlobalName reports whether the format exposes its exports through a global variable.
func (f Format) NeedsGlobalName() bool {
	return f == FormatIIFE || f == FormatUMD
}

// Platform is the runtime an entry targets.
type Platform string

const (
	// PlatformNode targets Node.js.
	PlatformNode Platform = "node"
	// PlatformBrowser targets browsers.
	PlatformBrowser Platform = "browser"
	// PlatformNeutral targets no specific runtime.
	PlatformNeutral Platform = "neutral"
)

// ParsePlatform validates a platform string. The empty string selects node.
func ParsePlatform(s string) (Platform, error) {
	switch Platform(strings.ToLower(strings.TrimSpace(s))) {
	case "", PlatformNode:
		return PlatformNode, nil
	case PlatformBrowser:
		return PlatformBrowser, nil
	case PlatformNeutral:
		return PlatformNeutral, nil
	default:
		return "", zerr.With(zerr.Wrap(ErrUnknownPlatform, "failed to parse platform"), "platform", s)
	}
}

// NodeProtocol controls how builtin imports are spelled in the output.
type NodeProtocol string

const (
	// NodeProtocolKeep leaves builtin specifiers untouched.
	NodeProtocolKeep NodeProtocol = ""
	// NodeProtocolAdd rewrites "fs" to "node:fs".
	NodeProtocolAdd NodeProtocol = "add"
	// NodeProtocolStrip rewrites "node:fs" to "fs".
	NodeProtocolStrip NodeProtocol = "strip"
)

// Input is one resolved source file of a bundle entry.
type Input struct {
	// Name is the distribution name, e.g. "utils/a" for src/utils/a.ts.
	Name string
	// Path is the absolute source path.
	Path string
}

// CleanPolicy describes which directories are emptied before an entry writes.
type CleanPolicy struct {
	Enabled bool
	// Paths are extra absolute directories to clean besides the output root.
	Paths []string
}

// CopyRule copies a file or directory after all formats of an entry are written.
type CopyRule struct {
	From string
	To   string
}

// Entry is one normalized build unit. It is immutable once normalized.
type Entry struct {
	Name     string
	Kind     EntryKind
	Inputs   []Input
	OutDir   string
	Formats  []Format
	Platform Platform

	GlobalName     string
	Clean          CleanPolicy
	Minify         bool
	Sourcemap      bool
	Declarations   bool
	Hash           bool
	FixedExtension bool

	External   ExternalOption
	NoExternal ExternalOption

	Env    map[string]string
	Define map[string]string
	Copy   []CopyRule

	Shebang      string
	NodeProtocol NodeProtocol
	Target       string
	Banner       string
	Footer       string

	// Plugins are opaque plugin values supplied through the Go API.
	Plugins []any
}

// IsMultiFormat reports whether the entry writes more than one format.
func (e *Entry) IsMultiFormat() bool {
	return len(e.Formats) > 1
}

// InputMap returns the distribution name to source path map handed to the engine.
func (e *Entry) InputMap() map[string]string {
	m := make(map[string]string, len(e.Inputs))
	for _, in := range e.Inputs {
		m[in.Name] = in.Path
	}
	return m
}
