package domain

import "path/filepath"

// ModuleFormat is the engine's tag for an output module format.
type ModuleFormat string

const (
	ModuleFormatES   ModuleFormat = "es"
	ModuleFormatCJS  ModuleFormat = "cjs"
	ModuleFormatIIFE ModuleFormat = "iife"
	ModuleFormatUMD  ModuleFormat = "umd"
)

// FormatPlan is the output layout of one (entry, format) pair.
type FormatPlan struct {
	Format               Format
	ModuleFormat         ModuleFormat
	Extension            string
	DeclarationExtension string
	// Subdir is relative to the entry output root. Empty means the root itself.
	Subdir       string
	EntryPattern string
}

// Dir joins the plan's subdirectory onto an output root.
func (p FormatPlan) Dir(outDir string) string {
	if p.Subdir == "" {
		return outDir
	}
	return filepath.Join(outDir, p.Subdir)
}

// Plan computes the output layout for a format. It is a pure function of its arguments.
func Plan(format Format, platform Platform, fixedExtension, multiFormat bool) FormatPlan {
	p := FormatPlan{Format: format}

	switch format {
	case FormatCJS:
		p.ModuleFormat = ModuleFormatCJS
		p.DeclarationExtension = ".d.cts"
		p.Extension = ".cjs"
		if platform == PlatformBrowser && !fixedExtension {
			p.Extension = ".js"
		}
		if multiFormat {
			p.Subdir = "cjs"
		}
	case FormatIIFE, FormatUMD:
		p.ModuleFormat = ModuleFormatIIFE
		if format == FormatUMD {
			p.ModuleFormat = ModuleFormatUMD
		}
		p.DeclarationExtension = ".d.ts"
		p.Extension = ".js"
		if fixedExtension {
			p.Extension = ".mjs"
		}
		switch {
		case platform == PlatformBrowser:
			p.Subdir = "browser"
		case multiFormat:
			p.Subdir = string(format)
		}
	default:
		p.Format = FormatESM
		p.ModuleFormat = ModuleFormatES
		p.DeclarationExtension = ".d.mts"
		p.Extension = ".mjs"
	}

	p.EntryPattern = "[name]" + p.Extension
	return p
}
