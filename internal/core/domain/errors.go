package domain

import "go.trai.ch/zerr"

var (
	// ErrMissingInput is returned when an entry declares no input.
	ErrMissingInput = zerr.New("entry has no input")

	// ErrInputNotFound is returned when an input pattern matches no file.
	ErrInputNotFound = zerr.New("input not found")

	// ErrInputOutsideRoot is returned when an entry input resolves outside the package root.
	ErrInputOutsideRoot = zerr.New("input is outside the package root")

	// ErrDistNameCollision is returned when two inputs resolve to the same distribution name.
	ErrDistNameCollision = zerr.New("distribution name collision")

	// ErrUnknownFormat is returned when a format string is not recognized.
	ErrUnknownFormat = zerr.New("unknown output format")

	// ErrUnknownPlatform is returned when a platform string is not recognized.
	ErrUnknownPlatform = zerr.New("unknown platform")

	// ErrMissingGlobalName is returned when an iife or umd format has no global name.
	ErrMissingGlobalName = zerr.New("iife and umd formats require a global name")

	// ErrInvalidEntry is returned when an entry shorthand or object cannot be parsed.
	ErrInvalidEntry = zerr.New("invalid entry")

	// ErrInvalidPattern is returned when a "/re/flags" pattern fails to compile.
	ErrInvalidPattern = zerr.New("invalid pattern")

	// ErrHookFailed is returned when a build hook aborts the build.
	ErrHookFailed = zerr.New("build hook failed")

	// ErrEngineBuildFailed is returned when the bundling engine rejects a build.
	ErrEngineBuildFailed = zerr.New("engine build failed")

	// ErrEngineWriteFailed is returned when the bundling engine fails to write its output.
	ErrEngineWriteFailed = zerr.New("engine write failed")

	// ErrDeclarationsUnavailable is returned when no TypeScript compiler can be found.
	ErrDeclarationsUnavailable = zerr.New("declaration generator unavailable")

	// ErrTransformFailed is returned when a source file cannot be transformed.
	ErrTransformFailed = zerr.New("transform failed")

	// ErrConfigNotFound is returned when no build description exists in the package root.
	ErrConfigNotFound = zerr.New("no build configuration found")

	// ErrManifestNotFound is returned when the package has no package.json.
	ErrManifestNotFound = zerr.New("package manifest not found")

	// ErrNoReport is returned when no build report has been recorded yet.
	ErrNoReport = zerr.New("no build report recorded")

	// ErrBuildFailed marks a failure that has already been reported to the user.
	ErrBuildFailed = zerr.New("build failed")
)
