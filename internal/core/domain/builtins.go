package domain

import (
	"slices"
	"strings"
)

// NodeProtocolPrefix is the scheme Node.js accepts in front of builtin module names.
const NodeProtocolPrefix = "node:"

var nodeBuiltins = []string{
	"assert", "assert/strict", "async_hooks", "buffer", "child_process", "cluster",
	"console", "constants", "crypto", "dgram", "diagnostics_channel", "dns",
	"dns/promises", "domain", "events", "fs", "fs/promises", "http", "http2", "https",
	"inspector", "inspector/promises", "module", "net", "os", "path", "path/posix",
	"path/win32", "perf_hooks", "process", "punycode", "querystring", "readline",
	"readline/promises", "repl", "stream", "stream/consumers", "stream/promises",
	"stream/web", "string_decoder", "sys", "timers", "timers/promises", "tls",
	"trace_events", "tty", "url", "util", "util/types", "v8", "vm", "wasi",
	"worker_threads", "zlib",
}

// NodeBuiltins returns the Node.js builtin module names in sorted order.
func NodeBuiltins() []string {
	return slices.Clone(nodeBuiltins)
}

// IsBuiltin reports whether id names a Node.js builtin, with or without the node: prefix.
func IsBuiltin(id string) bool {
	if strings.HasPrefix(id, NodeProtocolPrefix) {
		return true
	}
	_, found := slices.BinarySearch(nodeBuiltins, id)
	return found
}
