// Package compress implements the Compression Dispatcher and the language
// Compressors registered under it (spec.md §4.3/§4.4): a closed
// extension-to-language registry, UTF-8/BOM preprocessing, and the
// exhaustive fallback policy that governs when a compression attempt is
// abandoned in favor of emitting the file verbatim.
package compress

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/corvidwave/ctxpack/internal/model"
)

// Compressor is the extensibility contract every language implementation
// satisfies: a name for diagnostics and a pure, deterministic compression
// function.
type Compressor interface {
	Name() string
	Extensions() []string
	Compress(source []byte) model.CompressionOutput
}

// Dispatcher routes a file's extension to its registered Compressor. Each
// Compressor applies the fallback policy itself; the Dispatcher returns its
// output unchanged.
type Dispatcher struct {
	byExt map[string]Compressor
}

// NewDispatcher builds the registry covering every language spec.md §4.4
// names: the standard-library Go compressor plus the tree-sitter-backed
// compressors for the rest.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{byExt: make(map[string]Compressor)}
	d.register(goCompressor{})
	for _, c := range newTreeSitterCompressors() {
		d.register(c)
	}
	return d
}

func (d *Dispatcher) register(c Compressor) {
	for _, ext := range c.Extensions() {
		d.byExt[ext] = c
	}
}

// Supported reports whether the dispatcher has a compressor registered for
// the given path's extension.
func (d *Dispatcher) Supported(path string) bool {
	_, ok := d.byExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Dispatch attempts compression for path's content. The boolean result
// distinguishes "no compressor for this extension" (silent, per §4.3) from
// every other fallback (which the caller should warn about once via
// Warning()).
func (d *Dispatcher) Dispatch(path string, source []byte) (out model.CompressionOutput, supported bool) {
	c, ok := d.byExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return model.CompressionOutput{Reason: "unsupported language"}, false
	}
	return c.Compress(source), true
}

// Warning formats the single stderr line required when a supported
// language's compression attempt falls back to verbatim output.
func Warning(path, reason string) string {
	return fmt.Sprintf("Warning: compression failed for %s: %s", path, reason)
}
