package domain

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/corvidwave/ctxpack/internal/model"
)

// Emitter renders file envelopes and the summary block into the final
// artifact (spec.md §6.1). Content is written byte-for-byte with no
// escaping; paths are always forward-slash.
type Emitter struct {
	w               io.Writer
	modeActive      bool
	summaryAtStart  bool
}

// NewEmitter constructs an Emitter. summaryAtStart should be false for
// streaming output (summary trails, since totals aren't known until the
// stream ends) and may be true for buffered output.
func NewEmitter(w io.Writer, modeActive, summaryAtStart bool) *Emitter {
	return &Emitter{w: w, modeActive: modeActive, summaryAtStart: summaryAtStart}
}

// WriteFile emits one <file> envelope.
func (e *Emitter) WriteFile(path, content string, compressed bool) error {
	if e.modeActive {
		mode := "full"
		if compressed {
			mode = "compressed"
		}
		_, err := fmt.Fprintf(e.w, "<file path=%q mode=%q>\n%s\n</file>\n", forwardSlash(path), mode, content)
		return err
	}
	_, err := fmt.Fprintf(e.w, "<file path=%q>\n%s\n</file>\n", forwardSlash(path), content)
	return err
}

// WriteSummary emits the <summary> block: candidate count, full/compressed
// included counts, excluded count and per-reason tally, the per-extension
// breakdown, and estimated tokens (with the ceiling when one is set).
func (e *Emitter) WriteSummary(s model.Summary) error {
	var b strings.Builder
	b.WriteString("<summary>\n")
	fmt.Fprintf(&b, "Candidates: %d\n", s.TotalCandidates)
	fmt.Fprintf(&b, "Included: %d full, %d compressed\n", s.IncludedFull, s.IncludedCompressed)
	fmt.Fprintf(&b, "Excluded: %d\n", s.Excluded)
	if len(s.ExcludedByReason) > 0 {
		b.WriteString("Excluded by reason:")
		reasons := make([]model.ExcludeReason, 0, len(s.ExcludedByReason))
		for r := range s.ExcludedByReason {
			reasons = append(reasons, r)
		}
		sort.Slice(reasons, func(i, j int) bool { return reasons[i].String() < reasons[j].String() })
		for _, r := range reasons {
			fmt.Fprintf(&b, " %s=%d", r.String(), s.ExcludedByReason[r])
		}
		b.WriteString("\n")
	}
	b.WriteString(extensionBreakdown(s.ExtensionCounts))
	fmt.Fprintf(&b, "Estimated tokens: %d", s.EstimatedTokens)
	if s.CeilingSet {
		fmt.Fprintf(&b, " / %d\n", s.Ceiling)
	} else {
		b.WriteString("\n")
	}
	b.WriteString("</summary>\n")
	_, err := io.WriteString(e.w, b.String())
	return err
}

// extensionBreakdown renders the summary's "By extension: ext:count, ..."
// line in a fixed, deterministic form: extensions sorted alphabetically, an
// explicit "(none)" bucket for extension-less files. The breakdown is its
// own line; it is not appended to the "Included:" line.
func extensionBreakdown(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		label := k
		if label == "" {
			label = "(none)"
		}
		parts = append(parts, fmt.Sprintf("%s:%d", label, counts[k]))
	}
	return "By extension: " + strings.Join(parts, ", ") + "\n"
}

func forwardSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// SummaryAtStart reports where the emitter places the summary block.
func (e *Emitter) SummaryAtStart() bool { return e.summaryAtStart }
