package domain

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"sort"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/corvidwave/ctxpack/internal/domain/compress"
	"github.com/corvidwave/ctxpack/internal/model"
)

// classifyWorkers bounds the worker pool that reads and classifies
// candidates concurrently, the same bounded-fan-out idiom the teacher's
// mutation streamer used over its own candidate channel.
const classifyWorkers = 8

var secretPattern = regexp.MustCompile(`(?i)(api[_-]?key|secret|password|token)\s*[:=]\s*['"][A-Za-z0-9/+=_-]{12,}['"]`)

// CandidateSource is the external collaborator the Pipeline Composer
// consumes. Channel-based, the same idiom the teacher's mutationStreamer
// uses for its own file-by-file streaming: the source closes both channels
// when its walk finishes, and a context cancellation stops it early.
type CandidateSource interface {
	Candidates(ctx context.Context) (<-chan model.Candidate, <-chan error)
}

// Pipeline wires Candidate Source -> Scorer -> (optional) Allocator ->
// Transformer -> Emitter, per spec.md §4.6.
type Pipeline struct {
	Source     CandidateSource
	Config     model.Config
	Dispatcher *compress.Dispatcher
	Warn       func(string)
}

// Run drives the full pipeline and writes the artifact (or manifest, in
// dry-run, or only the summary, in stats mode) to w.
func (p *Pipeline) Run(ctx context.Context, w io.Writer) (model.Summary, error) {
	scored, preExcluded, err := p.collectScored(ctx)
	if err != nil {
		return model.Summary{}, err
	}

	budgeted := p.Config.TokenCeilingSet
	var decisions []model.TransformDecision
	if budgeted {
		decisions = p.allocate(scored)
	} else {
		decisions = p.streamOrder(scored)
	}
	decisions = append(decisions, preExcluded...)
	if !budgeted {
		sort.Slice(decisions, func(i, j int) bool { return decisions[i].Path < decisions[j].Path })
	}

	summary := p.summarize(decisions)

	switch {
	case p.Config.Stats:
		return summary, p.writeSummaryOnly(w, summary)
	case p.Config.DryRun:
		return summary, p.writeManifest(w, decisions, budgeted)
	default:
		return summary, p.writeArtifact(w, decisions, summary, budgeted)
	}
}

// collectScored drains the candidate source through a bounded pool of
// classifyWorkers goroutines (reading and classifying a candidate's
// content is the one I/O-bound step worth parallelizing here), coordinated
// with an errgroup so any worker error cancels the rest and propagates.
// Selection filters (include/exclude extensions, match globs) decide
// whether a path is a candidate at all and drop silently, the way a
// Candidate Source's own walk policy would; size/binary/secret checks
// happen once a path is a candidate and are tracked as excluded-with-reason
// so the summary's tally accounts for them.
func (p *Pipeline) collectScored(ctx context.Context) ([]model.ScoredCandidate, []model.TransformDecision, error) {
	candCh, errCh := p.Source.Candidates(ctx)

	type result struct {
		scored     model.ScoredCandidate
		excluded   model.TransformDecision
		isExcluded bool
	}
	resultCh := make(chan result)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < classifyWorkers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case cand, ok := <-candCh:
					if !ok {
						return nil
					}
					if !p.selected(cand) {
						continue
					}
					sc := model.ScoredCandidate{Candidate: cand, Score: Score(cand.Path, cand.Depth)}
					var r result
					if reason, bad := p.classify(sc); bad {
						r = result{excluded: model.TransformDecision{ScoredCandidate: sc, Mode: model.ModeExcluded, Reason: reason}, isExcluded: true}
					} else {
						r = result{scored: sc}
					}
					select {
					case resultCh <- r:
					case <-gctx.Done():
						return gctx.Err()
					}
				}
			}
		})
	}

	collectDone := make(chan struct{})
	var scored []model.ScoredCandidate
	var excluded []model.TransformDecision
	go func() {
		defer close(collectDone)
		for r := range resultCh {
			if r.isExcluded {
				excluded = append(excluded, r.excluded)
			} else {
				scored = append(scored, r.scored)
			}
		}
	}()

	gerr := g.Wait()
	close(resultCh)
	<-collectDone

	if gerr != nil {
		return nil, nil, fmt.Errorf("candidate source: %w", gerr)
	}
	if err := <-errCh; err != nil {
		return nil, nil, fmt.Errorf("candidate source: %w", err)
	}

	sort.Slice(scored, func(i, j int) bool { return scored[i].Path < scored[j].Path })
	sort.Slice(excluded, func(i, j int) bool { return excluded[i].Path < excluded[j].Path })
	return scored, excluded, nil
}

func (p *Pipeline) selected(c model.Candidate) bool {
	if len(p.Config.IncludeExt) > 0 && !containsExt(p.Config.IncludeExt, c.Ext) {
		return false
	}
	if containsExt(p.Config.ExcludeExt, c.Ext) {
		return false
	}
	if len(p.Config.MatchGlobs) > 0 && !MatchAny(p.Config.MatchGlobs, c.Path) {
		return false
	}
	return true
}

// classify applies the tracked exclusion checks: too-large, then binary,
// then non-UTF-8 encoding, then secret content (in that order — cheapest
// check first).
func (p *Pipeline) classify(c model.ScoredCandidate) (model.ExcludeReason, bool) {
	if p.Config.MaxSizeBytes > 0 && c.Size > p.Config.MaxSizeBytes {
		return model.ReasonTooLarge, true
	}
	if c.Open == nil {
		return model.ReasonNone, false
	}
	rc, err := c.Open()
	if err != nil {
		return model.ReasonIO, true
	}
	defer rc.Close()
	head, err := readAll(rc)
	if err != nil {
		return model.ReasonIO, true
	}
	if isBinaryContent(head) {
		return model.ReasonBinary, true
	}
	if !utf8.Valid(head) {
		return model.ReasonEncoding, true
	}
	if looksLikeSecret(head) {
		return model.ReasonSecret, true
	}
	return model.ReasonNone, false
}

// isBinaryContent treats a null byte in the first 8KB as a reliable binary
// signal, the same heuristic git itself uses.
func isBinaryContent(data []byte) bool {
	n := len(data)
	if n > 8192 {
		n = 8192
	}
	return bytes.IndexByte(data[:n], 0) >= 0
}

// looksLikeSecret does a best-effort scan for common "key: value" secret
// patterns. Deliberately shallow: real secret scanning is out of scope for
// this tool (spec.md treats it as an external collaborator's concern), but
// the summary's secret-exclusion tally needs something to exercise it.
func looksLikeSecret(data []byte) bool {
	return secretPattern.Match(data)
}

func containsExt(list []string, ext string) bool {
	for _, e := range list {
		if e == ext {
			return true
		}
	}
	return false
}

// streamOrder is the no-budget path: every filtered candidate is included
// full, in ascending path order, with no allocator involved.
func (p *Pipeline) streamOrder(scored []model.ScoredCandidate) []model.TransformDecision {
	sort.Slice(scored, func(i, j int) bool { return scored[i].Path < scored[j].Path })
	decisions := make([]model.TransformDecision, 0, len(scored))
	for _, c := range scored {
		decisions = append(decisions, model.TransformDecision{ScoredCandidate: c, Mode: model.ModeFull})
	}
	return decisions
}

// allocate is the budgeted path: greedy packing via the Budget Allocator,
// with compression attempted during the same pass (the one parallelism
// point spec.md §5 permits for buffered allocation).
func (p *Pipeline) allocate(scored []model.ScoredCandidate) []model.TransformDecision {
	fullMatch := func(c model.ScoredCandidate) bool {
		return MatchAny(p.Config.FullMatchGlobs, c.Path)
	}
	supported := func(c model.ScoredCandidate) bool {
		return p.Dispatcher.Supported(c.Path)
	}
	estimate := func(c model.ScoredCandidate) int {
		return EstimateTokens(int(c.Size), kindFor(c.Ext))
	}
	compressedEstimate := func(c model.ScoredCandidate) (int, bool) {
		out, ok := p.tryCompress(c)
		if !ok || !out.Ok {
			return 0, false
		}
		return EstimateTokens(len(out.Text), kindFor(c.Ext)), true
	}

	return Allocate(scored, fullMatch, p.Config.Compress, supported, estimate, compressedEstimate, p.Config.TokenCeiling, true)
}

func (p *Pipeline) tryCompress(c model.ScoredCandidate) (model.CompressionOutput, bool) {
	if c.Open == nil {
		return model.CompressionOutput{}, false
	}
	rc, err := c.Open()
	if err != nil {
		return model.CompressionOutput{}, false
	}
	defer rc.Close()
	data, err := readAll(rc)
	if err != nil {
		return model.CompressionOutput{}, false
	}
	out, supported := p.Dispatcher.Dispatch(c.Path, data)
	if !supported {
		return out, false
	}
	if !out.Ok && p.Warn != nil {
		p.Warn(compress.Warning(c.Path, out.Reason))
	}
	return out, true
}

func kindFor(ext string) model.Kind {
	switch ext {
	case ".md", ".txt", ".rst", ".adoc":
		return model.KindProse
	default:
		return model.KindCode
	}
}

func readAll(r io.Reader) ([]byte, error) {
	var buf []byte
	chunk := make([]byte, 32*1024)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err == io.EOF {
			return buf, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (p *Pipeline) summarize(decisions []model.TransformDecision) model.Summary {
	s := model.Summary{
		ExcludedByReason: map[model.ExcludeReason]int{},
		ExtensionCounts:  map[string]int{},
		Ceiling:          int(p.Config.TokenCeiling),
		CeilingSet:       p.Config.TokenCeilingSet,
	}
	for _, d := range decisions {
		s.TotalCandidates++
		switch d.Mode {
		case model.ModeFull:
			s.IncludedFull++
			s.ExtensionCounts[d.Ext]++
			s.EstimatedTokens += EstimateTokens(int(d.Size), kindFor(d.Ext))
		case model.ModeCompressed:
			s.IncludedCompressed++
			s.ExtensionCounts[d.Ext]++
		case model.ModeExcluded:
			s.Excluded++
			s.ExcludedByReason[d.Reason]++
		}
	}
	return s
}

func (p *Pipeline) writeSummaryOnly(w io.Writer, summary model.Summary) error {
	return NewEmitter(w, p.Config.Compress, true).WriteSummary(summary)
}

func (p *Pipeline) writeManifest(w io.Writer, decisions []model.TransformDecision, budgeted bool) error {
	for _, d := range decisions {
		var line string
		if !budgeted {
			if d.Mode == model.ModeExcluded {
				continue
			}
			line = d.Path + "\n"
		} else {
			switch d.Mode {
			case model.ModeFull:
				line = fmt.Sprintf("[FULL] %s\n", d.Path)
			case model.ModeCompressed:
				line = fmt.Sprintf("[COMPRESSED] %s\n", d.Path)
			case model.ModeExcluded:
				line = fmt.Sprintf("[EXCLUDED: %s] %s\n", d.Reason, d.Path)
			}
		}
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) writeArtifact(w io.Writer, decisions []model.TransformDecision, summary model.Summary, budgeted bool) error {
	emitter := NewEmitter(w, p.Config.Compress, budgeted)
	if emitter.SummaryAtStart() {
		if err := emitter.WriteSummary(summary); err != nil {
			return err
		}
	}
	for _, d := range decisions {
		if d.Mode == model.ModeExcluded {
			continue
		}
		content, compressed, err := p.render(d)
		if err != nil {
			return err
		}
		if err := emitter.WriteFile(d.Path, content, compressed); err != nil {
			return err
		}
	}
	if !emitter.SummaryAtStart() {
		return emitter.WriteSummary(summary)
	}
	return nil
}

func (p *Pipeline) render(d model.TransformDecision) (content string, compressed bool, err error) {
	if d.Open == nil {
		return "", false, fmt.Errorf("candidate %s has no content source", d.Path)
	}
	rc, err := d.Open()
	if err != nil {
		return "", false, fmt.Errorf("open %s: %w", d.Path, err)
	}
	defer rc.Close()
	data, err := readAll(rc)
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", d.Path, err)
	}

	if d.Mode != model.ModeCompressed {
		return string(data), false, nil
	}
	out, supported := p.Dispatcher.Dispatch(d.Path, data)
	if !supported || !out.Ok {
		if out.Reason != "" && p.Warn != nil {
			p.Warn(compress.Warning(d.Path, out.Reason))
		}
		return string(data), false, nil
	}
	return out.Text, true, nil
}
