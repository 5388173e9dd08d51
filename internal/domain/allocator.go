package domain

import (
	"sort"

	"github.com/corvidwave/ctxpack/internal/model"
	"github.com/corvidwave/ctxpack/pkg"
)

// spillThreshold is the candidate-set size above which the buffered
// allocation pass spills its sorted working set to disk instead of holding
// it resident, per spec.md §5's allowance for buffered-pass optimizations.
const spillThreshold = 4096

// spillRecord is the gob-encodable projection of a ScoredCandidate: the
// lazy Open handle can't cross a gob boundary, so the allocator keeps a
// side table from path to opener and reattaches it after the sorted order
// comes back off disk.
type spillRecord struct {
	Path   string
	Size   int64
	Ext    string
	Depth  int
	IsTest bool
	Score  int
}

// Allocate implements the Budget Allocator (spec.md §4.5): candidates are
// partitioned into a full-match set (never compressed, excluded outright if
// they don't fit full) and the rest (eligible for a compressed retry on
// overflow when compression is active and the language is supported), each
// stably sorted by score descending then path ascending, then packed
// greedily against the remaining budget with no grace for partial overflow.
func Allocate(candidates []model.ScoredCandidate, fullMatch func(model.ScoredCandidate) bool, compressEnabled bool, supported func(model.ScoredCandidate) bool, estimate func(model.ScoredCandidate) int, compressedEstimate func(model.ScoredCandidate) (int, bool), ceiling int64, ceilingSet bool) []model.TransformDecision {
	full, rest := partition(candidates, fullMatch)

	if len(candidates) >= spillThreshold {
		full = spillSort(full)
		rest = spillSort(rest)
	} else {
		sortStable(full)
		sortStable(rest)
	}

	decisions := make([]model.TransformDecision, 0, len(candidates))
	var used int64

	for _, c := range full {
		cost := int64(estimate(c))
		if ceilingSet && used+cost > ceiling {
			decisions = append(decisions, model.TransformDecision{ScoredCandidate: c, Mode: model.ModeExcluded, Reason: model.ReasonBudget})
			continue
		}
		used += cost
		decisions = append(decisions, model.TransformDecision{ScoredCandidate: c, Mode: model.ModeFull})
	}

	for _, c := range rest {
		cost := int64(estimate(c))
		if !ceilingSet || used+cost <= ceiling {
			used += cost
			decisions = append(decisions, model.TransformDecision{ScoredCandidate: c, Mode: model.ModeFull})
			continue
		}
		if compressEnabled && supported(c) {
			if ct, ok := compressedEstimate(c); ok {
				compCost := int64(ct)
				if used+compCost <= ceiling {
					used += compCost
					decisions = append(decisions, model.TransformDecision{ScoredCandidate: c, Mode: model.ModeCompressed})
					continue
				}
			}
		}
		decisions = append(decisions, model.TransformDecision{ScoredCandidate: c, Mode: model.ModeExcluded, Reason: model.ReasonBudget})
	}

	return decisions
}

func partition(candidates []model.ScoredCandidate, fullMatch func(model.ScoredCandidate) bool) (full, rest []model.ScoredCandidate) {
	for _, c := range candidates {
		if fullMatch(c) {
			full = append(full, c)
		} else {
			rest = append(rest, c)
		}
	}
	return full, rest
}

func sortStable(s []model.ScoredCandidate) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Score != s[j].Score {
			return s[i].Score > s[j].Score
		}
		return s[i].Path < s[j].Path
	})
}

// spillSort sorts a candidate set the same way sortStable does, but keeps
// the sorted working set in a temp-file-backed FileSpill rather than a
// second in-memory slice, reattaching each candidate's Open handle from a
// side table once the order comes back off disk.
func spillSort(candidates []model.ScoredCandidate) []model.ScoredCandidate {
	if len(candidates) == 0 {
		return nil
	}

	sortStable(candidates)

	spill, err := pkg.NewFileSpill[spillRecord]()
	if err != nil {
		return candidates
	}
	defer spill.Close()

	openerByPath := make(map[string]model.Candidate, len(candidates))
	for _, c := range candidates {
		openerByPath[c.Path] = c.Candidate
		rec := spillRecord{Path: c.Path, Size: c.Size, Ext: c.Ext, Depth: c.Depth, IsTest: c.IsTest, Score: c.Score}
		if err := spill.Append(rec); err != nil {
			return candidates
		}
	}

	out := make([]model.ScoredCandidate, 0, len(candidates))
	err = spill.Range(func(_ uint64, rec spillRecord) error {
		cand := openerByPath[rec.Path]
		out = append(out, model.ScoredCandidate{Candidate: cand, Score: rec.Score})
		return nil
	})
	if err != nil {
		return candidates
	}
	return out
}
