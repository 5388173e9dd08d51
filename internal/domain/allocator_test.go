package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidwave/ctxpack/internal/model"
)

func sc(path string, score int, size int64) model.ScoredCandidate {
	return model.ScoredCandidate{
		Candidate: model.Candidate{Path: path, Size: size, Ext: ".go"},
		Score:     score,
	}
}

func noFullMatch(model.ScoredCandidate) bool { return false }
func noneSupported(model.ScoredCandidate) bool { return false }
func byteEstimate(c model.ScoredCandidate) int { return int(c.Size) }
func neverCompresses(model.ScoredCandidate) (int, bool) { return 0, false }

func TestAllocate_NoCeilingIncludesAllFull(t *testing.T) {
	candidates := []model.ScoredCandidate{sc("a.go", 90, 10), sc("b.go", 50, 20)}
	decisions := Allocate(candidates, noFullMatch, false, noneSupported, byteEstimate, neverCompresses, 0, false)
	require.Len(t, decisions, 2)
	for _, d := range decisions {
		assert.Equal(t, model.ModeFull, d.Mode)
	}
}

func TestAllocate_SortsByScoreDescThenPathAsc(t *testing.T) {
	candidates := []model.ScoredCandidate{sc("z.go", 50, 1), sc("a.go", 50, 1), sc("m.go", 90, 1)}
	decisions := Allocate(candidates, noFullMatch, false, noneSupported, byteEstimate, neverCompresses, 0, false)
	require.Len(t, decisions, 3)
	assert.Equal(t, "m.go", decisions[0].Path)
	assert.Equal(t, "a.go", decisions[1].Path)
	assert.Equal(t, "z.go", decisions[2].Path)
}

func TestAllocate_ExcludesOnOverflowWithoutCompression(t *testing.T) {
	candidates := []model.ScoredCandidate{sc("a.go", 90, 10), sc("b.go", 50, 10)}
	decisions := Allocate(candidates, noFullMatch, false, noneSupported, byteEstimate, neverCompresses, 10, true)
	require.Len(t, decisions, 2)
	assert.Equal(t, model.ModeFull, decisions[0].Mode)
	assert.Equal(t, model.ModeExcluded, decisions[1].Mode)
	assert.Equal(t, model.ReasonBudget, decisions[1].Reason)
}

func TestAllocate_NoGraceForOneByteOverflow(t *testing.T) {
	candidates := []model.ScoredCandidate{sc("a.go", 90, 11)}
	decisions := Allocate(candidates, noFullMatch, false, noneSupported, byteEstimate, neverCompresses, 10, true)
	require.Len(t, decisions, 1)
	assert.Equal(t, model.ModeExcluded, decisions[0].Mode)
}

func TestAllocate_CompressesOnOverflowWhenSupported(t *testing.T) {
	candidates := []model.ScoredCandidate{sc("a.go", 90, 5), sc("b.go", 50, 10)}
	supported := func(c model.ScoredCandidate) bool { return c.Path == "b.go" }
	compressed := func(c model.ScoredCandidate) (int, bool) { return 3, true }
	decisions := Allocate(candidates, noFullMatch, true, supported, byteEstimate, compressed, 8, true)
	require.Len(t, decisions, 2)
	assert.Equal(t, model.ModeFull, decisions[0].Mode)
	assert.Equal(t, model.ModeCompressed, decisions[1].Mode)
}

func TestAllocate_FullMatchNeverRetriesCompressed(t *testing.T) {
	fullMatch := func(c model.ScoredCandidate) bool { return c.Path == "a.go" }
	candidates := []model.ScoredCandidate{sc("a.go", 90, 20)}
	decisions := Allocate(candidates, fullMatch, true, func(model.ScoredCandidate) bool { return true }, byteEstimate, func(model.ScoredCandidate) (int, bool) { return 1, true }, 5, true)
	require.Len(t, decisions, 1)
	assert.Equal(t, model.ModeExcluded, decisions[0].Mode)
}

func TestAllocate_ZeroCeilingExcludesEverything(t *testing.T) {
	candidates := []model.ScoredCandidate{sc("a.go", 90, 1)}
	decisions := Allocate(candidates, noFullMatch, false, noneSupported, byteEstimate, neverCompresses, 0, true)
	require.Len(t, decisions, 1)
	assert.Equal(t, model.ModeExcluded, decisions[0].Mode)
}

func TestSpillSort_PreservesOrderAboveThreshold(t *testing.T) {
	candidates := make([]model.ScoredCandidate, 0, spillThreshold+5)
	for i := 0; i < spillThreshold+5; i++ {
		candidates = append(candidates, sc(string(rune('a'+(i%26))), i%5, 1))
	}
	decisions := Allocate(candidates, noFullMatch, false, noneSupported, byteEstimate, neverCompresses, 0, false)
	assert.Len(t, decisions, len(candidates))
	for i := 1; i < len(decisions); i++ {
		prev, cur := decisions[i-1], decisions[i]
		assert.True(t, prev.Score > cur.Score || (prev.Score == cur.Score && prev.Path <= cur.Path),
			"decision %d (%s, %d) out of order after (%s, %d)", i, cur.Path, cur.Score, prev.Path, prev.Score)
	}
}
