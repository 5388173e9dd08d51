package domain

import "github.com/corvidwave/ctxpack/internal/model"

// EstimateTokens approximates a token count from a byte count and content
// kind. The division is intentionally pessimistic (floored): code is denser
// than prose, so it gets a tighter bytes-per-token ratio.
func EstimateTokens(byteCount int, kind model.Kind) int {
	if byteCount <= 0 {
		return 0
	}
	switch kind {
	case model.KindProse:
		return byteCount / 4
	default:
		return byteCount / 3
	}
}
