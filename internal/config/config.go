// Package config parses the size and token quantities accepted on the
// command line and validates the assembled Config for contradictory flags.
//
// Byte-oriented quantities (--max-size) use binary suffixes: k/K=1024,
// M=1024^2, G=1024^3. Token-oriented quantities (--max-tokens) use decimal
// suffixes: k/K=1000, M=1e6, G=1e9. This split mirrors parse_binary_number
// and parse_decimal_number in the original tool.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/corvidwave/ctxpack/internal/model"
)

const (
	binaryK = 1024
	binaryM = binaryK * 1024
	binaryG = binaryM * 1024

	decimalK = 1000
	decimalM = decimalK * 1000
	decimalG = decimalM * 1000
)

// ParseByteSize parses a byte quantity with binary (1024-based) suffixes.
func ParseByteSize(s string) (int64, error) {
	return parseSuffixed(s, binaryK, binaryM, binaryG)
}

// ParseTokenCount parses a token quantity with decimal (1000-based) suffixes.
func ParseTokenCount(s string) (int64, error) {
	return parseSuffixed(s, decimalK, decimalM, decimalG)
}

func parseSuffixed(s string, k, m, g int64) (int64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("empty size value")
	}

	mult := int64(1)
	switch {
	case strings.HasSuffix(trimmed, "G") || strings.HasSuffix(trimmed, "g"):
		mult = g
		trimmed = trimmed[:len(trimmed)-1]
	case strings.HasSuffix(trimmed, "M") || strings.HasSuffix(trimmed, "m"):
		mult = m
		trimmed = trimmed[:len(trimmed)-1]
	case strings.HasSuffix(trimmed, "K") || strings.HasSuffix(trimmed, "k"):
		mult = k
		trimmed = trimmed[:len(trimmed)-1]
	}

	trimmed = strings.TrimSpace(trimmed)
	if trimmed == "" {
		return 0, fmt.Errorf("missing numeric value in %q", s)
	}

	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("size must not be negative: %q", s)
	}

	result := n * mult
	if mult != 1 && n != 0 && result/mult != n {
		return 0, fmt.Errorf("size overflow: %q", s)
	}
	return result, nil
}

// Validate rejects contradictory or malformed configuration combinations,
// the way the original tool's config module refuses to start rather than
// produce an artifact whose flags silently override one another.
func Validate(c *model.Config) error {
	if len(c.Roots) == 0 {
		return fmt.Errorf("at least one root path is required")
	}
	if c.DryRun && c.Stats {
		return fmt.Errorf("--dry-run and --stats are mutually exclusive")
	}
	if c.MaxSizeBytes < 0 {
		return fmt.Errorf("--max-size must not be negative")
	}
	if c.TokenCeilingSet && c.TokenCeiling < 0 {
		return fmt.Errorf("--max-tokens must not be negative")
	}
	for _, g := range c.FullMatchGlobs {
		if g == "" {
			return fmt.Errorf("--full-match glob must not be empty")
		}
	}
	return nil
}
