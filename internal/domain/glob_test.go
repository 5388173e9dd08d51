package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchAny(t *testing.T) {
	assert.True(t, MatchAny([]string{"*.go"}, "main.go"))
	assert.True(t, MatchAny([]string{"**/*.md"}, "docs/guide/intro.md"))
	assert.False(t, MatchAny([]string{"*.go"}, "main.py"))
	assert.False(t, MatchAny(nil, "main.go"))
	assert.True(t, MatchAny([]string{"", "*.py"}, "script.py"))
}
