package compress

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGoSource = `package sample

// Add returns the sum of a and b.
func Add(a, b int) int {
	return a + b
}

type Point struct {
	X, Y int
}
`

func TestGoCompressor_ElidesFunctionBodies(t *testing.T) {
	c := goCompressor{}
	out := c.Compress([]byte(sampleGoSource))
	require.True(t, out.Ok)
	assert.Contains(t, out.Text, "func Add(a, b int) int")
	assert.NotContains(t, out.Text, "return a + b")
	assert.Less(t, len(out.Text), len(sampleGoSource))
}

func TestGoCompressor_RetainsTypeDeclarations(t *testing.T) {
	c := goCompressor{}
	out := c.Compress([]byte(sampleGoSource))
	require.True(t, out.Ok)
	assert.Contains(t, out.Text, "type Point struct")
}

func TestGoCompressor_FallsBackOnParseError(t *testing.T) {
	c := goCompressor{}
	out := c.Compress([]byte("package broken\nfunc ( {{{"))
	assert.False(t, out.Ok)
	assert.Equal(t, "parse error", out.Reason)
}

func TestGoCompressor_EmptyInputFallsBack(t *testing.T) {
	c := goCompressor{}
	out := c.Compress([]byte(""))
	assert.False(t, out.Ok)
}

func TestGoCompressor_Name(t *testing.T) {
	assert.Equal(t, "go", goCompressor{}.Name())
	assert.Equal(t, []string{".go"}, goCompressor{}.Extensions())
}

func TestGoCompressor_NoFunctionsIsNonShrinkingFallback(t *testing.T) {
	c := goCompressor{}
	src := "package onlyconst\n\nconst X = 1\n"
	out := c.Compress([]byte(src))
	assert.False(t, out.Ok)
	assert.Equal(t, "non-shrinking output", out.Reason)
	assert.False(t, strings.Contains(out.Text, "const X"))
}
