package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeExts(t *testing.T) {
	assert.Equal(t, []string{".go", ".md"}, normalizeExts([]string{"go", ".md"}))
	assert.Equal(t, []string{}, normalizeExts(nil))
}

func TestBuildConfig_DefaultsToCurrentDir(t *testing.T) {
	resetFlags(t)
	maxSizeFlag = "1M"

	cfg, err := buildConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"."}, cfg.Roots)
	assert.Equal(t, int64(1024*1024), cfg.MaxSizeBytes)
	assert.False(t, cfg.TokenCeilingSet)
}

func TestBuildConfig_ParsesTokenCeiling(t *testing.T) {
	resetFlags(t)
	maxSizeFlag = "1M"
	maxTokensFlag = "8k"

	cfg, err := buildConfig([]string{"./src"})
	require.NoError(t, err)
	assert.Equal(t, []string{"./src"}, cfg.Roots)
	assert.True(t, cfg.TokenCeilingSet)
	assert.Equal(t, int64(8000), cfg.TokenCeiling)
}

func TestBuildConfig_RejectsDryRunAndStatsTogether(t *testing.T) {
	resetFlags(t)
	maxSizeFlag = "1M"
	dryRunFlag = true
	statsFlag = true

	_, err := buildConfig(nil)
	assert.Error(t, err)
}

func TestOpenOutput_Stdout(t *testing.T) {
	f, closer, err := openOutput("-")
	require.NoError(t, err)
	defer closer()
	assert.Equal(t, os.Stdout, f)
}

func TestOpenOutput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	f, closer, err := openOutput(path)
	require.NoError(t, err)
	defer closer()
	assert.NotNil(t, f)
}

func resetFlags(t *testing.T) {
	t.Helper()
	maxSizeFlag = ""
	maxTokensFlag = ""
	compressFlag = false
	dryRunFlag = false
	statsFlag = false
	includeExtFlag = nil
	excludeExtFlag = nil
	matchFlag = nil
	fullMatchFlag = nil
	gitignoreFlag = false
}
