package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "ctxpack", configBaseName)
	assert.Equal(t, "ctxpack.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "output", outputFlagName)
	assert.Equal(t, "max-size", maxSizeFlagName)
	assert.Equal(t, "gitignore", gitignoreFlagName)
	assert.Equal(t, "CTXPACK", envPrefix)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestParseSlogLevel(t *testing.T) {
	assert.Equal(t, -4, int(parseSlogLevel("debug", 0)))
	assert.Equal(t, 0, int(parseSlogLevel("info", -1)))
	assert.Equal(t, 8, int(parseSlogLevel("error", 0)))
	assert.Equal(t, 5, int(parseSlogLevel("5", 0)))
	assert.Equal(t, -1, int(parseSlogLevel("", -1)))
}
