package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_Readme(t *testing.T) {
	assert.Equal(t, scoreReadme, Score("README.md", 0))
	assert.Equal(t, scoreReadme, Score("readme.txt", 3))
	assert.Equal(t, scoreReadme, Score("docs/Readme", 2))
}

func TestScore_ReadmeBeatsFixtureConvention(t *testing.T) {
	// A README nested under a fixtures/ dir must still score as a README,
	// not as a fixture, even though the original scorer checked fixtures first.
	assert.Equal(t, scoreReadme, Score("tests/fixtures/README.md", 2))
}

func TestScore_EntryPoint(t *testing.T) {
	assert.Equal(t, scoreEntry, Score("cmd/main.go", 1))
	assert.Equal(t, scoreEntry, Score("src/index.ts", 1))
	assert.Equal(t, scoreEntry, Score("__main__.py", 0))
}

func TestScore_Config(t *testing.T) {
	assert.Equal(t, scoreConfig, Score("go.mod", 0))
	assert.Equal(t, scoreConfig, Score("package.json", 0))
	assert.Equal(t, scoreConfig, Score("Dockerfile", 0))
}

func TestScore_Fixture(t *testing.T) {
	assert.Equal(t, scoreFixture, Score("tests/fixtures/sample.json", 2))
	assert.Equal(t, scoreFixture, Score("__snapshots__/a.snap", 1))
}

func TestScore_Test(t *testing.T) {
	assert.Equal(t, scoreTest, Score("pkg/foo_test.go", 1))
	assert.Equal(t, scoreTest, Score("test/helper.rb", 1))
}

func TestScore_SourceDepthPenalty(t *testing.T) {
	assert.Equal(t, 70, Score("a.go", 0))
	assert.Equal(t, 60, Score("a/b.go", 1))
	assert.Equal(t, 10, Score("a/b/c/d/e/f/g.go", 6))
}

func TestScore_SourceFloor(t *testing.T) {
	assert.Equal(t, sourceFloor, Score("deep/nested/path/to/file.go", 20))
}
