package domain

import (
	"path"
	"strings"
)

// priority rule scores, first match wins. The order here is deliberate and
// differs from the original tool's own rule order (which checks fixture and
// test conventions before README/entry/config): a README living under
// tests/fixtures/ must still score as a README, so the content-identity
// rules are checked before the directory-convention rules.
const (
	scoreReadme  = 100
	scoreEntry   = 90
	scoreConfig  = 80
	scoreTest    = 30
	scoreFixture = 5
	sourceBase   = 70
	sourceFloor  = 10
	sourceDepth  = 10
)

var entryStems = map[string]bool{
	"main": true, "index": true, "app": true, "lib": true, "mod": true,
}

var configBasenames = map[string]bool{
	"cargo.toml": true, "package.json": true, "tsconfig.json": true,
	"pyproject.toml": true, "go.mod": true, "makefile": true,
	"dockerfile": true, "gemfile": true, "composer.json": true,
	"pom.xml": true, "build.gradle": true, "cmakelists.txt": true,
	"go.sum": true, "requirements.txt": true,
}

var fixtureSegments = map[string]bool{
	"fixtures": true, "__snapshots__": true, "testdata": true,
}

// Score assigns a priority in [0, 100] to a candidate path using the
// first-match-wins rule order from the design notes.
func Score(candidatePath string, depth int) int {
	base := path.Base(candidatePath)
	stem := strings.TrimSuffix(base, path.Ext(base))
	lowerBase := strings.ToLower(base)
	lowerStem := strings.ToLower(stem)

	if strings.HasPrefix(lowerStem, "readme") {
		return scoreReadme
	}
	if entryStems[lowerStem] || lowerBase == "__main__.py" {
		return scoreEntry
	}
	if configBasenames[lowerBase] {
		return scoreConfig
	}
	if isFixturePath(candidatePath) {
		return scoreFixture
	}
	if isTestPath(candidatePath, lowerBase, lowerStem) {
		return scoreTest
	}

	score := sourceBase - sourceDepth*depth
	if score < sourceFloor {
		return sourceFloor
	}
	return score
}

func isFixturePath(candidatePath string) bool {
	for _, seg := range strings.Split(candidatePath, "/") {
		if fixtureSegments[strings.ToLower(seg)] {
			return true
		}
	}
	return false
}

func isTestPath(candidatePath, lowerBase, lowerStem string) bool {
	for _, seg := range strings.Split(candidatePath, "/") {
		seg = strings.ToLower(seg)
		if seg == "test" || seg == "tests" || seg == "__tests__" || seg == "spec" {
			return true
		}
	}
	if strings.HasSuffix(lowerStem, "_test") || strings.HasSuffix(lowerStem, ".test") ||
		strings.HasSuffix(lowerStem, "_spec") || strings.HasSuffix(lowerStem, ".spec") {
		return true
	}
	if strings.HasPrefix(lowerBase, "test_") {
		return true
	}
	return false
}
