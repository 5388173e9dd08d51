// Package adapter implements the external collaborators spec.md treats as
// black boxes: a filesystem-backed CandidateSource. Its gitignore handling
// is intentionally minimal, and it does no extension, size, binary or
// secret filtering of its own (the pipeline applies those checks), but it
// satisfies the Candidate contract well enough to drive the pipeline
// end-to-end from a real directory tree.
package adapter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/corvidwave/ctxpack/internal/model"
)

// LocalCandidateSource walks one or more root directories on the local
// filesystem, grounded on the teacher's LocalSourceFSAdapter (Walk,
// ReadFile, RelPath, JoinPath).
type LocalCandidateSource struct {
	Roots            []string
	RespectGitignore bool
	Logger           *slog.Logger
}

// Candidates walks every configured root and streams a Candidate for each
// regular file, forward-slash path normalized and relative to its root.
// The channel closes once the walk completes; the error channel carries at
// most one error and is always eventually readable.
func (s *LocalCandidateSource) Candidates(ctx context.Context) (<-chan model.Candidate, <-chan error) {
	out := make(chan model.Candidate)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errc)
		for _, root := range s.Roots {
			ignore := s.loadGitignore(root)
			err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				if d.IsDir() {
					if ignore.matches(p, true) {
						return filepath.SkipDir
					}
					return nil
				}
				if ignore.matches(p, false) {
					return nil
				}
				rel, relErr := filepath.Rel(root, p)
				if relErr != nil {
					rel = p
				}
				rel = forwardSlash(rel)

				info, statErr := d.Info()
				if statErr != nil {
					return statErr
				}

				path := p
				cand := model.Candidate{
					Path:   rel,
					Size:   info.Size(),
					Ext:    strings.ToLower(filepath.Ext(rel)),
					Depth:  strings.Count(rel, "/"),
					IsTest: isTestPath(rel),
					Open: func() (io.ReadCloser, error) {
						return os.Open(path)
					},
				}
				select {
				case out <- cand:
				case <-ctx.Done():
					return ctx.Err()
				}
				return nil
			})
			if err != nil {
				errc <- fmt.Errorf("walk %s: %w", root, err)
				return
			}
		}
	}()

	return out, errc
}

func isTestPath(rel string) bool {
	base := strings.ToLower(filepath.Base(rel))
	return strings.Contains(rel, "test") || strings.HasSuffix(base, "_test.go")
}

func forwardSlash(p string) string {
	return strings.ReplaceAll(p, string(filepath.Separator), "/")
}

type ignoreRules struct {
	root  string
	lines []string
}

func (s *LocalCandidateSource) loadGitignore(root string) ignoreRules {
	rules := ignoreRules{root: root}
	if !s.RespectGitignore {
		return rules
	}
	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		return rules
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rules.lines = append(rules.lines, line)
	}
	return rules
}

func (ig ignoreRules) matches(p string, isDir bool) bool {
	if len(ig.lines) == 0 {
		return false
	}
	rel, err := filepath.Rel(ig.root, p)
	if err != nil {
		return false
	}
	rel = forwardSlash(rel)
	if rel == ".git" || strings.HasPrefix(rel, ".git/") {
		return true
	}
	for _, pattern := range ig.lines {
		pattern = strings.TrimSuffix(pattern, "/")
		if pattern == "" {
			continue
		}
		if rel == pattern || strings.HasPrefix(rel, pattern+"/") {
			return true
		}
		if ok, _ := filepath.Match(pattern, filepath.Base(rel)); ok {
			return true
		}
	}
	return false
}
