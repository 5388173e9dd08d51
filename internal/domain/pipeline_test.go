package domain

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidwave/ctxpack/internal/domain/compress"
	"github.com/corvidwave/ctxpack/internal/model"
)

type fakeFile struct {
	body string
}

func (f fakeFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(f.body)), nil
}

type fakeSource struct {
	files map[string]string
}

func (s *fakeSource) Candidates(ctx context.Context) (<-chan model.Candidate, <-chan error) {
	out := make(chan model.Candidate, len(s.files))
	errc := make(chan error, 1)
	for path, body := range s.files {
		f := fakeFile{body: body}
		out <- model.Candidate{
			Path: path,
			Size: int64(len(body)),
			Ext:  extOf(path),
			Open: f.Open,
		}
	}
	close(out)
	close(errc)
	return out, errc
}

func extOf(path string) string {
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return ""
	}
	return path[i:]
}

func TestPipeline_Run_NoBudgetIncludesEverythingFull(t *testing.T) {
	src := &fakeSource{files: map[string]string{
		"README.md": "# hi",
		"main.go":   "package main\n",
	}}
	p := &Pipeline{Source: src, Config: model.Config{}, Dispatcher: compress.NewDispatcher()}
	var buf bytes.Buffer
	summary, err := p.Run(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.IncludedFull)
	assert.Equal(t, 0, summary.Excluded)
	assert.Contains(t, buf.String(), "README.md")
	assert.Contains(t, buf.String(), "main.go")
}

func TestPipeline_Run_StatsOnlyEmitsSummary(t *testing.T) {
	src := &fakeSource{files: map[string]string{"a.go": "package a\n"}}
	p := &Pipeline{Source: src, Config: model.Config{Stats: true}, Dispatcher: compress.NewDispatcher()}
	var buf bytes.Buffer
	_, err := p.Run(context.Background(), &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<summary>")
	assert.NotContains(t, buf.String(), "<file")
}

func TestPipeline_Run_DryRunNoBudgetListsBarePaths(t *testing.T) {
	src := &fakeSource{files: map[string]string{"a.go": "package a\n"}}
	p := &Pipeline{Source: src, Config: model.Config{DryRun: true}, Dispatcher: compress.NewDispatcher()}
	var buf bytes.Buffer
	_, err := p.Run(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, "a.go\n", buf.String())
}

func TestPipeline_Run_TooLargeIsExcluded(t *testing.T) {
	src := &fakeSource{files: map[string]string{"big.go": strings.Repeat("x", 100)}}
	p := &Pipeline{Source: src, Config: model.Config{MaxSizeBytes: 10}, Dispatcher: compress.NewDispatcher()}
	var buf bytes.Buffer
	summary, err := p.Run(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Excluded)
	assert.Equal(t, 1, summary.ExcludedByReason[model.ReasonTooLarge])
}

func TestPipeline_Run_ClassifiesManyCandidatesConcurrently(t *testing.T) {
	files := map[string]string{}
	for i := 0; i < classifyWorkers*3; i++ {
		files[fmt.Sprintf("pkg%d/file.go", i)] = "package p\n"
	}
	src := &fakeSource{files: files}
	p := &Pipeline{Source: src, Config: model.Config{}, Dispatcher: compress.NewDispatcher()}
	var buf bytes.Buffer
	summary, err := p.Run(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, len(files), summary.IncludedFull)
	assert.Equal(t, 0, summary.Excluded)
}

func TestPipeline_Run_BudgetedModeShowsModeAttribute(t *testing.T) {
	src := &fakeSource{files: map[string]string{"a.go": "package a\n"}}
	cfg := model.Config{TokenCeiling: 1000, TokenCeilingSet: true, Compress: true}
	p := &Pipeline{Source: src, Config: cfg, Dispatcher: compress.NewDispatcher()}
	var buf bytes.Buffer
	_, err := p.Run(context.Background(), &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `mode="full"`)
}
