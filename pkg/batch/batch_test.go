// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package batch_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/esbatch/pkg/batch"
	"github.com/walteh/esbatch/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// fakeProvider backs the pipeline with an in-memory index
type fakeProvider struct {
	mu    sync.Mutex
	index map[string][]string
	calls int
}

func (p *fakeProvider) Search(ctx context.Context, filename string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	paths, ok := p.index[filename]
	if !ok {
		return nil, errors.New("exit status 1")
	}
	return paths, nil
}

func (p *fakeProvider) Version(ctx context.Context) (string, error) {
	return "fake", nil
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// createTestEnv builds a pipeline environment around a temp source tree
func createTestEnv(t *testing.T, run batch.RunConfig, index map[string][]string) (context.Context, *fakeProvider, *bytes.Buffer, *batch.Pipeline) {
	t.Helper()

	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())

	var console bytes.Buffer
	provider := &fakeProvider{index: index}

	pipeline, err := batch.New(batch.Options{
		Run:      run,
		Provider: provider,
		Console:  log.New(&console, zerolog.Disabled),
	})
	require.NoError(t, err)

	return ctx, provider, &console, pipeline
}

// writeSource creates a source file and returns its path
func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// 🧪 TestRunEndToEnd covers the canonical run: two requested names, one
// match, flat copy
func TestRunEndToEnd(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := filepath.Join(t.TempDir(), "out")
	src := writeSource(t, srcDir, "found-report.docx", "content")

	ctx, _, _, pipeline := createTestEnv(t, batch.RunConfig{
		Filenames: []string{"report.docx", "missing.txt"},
		CopyDir:   dstDir,
		Workers:   2,
	}, map[string][]string{
		"report.docx": {src},
		"missing.txt": {},
	})

	result, err := pipeline.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Requested)
	assert.Equal(t, 1, result.Found)
	assert.Len(t, result.Processed, 1)
	assert.Empty(t, result.Failed)

	// Flat copy lands under the requested name, not the found basename
	data, err := os.ReadFile(filepath.Join(dstDir, "report.docx"))
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

// 🧪 TestRunInvalidRegex tests that validation aborts before any search
func TestRunInvalidRegex(t *testing.T) {
	ctx, provider, _, pipeline := createTestEnv(t, batch.RunConfig{
		Filenames:   []string{"report.docx"},
		RegexFilter: "[unclosed",
	}, map[string][]string{})

	_, err := pipeline.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validating filter")
	assert.Zero(t, provider.callCount(), "no search may run after a validation failure")
}

// 🧪 TestRunRegexFiltersResults tests search-semantics filtering end to end
func TestRunRegexFiltersResults(t *testing.T) {
	srcDir := t.TempDir()
	keep := writeSource(t, srcDir, "keep.txt", "keep")
	drop := writeSource(t, srcDir, "drop.log", "drop")

	ctx, _, _, pipeline := createTestEnv(t, batch.RunConfig{
		Filenames:   []string{"anything"},
		RegexFilter: `\.txt$`,
	}, map[string][]string{
		"anything": {keep, drop},
	})

	result, err := pipeline.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Found)
}

// 🧪 TestRunNoInput tests the empty-input short circuit
func TestRunNoInput(t *testing.T) {
	ctx, provider, console, pipeline := createTestEnv(t, batch.RunConfig{}, map[string][]string{})

	result, err := pipeline.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Requested)
	assert.Zero(t, provider.callCount())
	assert.Contains(t, console.String(), "No filenames to process")
}

// 🧪 TestRunNoMatches tests that "nothing found" is reported distinctly
func TestRunNoMatches(t *testing.T) {
	ctx, _, console, pipeline := createTestEnv(t, batch.RunConfig{
		Filenames: []string{"missing.txt"},
		CopyDir:   filepath.Join(t.TempDir(), "out"),
	}, map[string][]string{
		"missing.txt": {},
	})

	result, err := pipeline.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Requested)
	assert.Zero(t, result.Found)
	assert.Contains(t, console.String(), "No matching files found")
}

// 🧪 TestRunProviderFailureDegrades tests that a failing provider call
// counts as zero matches, not an error
func TestRunProviderFailureDegrades(t *testing.T) {
	srcDir := t.TempDir()
	src := writeSource(t, srcDir, "good.txt", "content")

	ctx, _, _, pipeline := createTestEnv(t, batch.RunConfig{
		Filenames: []string{"good.txt", "broken.txt"},
	}, map[string][]string{
		"good.txt": {src},
		// broken.txt missing from the index makes the fake provider fail
	})

	result, err := pipeline.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Requested)
	assert.Equal(t, 1, result.Found)
}

// 🧪 TestRunDeletePrecedence tests that delete mode excludes copying
func TestRunDeletePrecedence(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := filepath.Join(t.TempDir(), "out")
	src := writeSource(t, srcDir, "file.txt", "content")

	ctx, _, _, pipeline := createTestEnv(t, batch.RunConfig{
		Filenames: []string{"file.txt"},
		Delete:    true,
		CopyDir:   dstDir,
	}, map[string][]string{
		"file.txt": {src},
	})

	result, err := pipeline.Run(ctx)
	require.NoError(t, err)
	require.Len(t, result.Processed, 1)

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err), "source deleted")
	_, err = os.Stat(filepath.Join(dstDir, "file.txt"))
	assert.True(t, os.IsNotExist(err), "no file may appear in a copy destination in delete mode")
}

// 🧪 TestRunCounts tests succeeded + failed == found with a mixed outcome
func TestRunCounts(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := filepath.Join(t.TempDir(), "out")
	good := writeSource(t, srcDir, "good.txt", "content")

	ctx, _, console, pipeline := createTestEnv(t, batch.RunConfig{
		Filenames: []string{"stuff"},
		CopyDir:   dstDir,
	}, map[string][]string{
		"stuff": {good, filepath.Join(srcDir, "does-not-exist.txt")},
	})

	result, err := pipeline.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Found)
	assert.Len(t, result.Processed, 1)
	assert.Len(t, result.Failed, 1)
	assert.Equal(t, result.Found, len(result.Processed)+len(result.Failed))
	assert.Contains(t, console.String(), "Failed operations: 1")
}

// 🧪 TestRunAllFailed tests the distinct all-failed summary line
func TestRunAllFailed(t *testing.T) {
	srcDir := t.TempDir()

	ctx, _, console, pipeline := createTestEnv(t, batch.RunConfig{
		Filenames: []string{"stuff"},
		CopyDir:   filepath.Join(t.TempDir(), "out"),
	}, map[string][]string{
		"stuff": {filepath.Join(srcDir, "nope.txt")},
	})

	result, err := pipeline.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, result.Processed)
	assert.Contains(t, console.String(), "failed to process")
}

// 🧪 TestRunInputFile tests reading the filename list from a file
func TestRunInputFile(t *testing.T) {
	input := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(input, []byte("report.docx\n\n  notes.txt  \n\n"), 0644))

	ctx, provider, _, pipeline := createTestEnv(t, batch.RunConfig{
		InputFile: input,
	}, map[string][]string{
		"report.docx": {},
		"notes.txt":   {},
	})

	result, err := pipeline.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Requested, "blank lines are not units of work")
	assert.Equal(t, 2, provider.callCount())
}

// 🧪 TestRunInputFileMissing tests that an unreadable input list is fatal
func TestRunInputFileMissing(t *testing.T) {
	ctx, _, _, pipeline := createTestEnv(t, batch.RunConfig{
		InputFile: filepath.Join(t.TempDir(), "nope.txt"),
	}, map[string][]string{})

	_, err := pipeline.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading input file")
}

// 🧪 TestRunWritesRunLog tests the per-run log file
func TestRunWritesRunLog(t *testing.T) {
	srcDir := t.TempDir()
	logDir := filepath.Join(t.TempDir(), "logs")
	src := writeSource(t, srcDir, "file.txt", "content")

	ctx, _, _, pipeline := createTestEnv(t, batch.RunConfig{
		Filenames: []string{"file.txt"},
		CopyDir:   filepath.Join(t.TempDir(), "out"),
		LogDir:    logDir,
	}, map[string][]string{
		"file.txt": {src},
	})

	result, err := pipeline.Run(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, result.LogPath)

	data, err := os.ReadFile(result.LogPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Summary:")
	assert.Contains(t, string(data), "Total files found: 1")
}

// 🧪 TestNewValidation tests collaborator checks
func TestNewValidation(t *testing.T) {
	_, err := batch.New(batch.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider is required")

	_, err = batch.New(batch.Options{Provider: &fakeProvider{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "console logger is required")
}
