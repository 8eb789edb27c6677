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

package log_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/esbatch/pkg/log"
)

// 🧪 TestConsoleOutput tests the console message helpers
func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, zerolog.InfoLevel)

	logger.Header("batch run")
	logger.Info("searching")
	logger.Success("done")
	logger.Warning("careful")
	logger.Error("broken")

	out := buf.String()
	assert.Contains(t, out, "esbatch")
	assert.Contains(t, out, "batch run")
	assert.Contains(t, out, "searching")
	assert.Contains(t, out, "done")
	assert.Contains(t, out, "careful")
	assert.Contains(t, out, "broken")
}

// 🧪 TestLogFileOperation tests per-file lines
func TestLogFileOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, zerolog.InfoLevel)

	logger.LogFileOperation(log.FileOperation{
		Requested: "report.docx",
		Path:      "/home/a/report.docx",
		Action:    "copy",
	})
	logger.LogFileOperation(log.FileOperation{
		Requested: "secret.txt",
		Path:      "/home/a/secret.txt",
		Action:    "delete",
		Failed:    true,
	})

	out := buf.String()
	assert.Contains(t, out, "/home/a/report.docx")
	assert.Contains(t, out, "copy")
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "✗")
}

// 🧪 TestRunLog tests the per-run log file sink
func TestRunLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	runlog, err := log.NewRunLog(dir)
	require.NoError(t, err)

	require.NoError(t, runlog.WriteLine("first line"))
	require.NoError(t, runlog.WriteLine("second line"))

	data, err := os.ReadFile(runlog.Path())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "first line")
	assert.Contains(t, lines[1], "second line")

	// Each line carries an RFC3339 timestamp prefix
	ts, _, ok := strings.Cut(lines[0], ": ")
	require.True(t, ok)
	_, err = time.Parse(time.RFC3339, ts)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filepath.Base(runlog.Path()), "log_"))
}

// 🧪 TestRunLogStripsColor tests that ANSI escapes never reach the file
func TestRunLogStripsColor(t *testing.T) {
	runlog, err := log.NewRunLog(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, runlog.WriteLine("\x1b[32mgreen\x1b[0m text"))

	data, err := os.ReadFile(runlog.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "green text")
	assert.NotContains(t, string(data), "\x1b[")
}

// 🧪 TestAttachSink tests that console lines are mirrored to sinks
func TestAttachSink(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, zerolog.InfoLevel)

	runlog, err := log.NewRunLog(t.TempDir())
	require.NoError(t, err)
	logger.AttachSink(runlog)

	logger.Info("mirrored")

	data, err := os.ReadFile(runlog.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "mirrored")
}
