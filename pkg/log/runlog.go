package log

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"gitlab.com/tozd/go/errors"
)

// ansiRe matches ANSI escape sequences so file output stays plain text
var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// 📜 RunLog is the one-file-per-run log sink. Every write is a separate
// open-append-close so a crash mid-run loses at most one line; there is no
// cross-process lock beyond what the filesystem provides.
type RunLog struct {
	path string
	mu   sync.Mutex
}

// 🏭 NewRunLog creates the log directory and names this run's file by the
// creation timestamp
func NewRunLog(dir string) (*RunLog, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Errorf("creating log directory: %w", err)
	}

	name := fmt.Sprintf("log_%s.txt", time.Now().Format("20060102_150405"))
	return &RunLog{path: filepath.Join(dir, name)}, nil
}

// 📂 Path returns the run log file path
func (l *RunLog) Path() string {
	return l.path
}

// 📝 WriteLine appends one timestamp-prefixed line
func (l *RunLog) WriteLine(line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	line = ansiRe.ReplaceAllString(line, "")
	if _, err := fmt.Fprintf(f, "%s: %s\n", time.Now().Format(time.RFC3339), line); err != nil {
		return errors.Errorf("appending to run log: %w", err)
	}
	return nil
}
