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

package status

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🏷️ Phase names one stage of a run
type Phase string

const (
	PhaseSearch  Phase = "search"
	PhaseProcess Phase = "process"
	PhaseDelete  Phase = "delete"
)

// 📊 FileStatus represents the outcome recorded for a file
type FileStatus int

const (
	StatusUnknown FileStatus = iota
	StatusFound              // Returned by the search stage
	StatusCopied             // Copied to the destination
	StatusMoved              // Moved to the destination
	StatusDeleted            // Removed from the source
	StatusFailed             // Action failed, see Error
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusCopied:
		return "copied"
	case StatusMoved:
		return "moved"
	case StatusDeleted:
		return "deleted"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 FileInfo contains the tracked outcome of one found file
type FileInfo struct {
	Requested string     // Filename as requested in the input list
	Path      string     // Absolute source path the provider returned
	Status    FileStatus // Latest recorded status
	Error     error      // Any error associated with this file
}

// 📈 ProgressFunc receives a checkpoint after each completed unit of work.
// completed is monotonically increasing per phase regardless of worker
// completion order, so callers can render a percentage directly.
type ProgressFunc func(phase Phase, completed, total int)

// 🔧 Manager tracks per-phase progress and per-file outcomes
type Manager struct {
	formatter FileFormatter
	progress  ProgressFunc

	mu        sync.RWMutex
	phase     Phase
	total     int
	completed int
	files     map[string]FileInfo
}

// 🏭 NewManager creates a new status manager
func NewManager(formatter FileFormatter) *Manager {
	if formatter == nil {
		formatter = NewDefaultFileFormatter()
	}
	return &Manager{
		formatter: formatter,
		files:     make(map[string]FileInfo),
	}
}

// 📈 OnProgress registers a progress callback. Pass nil to clear it.
func (m *Manager) OnProgress(fn ProgressFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress = fn
}

// 🚦 StartPhase begins a new phase with the given number of units of work
func (m *Manager) StartPhase(ctx context.Context, phase Phase, total int) {
	m.mu.Lock()
	m.phase = phase
	m.total = total
	m.completed = 0
	fn := m.progress
	m.mu.Unlock()

	zerolog.Ctx(ctx).Info().
		Str("phase", string(phase)).
		Int("total", total).
		Msg(m.formatter.FormatProgress(phase, 0, total))

	if fn != nil {
		fn(phase, 0, total)
	}
}

// ➡️ Advance records one completed unit of work and returns the new count
func (m *Manager) Advance(ctx context.Context) int {
	m.mu.Lock()
	m.completed++
	phase, completed, total := m.phase, m.completed, m.total
	fn := m.progress
	m.mu.Unlock()

	zerolog.Ctx(ctx).Debug().
		Str("phase", string(phase)).
		Int("completed", completed).
		Int("total", total).
		Msg(m.formatter.FormatProgress(phase, completed, total))

	if fn != nil {
		fn(phase, completed, total)
	}
	return completed
}

// 🏁 FinishPhase logs the final checkpoint for the current phase
func (m *Manager) FinishPhase(ctx context.Context) {
	m.mu.RLock()
	phase, completed, total := m.phase, m.completed, m.total
	m.mu.RUnlock()

	zerolog.Ctx(ctx).Info().
		Str("phase", string(phase)).
		Int("completed", completed).
		Int("total", total).
		Msg(m.formatter.FormatProgress(phase, total, total))
}

// 📝 TrackFile records the outcome of one file, keyed by source path
func (m *Manager) TrackFile(ctx context.Context, info FileInfo) {
	m.mu.Lock()
	m.files[info.Path] = info
	m.mu.Unlock()

	msg := m.formatter.FormatFileOutcome(info)
	if info.Error != nil {
		zerolog.Ctx(ctx).Warn().Str("path", info.Path).Err(info.Error).Msg(msg)
		return
	}
	zerolog.Ctx(ctx).Info().Str("path", info.Path).Msg(msg)
}

// 🔍 GetFileInfo returns the tracked outcome for a source path
func (m *Manager) GetFileInfo(ctx context.Context, path string) (FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.files[path]
	if !ok {
		return FileInfo{}, errors.Errorf("file not tracked: %s", path)
	}
	return info, nil
}

// 📋 ListFiles returns all tracked outcomes
func (m *Manager) ListFiles(ctx context.Context) []FileInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]FileInfo, 0, len(m.files))
	for _, info := range m.files {
		files = append(files, info)
	}
	return files
}
