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

package action

import (
	"context"
	"os"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/esbatch/pkg/search"
	"github.com/walteh/esbatch/pkg/status"
)

// outcome is the result of one unit of work
type outcome struct {
	file search.FoundFile
	err  error
}

// ⚙️ Stage applies the configured action to every found file across a
// bounded worker pool
type Stage struct {
	opts    Options
	workers int
	status  *status.Manager
}

// 🏭 NewStage creates an action stage
func NewStage(opts Options, statusMgr *status.Manager) *Stage {
	workers := opts.Workers
	if workers <= 0 {
		workers = search.DefaultWorkers()
	}
	return &Stage{
		opts:    opts,
		workers: workers,
		status:  statusMgr,
	}
}

// 🏃 Run processes every found pair independently and concurrently. A
// per-file failure is recorded and does not stop the rest; the returned
// error is reserved for fatal setup problems like an uncreatable
// destination root.
func (s *Stage) Run(ctx context.Context, files []search.FoundFile) (processed, failed []search.FoundFile, err error) {
	if err := s.createRoots(); err != nil {
		return nil, nil, err
	}

	phase := status.PhaseProcess
	if s.opts.Delete {
		phase = status.PhaseDelete
	}
	s.status.StartPhase(ctx, phase, len(files))

	results := make(chan outcome)
	var g errgroup.Group
	g.SetLimit(s.workers)

	go func() {
		for _, f := range files {
			f := f
			g.Go(func() error {
				results <- outcome{file: f, err: s.processOne(f)}
				return nil
			})
		}
		g.Wait() //nolint:errcheck // workers never return errors
		close(results)
	}()

	for res := range results {
		if res.err != nil {
			failed = append(failed, res.file)
		} else {
			processed = append(processed, res.file)
		}
		s.status.TrackFile(ctx, status.FileInfo{
			Requested: res.file.Requested,
			Path:      res.file.Path,
			Status:    s.resultStatus(res.err),
			Error:     res.err,
		})
		s.status.Advance(ctx)
	}

	s.status.FinishPhase(ctx)
	return processed, failed, nil
}

// createRoots makes sure the destination roots exist before any worker
// starts; failing here is fatal for the run
func (s *Stage) createRoots() error {
	if s.opts.Delete {
		return nil
	}
	for _, root := range []string{s.opts.CopyDir, s.opts.MoveDir} {
		if root == "" {
			continue
		}
		if err := os.MkdirAll(root, 0755); err != nil {
			return errors.Errorf("creating destination root %s: %w", root, err)
		}
	}
	return nil
}

// resultStatus maps an outcome to the status recorded for the file
func (s *Stage) resultStatus(err error) status.FileStatus {
	switch {
	case err != nil:
		return status.StatusFailed
	case s.opts.Delete:
		return status.StatusDeleted
	case s.opts.MoveDir != "":
		return status.StatusMoved
	default:
		return status.StatusCopied
	}
}

// processOne is one unit of work: the configured action on a single found
// file. Delete wins over copy/move; copy runs before move so the move still
// sees the original source.
func (s *Stage) processOne(f search.FoundFile) error {
	if s.opts.Delete {
		return deleteFile(f.Path)
	}

	if s.opts.CopyDir != "" {
		if err := copyFile(f.Path, DestPath(s.opts.CopyDir, f, s.opts.PreserveStructure)); err != nil {
			return err
		}
	}

	if s.opts.MoveDir != "" {
		if err := moveFile(f.Path, DestPath(s.opts.MoveDir, f, s.opts.PreserveStructure)); err != nil {
			return err
		}
	}
	return nil
}
