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

package search

import (
	"context"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/esbatch/pkg/status"
)

// 📄 FoundFile pairs a requested filename with one absolute path the
// provider resolved it to. Created here, consumed once by the action stage.
type FoundFile struct {
	Requested string // Filename as requested in the input list
	Path      string // Absolute source path
}

// 🔎 Stage runs one provider search per filename across a bounded worker
// pool and aggregates the filtered results
type Stage struct {
	provider Provider
	filter   *Filter
	workers  int
	status   *status.Manager
}

// 🏭 NewStage creates a search stage. workers <= 0 selects the default pool
// size.
func NewStage(provider Provider, filter *Filter, workers int, statusMgr *status.Manager) *Stage {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	return &Stage{
		provider: provider,
		filter:   filter,
		workers:  workers,
		status:   statusMgr,
	}
}

// ⚙️ DefaultWorkers is the default pool size for both stages: core count
// minus one, minimum one
func DefaultWorkers() int {
	if n := runtime.NumCPU() - 1; n > 1 {
		return n
	}
	return 1
}

// 🏃 Run searches every filename concurrently and returns all found pairs.
// Result order is completion order, not input order. A provider failure for
// one filename degrades to zero results for it; it never aborts the stage.
func (s *Stage) Run(ctx context.Context, filenames []string) []FoundFile {
	s.status.StartPhase(ctx, status.PhaseSearch, len(filenames))

	results := make(chan []FoundFile)
	var g errgroup.Group
	g.SetLimit(s.workers)

	go func() {
		for _, filename := range filenames {
			filename := filename
			g.Go(func() error {
				results <- s.searchOne(ctx, filename)
				return nil
			})
		}
		g.Wait() //nolint:errcheck // workers never return errors
		close(results)
	}()

	// Collection happens here, on the orchestrating goroutine, as each unit
	// of work resolves. Workers never touch shared state.
	var all []FoundFile
	for found := range results {
		for _, f := range found {
			s.status.TrackFile(ctx, status.FileInfo{
				Requested: f.Requested,
				Path:      f.Path,
				Status:    status.StatusFound,
			})
		}
		all = append(all, found...)
		s.status.Advance(ctx)
	}

	s.status.FinishPhase(ctx)
	return all
}

// searchOne is one unit of work: a single provider invocation plus filtering
func (s *Stage) searchOne(ctx context.Context, filename string) []FoundFile {
	paths, err := s.provider.Search(ctx, filename)
	if err != nil {
		zerolog.Ctx(ctx).Warn().
			Str("filename", filename).
			Err(err).
			Msg("provider search failed, treating as no matches")
		return nil
	}

	var found []FoundFile
	for _, path := range paths {
		if s.filter.Match(path) {
			found = append(found, FoundFile{Requested: filename, Path: path})
		}
	}
	return found
}
