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

// Package batch orchestrates a full run: read the filename list, search
// every name through the provider, then apply the configured action to
// every found file, finishing with a summary.
package batch

import (
	"context"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/esbatch/pkg/action"
	"github.com/walteh/esbatch/pkg/lang"
	"github.com/walteh/esbatch/pkg/log"
	"github.com/walteh/esbatch/pkg/search"
	"github.com/walteh/esbatch/pkg/status"
)

// 🔧 RunConfig is the immutable configuration of one run, assembled from
// CLI flags and the persisted config before the run starts
type RunConfig struct {
	InputFile         string   // Newline-separated filename list, exclusive with Filenames
	Filenames         []string // In-memory filename list
	CopyDir           string   // Copy destination root, empty disables
	MoveDir           string   // Move destination root, empty disables
	Delete            bool     // Delete sources; wins over copy/move
	PreserveStructure bool     // Mirror source layout under destinations
	LogDir            string   // Run-log directory, empty disables the file sink
	RegexFilter       string   // Optional regex applied to found paths
	ExcludePatterns   []string // Optional globs dropping found paths
	Workers           int      // Pool size for both stages, <= 0 selects the default
}

// 📊 Result aggregates the counts of one completed run
type Result struct {
	Requested int                // Number of non-blank input lines
	Found     int                // Number of found pairs across all filenames
	Processed []search.FoundFile // Files whose action succeeded
	Failed    []search.FoundFile // Files whose action failed
	LogPath   string             // Run-log file, when logging was enabled
}

// 🔧 Options wires the pipeline's collaborators
type Options struct {
	Run       RunConfig
	Provider  search.Provider
	StatusMgr *status.Manager
	Console   *log.Logger
	Catalog   *lang.Catalog
}

// 🎮 Pipeline runs the two stages against a provider
type Pipeline struct {
	run      RunConfig
	provider search.Provider
	status   *status.Manager
	console  *log.Logger
	catalog  *lang.Catalog
}

// 🏭 New creates a pipeline with the given options
func New(opts Options) (*Pipeline, error) {
	if opts.Provider == nil {
		return nil, errors.New("provider is required")
	}
	if opts.Console == nil {
		return nil, errors.New("console logger is required")
	}
	if opts.StatusMgr == nil {
		opts.StatusMgr = status.NewManager(nil)
	}
	if opts.Catalog == nil {
		catalog, err := lang.Load("English")
		if err != nil {
			return nil, errors.Errorf("loading default catalog: %w", err)
		}
		opts.Catalog = catalog
	}
	return &Pipeline{
		run:      opts.Run,
		provider: opts.Provider,
		status:   opts.StatusMgr,
		console:  opts.Console,
		catalog:  opts.Catalog,
	}, nil
}

// 🏃 Run executes the full pipeline. Validation failures (bad regex,
// unreadable input) and fatal filesystem problems return an error; per-file
// failures land in the result and the summary instead.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	filenames, err := p.readInput()
	if err != nil {
		return nil, err
	}

	result := &Result{Requested: len(filenames)}
	if len(filenames) == 0 {
		p.console.Warning(p.catalog.Get("messages.no_files"))
		return result, nil
	}

	if p.run.LogDir != "" {
		runlog, err := log.NewRunLog(p.run.LogDir)
		if err != nil {
			return nil, errors.Errorf("creating run log: %w", err)
		}
		p.console.AttachSink(runlog)
		result.LogPath = runlog.Path()
	}

	// Regex and globs are validated once, before any search begins
	filter, err := search.NewFilter(p.run.RegexFilter, p.run.ExcludePatterns)
	if err != nil {
		p.console.Error(p.catalog.Get("errors.invalid_regex", err))
		return nil, errors.Errorf("validating filter: %w", err)
	}

	p.console.Infof(p.catalog.Get("messages.processing"), len(filenames))
	p.console.Info(p.catalog.Get("messages.searching"))
	for _, filename := range filenames {
		p.console.Infof("- %s", filename)
	}

	searchStage := search.NewStage(p.provider, filter, p.run.Workers, p.status)
	found := searchStage.Run(ctx, filenames)
	result.Found = len(found)

	if len(found) == 0 {
		p.console.LogNewline()
		p.console.Warning(p.catalog.Get("messages.no_matches"))
		return result, nil
	}

	p.console.LogNewline()
	p.console.Info(p.catalog.Get("messages.found_files"))
	for _, f := range found {
		p.console.Info(f.Path)
	}

	opts := action.Options{
		CopyDir:           p.run.CopyDir,
		MoveDir:           p.run.MoveDir,
		Delete:            p.run.Delete,
		PreserveStructure: p.run.PreserveStructure,
		Workers:           p.run.Workers,
	}
	if opts.Active() {
		actionStage := action.NewStage(opts, p.status)
		processed, failed, err := actionStage.Run(ctx, found)
		if err != nil {
			return result, errors.Errorf("running action stage: %w", err)
		}
		result.Processed = processed
		result.Failed = failed
		for _, f := range failed {
			p.console.LogFileOperation(log.FileOperation{
				Requested: f.Requested,
				Path:      f.Path,
				Action:    opts.Name(),
				Failed:    true,
			})
		}
	}

	p.summarize(result, opts)
	return result, nil
}

// summarize prints the deterministic end-of-run report. It always runs,
// however many individual files failed.
func (p *Pipeline) summarize(result *Result, opts action.Options) {
	p.console.LogNewline()
	p.console.Info(p.catalog.Get("messages.summary"))
	p.console.Infof(p.catalog.Get("messages.total_requested"), result.Requested)
	p.console.Infof(p.catalog.Get("messages.total_found"), result.Found)
	p.console.Infof(p.catalog.Get("messages.success_processed"), len(result.Processed))
	if len(result.Failed) > 0 {
		p.console.Warningf(p.catalog.Get("messages.failed_operations"), len(result.Failed))
	}

	// "Everything failed" reads differently from "nothing found"
	if opts.Active() && result.Found > 0 && len(result.Processed) == 0 {
		p.console.Warningf(p.catalog.Get("messages.all_failed"), result.Found)
	}

	var actions []string
	if result.LogPath != "" {
		actions = append(actions, p.catalog.Get("messages.logged_files"))
	}
	if opts.Delete {
		actions = append(actions, p.catalog.Get("messages.deleted_files", len(result.Processed)))
	} else {
		if opts.CopyDir != "" {
			actions = append(actions, p.catalog.Get("messages.copied_files", len(result.Processed)))
		}
		if opts.MoveDir != "" {
			actions = append(actions, p.catalog.Get("messages.moved_files", len(result.Processed)))
		}
	}
	if len(actions) > 0 {
		p.console.Infof(p.catalog.Get("messages.actions_taken"), strings.Join(actions, ", "))
	}
}
