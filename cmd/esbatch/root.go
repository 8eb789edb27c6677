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

package main

import (
	"context"
	"os"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/esbatch/pkg/batch"
	"github.com/walteh/esbatch/pkg/config"
	"github.com/walteh/esbatch/pkg/lang"
	"github.com/walteh/esbatch/pkg/log"
	"github.com/walteh/esbatch/pkg/search"
	"github.com/walteh/esbatch/pkg/status"
)

// rootFlags is the flag surface of the root command
type rootFlags struct {
	configFile  string
	input       string
	copyTo      string
	moveTo      string
	logPath     string
	deleteMode  bool
	noStructure bool
	filter      string
	exclude     []string
	workers     int
	esPath      string
	yes         bool
	debug       bool
}

// newRootCmd creates the esbatch root command
func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "esbatch",
		Short: "Batch-locate files with Everything, then copy, move, or delete the matches",
		Long: `esbatch reads a newline-separated list of filenames, resolves each one to
absolute paths through the Everything command-line client (es), and applies
the configured action to every match:
1. Search every filename concurrently
2. Narrow the matches with an optional regex and exclude globs
3. Copy, move, or delete each found file concurrently
4. Report a summary with requested/found/succeeded/failed counts`,
		Version:      GetVersionInfo().Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(flags.debug)
			return run(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.configFile, "config", ".esbatch.yaml", "config file path")
	cmd.Flags().StringVar(&flags.input, "input", "", "input file containing filenames, one per line")
	cmd.Flags().StringVar(&flags.copyTo, "copy-to", "", "copy matching files to this folder")
	cmd.Flags().StringVar(&flags.moveTo, "move-to", "", "move matching files to this folder")
	cmd.Flags().StringVar(&flags.logPath, "log-path", "", "directory to store run log files")
	cmd.Flags().BoolVar(&flags.deleteMode, "delete", false, "delete matching files")
	cmd.Flags().BoolVar(&flags.noStructure, "no-structure", false, "don't mirror the source folder structure")
	cmd.Flags().StringVar(&flags.filter, "filter", "", "regex filter applied to found paths")
	cmd.Flags().StringArrayVar(&flags.exclude, "exclude", nil, "glob pattern dropping found paths (repeatable)")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "worker pool size per stage (default: cores minus one)")
	cmd.Flags().StringVar(&flags.esPath, "es", "", "path to the es executable (default: resolved from PATH)")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "skip confirmation prompts")
	cmd.Flags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")

	cmd.SetVersionTemplate(FormatVersion())

	return cmd
}

// setupLogging configures zerolog based on flags
func setupLogging(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
}

// run assembles the pipeline from flags and config and executes it
func run(cmd *cobra.Command, flags *rootFlags) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx, flags.configFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	catalog, err := lang.Load(cfg.Interface.Language)
	if err != nil {
		return errors.Errorf("loading language catalog: %w", err)
	}

	if flags.input == "" {
		return errors.New("no --input given; the interactive interface is not included in this build")
	}

	runCfg := assembleRun(flags, cfg)

	provider, err := search.NewEverything(flags.esPath)
	if err != nil {
		return errors.Errorf(catalog.Get("errors.provider_unavailable"), err)
	}
	if _, err := provider.Version(ctx); err != nil {
		return errors.Errorf(catalog.Get("errors.provider_unavailable"), err)
	}

	if !flags.yes {
		if ok, err := confirmDestructive(runCfg, catalog); err != nil {
			return err
		} else if !ok {
			return nil
		}
	}

	level := zerolog.InfoLevel
	if flags.debug {
		level = zerolog.DebugLevel
	}
	console := log.New(os.Stdout, level)
	console.Header("batch run")

	pipeline, err := batch.New(batch.Options{
		Run:       runCfg,
		Provider:  provider,
		StatusMgr: status.NewManager(nil),
		Console:   console,
		Catalog:   catalog,
	})
	if err != nil {
		return errors.Errorf("creating pipeline: %w", err)
	}

	result, err := pipeline.Run(ctx)
	if err != nil {
		return errors.Errorf("running batch: %w", err)
	}

	// Write back only when the user opted into a config file; a flag-only
	// run must not leave a .esbatch.yaml behind.
	persist := cmd.Flags().Changed("config")
	if !persist {
		if _, statErr := os.Stat(flags.configFile); statErr == nil {
			persist = true
		}
	}
	if persist {
		persistConfig(ctx, cfg, runCfg, console)
	}

	if len(result.Failed) > 0 {
		return errors.Errorf("%d of %d files failed", len(result.Failed), result.Found)
	}
	return nil
}

// assembleRun merges flags over the persisted defaults into one immutable
// run configuration
func assembleRun(flags *rootFlags, cfg *config.Config) batch.RunConfig {
	runCfg := batch.RunConfig{
		InputFile:         flags.input,
		CopyDir:           flags.copyTo,
		MoveDir:           flags.moveTo,
		Delete:            flags.deleteMode,
		PreserveStructure: !flags.noStructure && cfg.Output.MatchFolderStructure,
		LogDir:            flags.logPath,
		RegexFilter:       flags.filter,
		ExcludePatterns:   append([]string{}, cfg.Search.ExcludePatterns...),
		Workers:           flags.workers,
	}

	if runCfg.CopyDir == "" {
		runCfg.CopyDir = cfg.Paths.DefaultCopyFolder
	}
	if runCfg.MoveDir == "" {
		runCfg.MoveDir = cfg.Paths.DefaultMoveFolder
	}
	if runCfg.RegexFilter == "" {
		runCfg.RegexFilter = cfg.Search.RegexFilter
	}
	if runCfg.Workers <= 0 {
		runCfg.Workers = cfg.Search.Workers
	}
	if runCfg.LogDir == "" && cfg.Output.EnableLogging {
		runCfg.LogDir = cfg.Output.LogDir
		if runCfg.LogDir == "" {
			runCfg.LogDir = "logs"
		}
	}
	runCfg.ExcludePatterns = append(runCfg.ExcludePatterns, flags.exclude...)
	return runCfg
}

// confirmDestructive prompts before a delete or move run
func confirmDestructive(runCfg batch.RunConfig, catalog *lang.Catalog) (bool, error) {
	var key string
	switch {
	case runCfg.Delete:
		key = "confirmations.delete"
	case runCfg.MoveDir != "":
		key = "confirmations.move"
	default:
		return true, nil
	}

	ok, err := pterm.DefaultInteractiveConfirm.Show(catalog.Get(key))
	if err != nil {
		return false, errors.Errorf("reading confirmation: %w", err)
	}
	return ok, nil
}

// persistConfig writes the effective settings back at shutdown, mirroring
// how the interactive build saved form state on close
func persistConfig(ctx context.Context, cfg *config.Config, runCfg batch.RunConfig, console *log.Logger) {
	cfg.Paths.DefaultCopyFolder = runCfg.CopyDir
	cfg.Paths.DefaultMoveFolder = runCfg.MoveDir
	cfg.Search.RegexFilter = runCfg.RegexFilter
	cfg.Output.MatchFolderStructure = runCfg.PreserveStructure
	if err := cfg.Save(ctx); err != nil {
		console.Warningf("saving config: %v", err)
	}
}
