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

// Package search resolves requested filenames to absolute paths through an
// external indexing tool and filters the results.
package search

import (
	"context"
	"os/exec"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔌 Provider resolves a filename to the absolute paths that match it
type Provider interface {
	// Search returns every indexed absolute path matching the filename.
	// No matches is an empty slice, not an error.
	Search(ctx context.Context, filename string) ([]string, error)

	// Version reports the provider's version, as a health check
	Version(ctx context.Context) (string, error)
}

// 📦 Everything is the voidtools Everything provider, backed by its
// command-line client (es / es.exe)
type Everything struct {
	exe string
}

// 🏭 NewEverything creates the Everything provider. An empty exe resolves
// the client from PATH.
func NewEverything(exe string) (*Everything, error) {
	if exe != "" {
		return &Everything{exe: exe}, nil
	}
	for _, name := range []string{"es", "es.exe"} {
		if path, err := exec.LookPath(name); err == nil {
			return &Everything{exe: path}, nil
		}
	}
	return nil, errors.New("es executable not found in PATH")
}

// 🔍 Search invokes the client once with -full-path-and-name and parses its
// newline-separated output
func (e *Everything) Search(ctx context.Context, filename string) ([]string, error) {
	out, err := exec.CommandContext(ctx, e.exe, "-full-path-and-name", filename).Output()
	if err != nil {
		return nil, errors.Errorf("running %s: %w", e.exe, err)
	}
	return parsePaths(out), nil
}

// ❤️ Version asks the client for the Everything version. Failure means the
// service is not installed, not running, or still indexing.
func (e *Everything) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, e.exe, "-get-everything-version").Output()
	if err != nil {
		return "", errors.Errorf("running %s: %w", e.exe, err)
	}
	version := strings.TrimSpace(string(out))
	if version == "" {
		return "", errors.New("empty version output")
	}
	return version, nil
}

// parsePaths splits provider output into trimmed, non-blank lines
func parsePaths(out []byte) []string {
	var paths []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paths = append(paths, line)
		}
	}
	return paths
}
