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

// Package action performs the configured copy, move, or delete on every
// found file.
package action

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/esbatch/pkg/search"
)

// 🔧 Options selects the action for a run. Delete is exclusive: when set,
// copy and move are skipped entirely. CopyDir and MoveDir may both be set;
// the file is copied first, then the original source is moved, so both
// destinations end up populated and the source is gone.
type Options struct {
	CopyDir           string // Copy destination root, empty disables copying
	MoveDir           string // Move destination root, empty disables moving
	Delete            bool   // Remove sources instead of copying/moving
	PreserveStructure bool   // Mirror the source directory layout under the destination
	Workers           int    // Pool size, <= 0 selects the default
}

// ✅ Active reports whether any action is configured for the run
func (o Options) Active() bool {
	return o.Delete || o.CopyDir != "" || o.MoveDir != ""
}

// 🏷️ Name is the display name of the configured action
func (o Options) Name() string {
	switch {
	case o.Delete:
		return "delete"
	case o.CopyDir != "" && o.MoveDir != "":
		return "copy+move"
	case o.MoveDir != "":
		return "move"
	case o.CopyDir != "":
		return "copy"
	default:
		return "none"
	}
}

// 🗺️ DestPath computes where a found file lands under root. Structure
// preservation mirrors the source path minus its volume name; the flat
// layout uses the requested filename, not the found basename.
func DestPath(root string, f search.FoundFile, preserve bool) string {
	if !preserve {
		return filepath.Join(root, f.Requested)
	}
	return filepath.Join(root, driveRelative(f.Path))
}

// driveRelative strips the volume name and leading separators, leaving the
// source path relative to its drive root
func driveRelative(path string) string {
	rel := path[len(filepath.VolumeName(path)):]
	rel = strings.TrimLeft(rel, `\/`)
	return filepath.FromSlash(strings.ReplaceAll(rel, `\`, "/"))
}

// 📄 copyFile copies src to dst preserving mode and modification time,
// creating intermediate directories as needed
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.Errorf("stating source file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer srcFile.Close()

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return errors.Errorf("copying file content: %w", err)
	}
	if err := dstFile.Close(); err != nil {
		return errors.Errorf("closing destination file: %w", err)
	}

	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return errors.Errorf("preserving timestamps: %w", err)
	}
	return nil
}

// 🚚 moveFile renames src to dst, falling back to copy and remove when the
// destination is on another device
func moveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := copyFile(src, dst); err != nil {
		return errors.Errorf("moving across devices: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return errors.Errorf("removing source after move: %w", err)
	}
	return nil
}

// 🗑️ deleteFile removes the source path. Irreversible; confirmation is the
// caller's concern.
func deleteFile(src string) error {
	if err := os.Remove(src); err != nil {
		return errors.Errorf("deleting file: %w", err)
	}
	return nil
}
