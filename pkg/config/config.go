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

// Package config holds the persisted settings of esbatch: interface
// language, search filters, output behavior and default folders.
package config

import (
	"context"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 🖥️ Interface holds user-facing settings
type Interface struct {
	Language string `json:"language" yaml:"language" toml:"language" hcl:"language,optional"`
}

// 🔍 Search holds search-stage settings
type Search struct {
	RegexFilter     string   `json:"regex_filter" yaml:"regex_filter" toml:"regex_filter" hcl:"regex_filter,optional"`
	ExcludePatterns []string `json:"exclude_patterns,omitempty" yaml:"exclude_patterns,omitempty" toml:"exclude_patterns,omitempty" hcl:"exclude_patterns,optional"`
	Workers         int      `json:"workers,omitempty" yaml:"workers,omitempty" toml:"workers,omitempty" hcl:"workers,optional"`
}

// 📤 Output holds action-stage and logging settings
type Output struct {
	EnableLogging        bool   `json:"enable_logging" yaml:"enable_logging" toml:"enable_logging" hcl:"enable_logging,optional"`
	MatchFolderStructure bool   `json:"match_folder_structure" yaml:"match_folder_structure" toml:"match_folder_structure" hcl:"match_folder_structure,optional"`
	LogDir               string `json:"log_dir,omitempty" yaml:"log_dir,omitempty" toml:"log_dir,omitempty" hcl:"log_dir,optional"`
}

// 📁 Paths holds default destination folders
type Paths struct {
	DefaultCopyFolder string `json:"default_copy_folder" yaml:"default_copy_folder" toml:"default_copy_folder" hcl:"default_copy_folder,optional"`
	DefaultMoveFolder string `json:"default_move_folder" yaml:"default_move_folder" toml:"default_move_folder" hcl:"default_move_folder,optional"`
}

// 🔧 Config is the full esbatch configuration
type Config struct {
	Interface Interface `json:"interface" yaml:"interface" toml:"interface" hcl:"interface,block"`
	Search    Search    `json:"search" yaml:"search" toml:"search" hcl:"search,block"`
	Output    Output    `json:"output" yaml:"output" toml:"output" hcl:"output,block"`
	Paths     Paths     `json:"paths" yaml:"paths" toml:"paths" hcl:"paths,block"`

	// location is the file this config was loaded from, if any
	location string
}

// 🏭 Default returns a config with the stock defaults
func Default() *Config {
	return &Config{
		Interface: Interface{
			Language: "English",
		},
		Output: Output{
			EnableLogging:        false,
			MatchFolderStructure: true,
		},
	}
}

// 📂 Location returns the path this config was loaded from, or "" when it
// was built from defaults
func (c *Config) Location() string {
	return c.location
}

// ✅ Validate checks that the config is usable
func Validate(ctx context.Context, cfg *Config) error {
	if cfg.Interface.Language == "" {
		return errors.New("interface.language must not be empty")
	}
	if cfg.Search.Workers < 0 {
		return errors.Errorf("search.workers must not be negative, got %d", cfg.Search.Workers)
	}
	for _, pattern := range cfg.Search.ExcludePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return nil
}
