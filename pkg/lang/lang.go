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

// Package lang provides the embedded message catalogs used for user-facing
// output. Strings are addressed by dotted path ("messages.no_matches") and
// fall back to the key itself when missing, so a hole in a catalog degrades
// to something greppable instead of an empty line.
package lang

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

//go:embed catalog/*.json
var catalogFS embed.FS

// 🗣️ Catalog is one loaded language
type Catalog struct {
	name    string
	strings map[string]any
}

// 🏭 Load loads the catalog for the given language name, falling back to
// English when the language is unknown
func Load(language string) (*Catalog, error) {
	entries, err := fs.ReadDir(catalogFS, "catalog")
	if err != nil {
		return nil, errors.Errorf("reading catalog dir: %w", err)
	}

	var fallback *Catalog
	for _, entry := range entries {
		c, err := loadFile(path.Join("catalog", entry.Name()))
		if err != nil {
			return nil, err
		}
		if c.name == language {
			return c, nil
		}
		if c.name == "English" {
			fallback = c
		}
	}

	if fallback == nil {
		return nil, errors.Errorf("no catalog for %q and no English fallback", language)
	}
	return fallback, nil
}

// 📋 Languages returns the names of all embedded catalogs, English first
func Languages() ([]string, error) {
	entries, err := fs.ReadDir(catalogFS, "catalog")
	if err != nil {
		return nil, errors.Errorf("reading catalog dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		c, err := loadFile(path.Join("catalog", entry.Name()))
		if err != nil {
			return nil, err
		}
		names = append(names, c.name)
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i] == "English" {
			return true
		}
		if names[j] == "English" {
			return false
		}
		return names[i] < names[j]
	})
	return names, nil
}

// Name returns the display name of the catalog's language
func (c *Catalog) Name() string {
	return c.name
}

// 🔑 Get resolves a dotted key to a string, applying fmt-style args when
// given. A missing or non-string value resolves to the key itself.
func (c *Catalog) Get(key string, args ...any) string {
	if key == "" {
		return key
	}

	var value any = c.strings
	for _, part := range strings.Split(key, ".") {
		m, ok := value.(map[string]any)
		if !ok {
			return key
		}
		value, ok = m[part]
		if !ok {
			return key
		}
	}

	s, ok := value.(string)
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(s, args...)
	}
	return s
}

// loadFile parses one embedded catalog file
func loadFile(name string) (*Catalog, error) {
	data, err := catalogFS.ReadFile(name)
	if err != nil {
		return nil, errors.Errorf("reading catalog %s: %w", name, err)
	}

	var strings map[string]any
	if err := json.Unmarshal(data, &strings); err != nil {
		return nil, errors.Errorf("parsing catalog %s: %w", name, err)
	}

	c := &Catalog{strings: strings}
	c.name = c.Get("language.name")
	if c.name == "language.name" {
		return nil, errors.Errorf("catalog %s is missing language.name", name)
	}
	return c, nil
}
