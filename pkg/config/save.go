package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 💾 Save writes the config back to the file it was loaded from, in the same
// format it was loaded in. The settings that survive a run (default folders,
// filter, output toggles) are persisted the same way the interactive build
// saved form state on close. Configs built from defaults with no location
// are not persisted.
func (c *Config) Save(ctx context.Context) error {
	if c.location == "" {
		return nil
	}

	var data []byte
	var err error
	switch ext := strings.ToLower(filepath.Ext(c.location)); ext {
	case ".json":
		data, err = json.MarshalIndent(c, "", "  ")
	case ".toml":
		data, err = toml.Marshal(c)
	case ".hcl":
		data = marshalHCL(c)
	default:
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return errors.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.location), 0755); err != nil {
		return errors.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(c.location, data, 0644); err != nil {
		return errors.Errorf("writing config file: %w", err)
	}
	return nil
}

// marshalHCL renders the config as HCL blocks
func marshalHCL(c *Config) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	gohcl.EncodeIntoBody(&c.Interface, body.AppendNewBlock("interface", nil).Body())
	gohcl.EncodeIntoBody(&c.Search, body.AppendNewBlock("search", nil).Body())
	gohcl.EncodeIntoBody(&c.Output, body.AppendNewBlock("output", nil).Body())
	gohcl.EncodeIntoBody(&c.Paths, body.AppendNewBlock("paths", nil).Body())
	return f.Bytes()
}
