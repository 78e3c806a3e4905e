// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmodel

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/yeetrun/argmodel/pkg/fileutil"
	"gopkg.in/yaml.v3"
)

type defaultsFormat int

const (
	formatTOML defaultsFormat = iota + 1
	formatYAML
)

func formatOf(path string) (defaultsFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return formatTOML, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrDefaultsFormat, path)
}

// LoadDefaults reads a flat table of field name to value from a TOML or
// YAML file, chosen by extension. The result is meant for
// Options.Defaults.
func LoadDefaults(path string) (map[string]any, error) {
	format, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	m := map[string]any{}
	switch format {
	case formatTOML:
		if _, err := toml.DecodeFile(path, &m); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case formatYAML:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	for k, v := range m {
		if _, ok := v.(map[string]any); ok {
			return nil, fmt.Errorf("failed to parse %s: %q is a table, want a value", path, k)
		}
	}
	return m, nil
}

// SaveDefaults writes the non-nil values of rec to path in the format
// chosen by its extension. Secrets are written masked.
func SaveDefaults(path string, rec *Record) error {
	format, err := formatOf(path)
	if err != nil {
		return err
	}
	m := make(map[string]any, len(rec.values))
	for k, v := range rec.values {
		if v != nil {
			m[k] = v
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	err = fileutil.WriteFile(path, 0o644, func(w io.Writer) error {
		if format == formatTOML {
			return toml.NewEncoder(w).Encode(m)
		}
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(m); err != nil {
			return err
		}
		return enc.Close()
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
