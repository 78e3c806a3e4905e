// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli handles the process-level flags shared by the binaries in
// this module. They are peeled off argv before the schema parser sees it.
package cli

import (
	"fmt"
	"maps"

	"github.com/shayne/yargs"
	"github.com/yeetrun/argmodel/pkg/argmodel"
)

// ProcessFlags are accepted anywhere before "--".
type ProcessFlags struct {
	Defaults string `flag:"defaults" help:"Load flag defaults from a TOML or YAML file"`
	NoColor  bool   `flag:"no-color" help:"Disable colored help output"`
}

// ParseProcessFlags removes the process flags from args and returns the
// remaining arguments in order.
func ParseProcessFlags(args []string) (ProcessFlags, []string, error) {
	result, err := yargs.ParseKnownFlags[ProcessFlags](args, yargs.KnownFlagsOptions{})
	if err != nil {
		return ProcessFlags{}, nil, err
	}
	return result.Flags, result.RemainingArgs, nil
}

// Apply returns opts with the process flags applied. Values from a
// defaults file override entries already in opts.Defaults.
func Apply(flags ProcessFlags, opts argmodel.Options) (argmodel.Options, error) {
	opts.Color = !flags.NoColor
	if flags.Defaults == "" {
		return opts, nil
	}
	loaded, err := argmodel.LoadDefaults(flags.Defaults)
	if err != nil {
		return opts, fmt.Errorf("failed to load defaults: %w", err)
	}
	merged := maps.Clone(opts.Defaults)
	if merged == nil {
		merged = make(map[string]any, len(loaded))
	}
	maps.Copy(merged, loaded)
	opts.Defaults = merged
	return opts, nil
}

// Setup parses the process flags out of args and applies them to opts.
func Setup(args []string, opts argmodel.Options) (argmodel.Options, []string, error) {
	flags, rest, err := ParseProcessFlags(args)
	if err != nil {
		return opts, nil, err
	}
	opts, err = Apply(flags, opts)
	if err != nil {
		return opts, nil, err
	}
	return opts, rest, nil
}
