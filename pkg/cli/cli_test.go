// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/argmodel/pkg/argmodel"
)

func TestParseProcessFlags(t *testing.T) {
	args := []string{
		"--defaults", "cfg.toml",
		"s1", "-i", "5",
		"--no-color",
		"-f", "1.5",
	}
	flags, rest, err := ParseProcessFlags(args)
	if err != nil {
		t.Fatalf("ParseProcessFlags failed: %v", err)
	}
	if flags.Defaults != "cfg.toml" {
		t.Errorf("Defaults = %q, want %q", flags.Defaults, "cfg.toml")
	}
	if !flags.NoColor {
		t.Errorf("NoColor = false, want true")
	}
	if got := strings.Join(rest, " "); got != "s1 -i 5 -f 1.5" {
		t.Errorf("args = %q, want %q", got, "s1 -i 5 -f 1.5")
	}
}

func TestParseProcessFlagsStopsAtDoubleDash(t *testing.T) {
	flags, rest, err := ParseProcessFlags([]string{"--x", "1", "--", "--no-color"})
	if err != nil {
		t.Fatalf("ParseProcessFlags failed: %v", err)
	}
	if flags.NoColor {
		t.Errorf("NoColor = true, want false after --")
	}
	if got := strings.Join(rest, " "); got != "--x 1 -- --no-color" {
		t.Errorf("args = %q, want %q", got, "--x 1 -- --no-color")
	}
}

func TestApply(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "defaults.toml")
	if err := os.WriteFile(path, []byte("log_level = \"DEBUG\"\ninteger = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	opts := argmodel.Options{Defaults: map[string]any{"integer": 1, "fp": 2.5}}
	got, err := Apply(ProcessFlags{Defaults: path, NoColor: true}, opts)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got.Color {
		t.Errorf("Color = true, want false")
	}
	want := map[string]any{"log_level": "DEBUG", "integer": int64(7), "fp": 2.5}
	if diff := cmp.Diff(want, got.Defaults); diff != "" {
		t.Errorf("Defaults mismatch (-want +got):\n%s", diff)
	}
	if opts.Defaults["integer"] != 1 {
		t.Errorf("Apply modified the caller's Defaults map")
	}
}

func TestApplyMissingFile(t *testing.T) {
	_, err := Apply(ProcessFlags{Defaults: filepath.Join(t.TempDir(), "nope.yaml")}, argmodel.Options{})
	if err == nil {
		t.Fatal("Apply succeeded for a missing file")
	}
}
