// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tui

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestNewColorizer(t *testing.T) {
	orig := isTerminal
	t.Cleanup(func() { isTerminal = orig })

	tests := []struct {
		name     string
		enabled  bool
		noColor  string
		term     string
		terminal bool
		w        any
		want     bool
	}{
		{name: "disabled", enabled: false, term: "xterm", terminal: true, w: os.Stdout, want: false},
		{name: "no color", enabled: true, noColor: "1", term: "xterm", terminal: true, w: os.Stdout, want: false},
		{name: "dumb term", enabled: true, term: "dumb", terminal: true, w: os.Stdout, want: false},
		{name: "empty term", enabled: true, term: "", terminal: true, w: os.Stdout, want: false},
		{name: "not a terminal", enabled: true, term: "xterm", terminal: false, w: os.Stdout, want: false},
		{name: "buffer", enabled: true, term: "xterm", terminal: true, w: &bytes.Buffer{}, want: false},
		{name: "terminal", enabled: true, term: "xterm", terminal: true, w: os.Stdout, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", tt.noColor)
			t.Setenv("TERM", tt.term)
			isTerminal = func(int) bool { return tt.terminal }
			var c Colorizer
			switch w := tt.w.(type) {
			case *os.File:
				c = NewColorizer(tt.enabled, w)
			case *bytes.Buffer:
				c = NewColorizer(tt.enabled, w)
			}
			if c.Enabled != tt.want {
				t.Errorf("Enabled = %v, want %v", c.Enabled, tt.want)
			}
		})
	}
}

func TestColorizerWrap(t *testing.T) {
	off := Colorizer{}
	if got := off.Heading("options:"); got != "options:" {
		t.Errorf("disabled Heading = %q, want plain text", got)
	}
	on := Colorizer{Enabled: true}
	got := on.Error("boom")
	if !strings.Contains(got, "boom") || !strings.HasPrefix(got, "\x1b[") {
		t.Errorf("enabled Error = %q, want an escape sequence around the text", got)
	}
	if got := on.Dim(""); got != "" {
		t.Errorf("Dim(\"\") = %q, want empty", got)
	}
}
