// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tui

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var isTerminal = term.IsTerminal

var (
	headingColor = []color.Attribute{color.Bold}
	errorColor   = []color.Attribute{color.FgRed}
	dimColor     = []color.Attribute{color.FgHiBlack}
)

type Colorizer struct {
	Enabled bool
}

// NewColorizer returns an enabled Colorizer only when enabled is set, w is
// a terminal, NO_COLOR is unset and TERM is neither empty nor dumb.
func NewColorizer(enabled bool, w io.Writer) Colorizer {
	if !enabled {
		return Colorizer{}
	}
	if os.Getenv("NO_COLOR") != "" {
		return Colorizer{}
	}
	t := os.Getenv("TERM")
	if t == "" || t == "dumb" {
		return Colorizer{}
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok || !isTerminal(int(f.Fd())) {
		return Colorizer{}
	}
	return Colorizer{Enabled: true}
}

func (c Colorizer) Heading(text string) string { return c.wrap(headingColor, text) }
func (c Colorizer) Error(text string) string   { return c.wrap(errorColor, text) }
func (c Colorizer) Dim(text string) string     { return c.wrap(dimColor, text) }

func (c Colorizer) wrap(attrs []color.Attribute, text string) string {
	if !c.Enabled || text == "" {
		return text
	}
	p := color.New(attrs...)
	// fatih/color decides on its own from stdout; the caller already did.
	p.EnableColor()
	return p.Sprint(text)
}
