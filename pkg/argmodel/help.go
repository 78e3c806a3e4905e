// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmodel

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
	"github.com/yeetrun/argmodel/pkg/tui"
)

const helpUsage = "show this help message and exit"

// PrintHelp writes the help text of the root command to w.
func (p *Parser) PrintHelp(w io.Writer) {
	p.writeHelp(w, p.root)
}

// PrintCommandHelp writes the help text of the sub-command at path.
func (p *Parser) PrintCommandHelp(w io.Writer, path ...string) error {
	n := p.root
	for _, name := range path {
		var next *node
		for _, c := range n.children {
			if c.name == name {
				next = c
				break
			}
		}
		if next == nil {
			return fmt.Errorf("unknown command %q for %q", name, n.path)
		}
		n = next
	}
	p.writeHelp(w, n)
	return nil
}

func (p *Parser) writeUsage(w io.Writer, n *node) {
	if n == nil {
		n = p.root
	}
	fmt.Fprintln(w, p.usageLine(n))
}

func (p *Parser) usageLine(n *node) string {
	if n == p.root && p.opts.Usage != "" {
		return "usage: " + p.opts.Usage
	}
	parts := []string{"usage:", n.path, "[-h]"}
	for _, sp := range n.specs {
		fl := sp.Flags[0]
		if sp.Action.takesValue() && !sp.Toggle {
			fl += " " + sp.metavar()
		}
		if !sp.Required {
			fl = "[" + fl + "]"
		}
		parts = append(parts, fl)
	}
	if len(n.children) > 0 {
		parts = append(parts, "{"+strings.Join(childNames(n), ",")+"}", "...")
	}
	return strings.Join(parts, " ")
}

func childNames(n *node) []string {
	names := make([]string, len(n.children))
	for i, c := range n.children {
		names[i] = c.name
	}
	return names
}

// writeHelp renders the usage line, the description, the default group as
// "options", one section per named group, the sub-commands and the epilog.
func (p *Parser) writeHelp(w io.Writer, n *node) {
	if n == nil {
		n = p.root
	}
	c := tui.NewColorizer(p.opts.Color, w)
	var sb strings.Builder
	sb.WriteString(p.usageLine(n))
	sb.WriteString("\n")
	if n == p.root && p.opts.Description != "" {
		fmt.Fprintf(&sb, "\n%s\n", p.opts.Description)
	}

	options := pflag.NewFlagSet("options", pflag.ContinueOnError)
	options.SortFlags = false
	options.BoolP("help", "h", false, helpUsage)
	sets := helpFlagSets(n)
	if def, ok := sets.Get(DefaultGroup); ok {
		options.AddFlagSet(def)
	}
	fmt.Fprintf(&sb, "\n%s\n%s", c.Heading("options:"), options.FlagUsagesWrapped(0))
	for pair := sets.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key == DefaultGroup {
			continue
		}
		fmt.Fprintf(&sb, "\n%s\n%s", c.Heading(pair.Key+":"), pair.Value.FlagUsagesWrapped(0))
	}

	if len(n.children) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", c.Heading("commands:"))
		for _, name := range childNames(n) {
			fmt.Fprintf(&sb, "  %s\n", name)
		}
	}
	if n == p.root && p.opts.Epilog != "" {
		fmt.Fprintf(&sb, "\n%s\n", c.Dim(p.opts.Epilog))
	}
	io.WriteString(w, sb.String())
}
