// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmodel

import (
	"context"
	"fmt"
	"slices"

	"tailscale.com/util/mak"
)

// Invocation is the result of tokenizing one command line: the selected
// command path and the flat raw mapping shared by every level on it.
type Invocation struct {
	// Path holds the selected sub-command names, outermost first. It is
	// empty when the root command was selected.
	Path []string
	// Raw maps each destination to its raw value: the converted tokens for
	// flags that were given and the default for flags that were not. Each
	// level with sub-commands also records the selected name under its
	// dispatch key.
	Raw map[string]any

	explicit map[string]bool
	nodes    []*node
	parser   *Parser
}

// Parse tokenizes args. Usage problems are returned as *UsageError. When
// help or a version was requested it is printed to Options.Output and
// ErrHelp or ErrVersion is returned.
func (p *Parser) Parse(args []string) (*Invocation, error) {
	st := &parseState{}
	args, err := p.rewrite(args, st)
	if err != nil {
		return nil, &UsageError{Command: p.root.path, Err: err}
	}
	root := p.rootCommand(st)
	root.SetArgs(args)
	cmd, err := root.ExecuteC()

	switch {
	case st.version != nil:
		fmt.Fprintln(p.opts.Output, st.version.Default)
		return nil, ErrVersion
	case st.helpShown:
		return nil, ErrHelp
	case st.helpAction:
		n := st.commands[cmd]
		if n == nil {
			n = p.root
		}
		p.writeHelp(p.opts.Output, n)
		return nil, ErrHelp
	case err != nil:
		path := p.root.path
		if cmd != nil {
			path = cmd.CommandPath()
		}
		return nil, &UsageError{Command: path, Err: err}
	case st.selected == nil:
		return nil, ErrHelp
	}
	return p.invocation(st), nil
}

func (p *Parser) invocation(st *parseState) *Invocation {
	var nodes []*node
	for n := st.selected; n != nil; n = n.parent {
		nodes = append(nodes, n)
	}
	slices.Reverse(nodes)

	inv := &Invocation{
		Raw:    make(map[string]any),
		nodes:  nodes,
		parser: p,
	}
	for i, n := range nodes {
		for _, sp := range n.specs {
			if !sp.Action.stores() {
				continue
			}
			v := st.values[sp]
			switch {
			case v != nil && v.set:
				inv.Raw[sp.Dest] = v.val
				mak.Set(&inv.explicit, sp.Dest, true)
			case sp.HasDefault:
				inv.Raw[sp.Dest] = sp.Default
			}
		}
		if len(n.children) == 0 {
			continue
		}
		if i+1 < len(nodes) {
			name := nodes[i+1].name
			inv.Raw[n.schema.dest] = name
			inv.Path = append(inv.Path, name)
		} else {
			inv.Raw[n.schema.dest] = nil
		}
	}
	return inv
}

// Explicit reports whether the flag storing into dest was given on the
// command line.
func (inv *Invocation) Explicit(dest string) bool {
	return inv.explicit[dest]
}

// Records decodes the raw mapping once per level of the selected path,
// root first. Problems at every level are collected into one
// *ValidationError.
func (inv *Invocation) Records() ([]*Record, error) {
	recs := make([]*Record, 0, len(inv.nodes))
	var issues []Issue
	for _, n := range inv.nodes {
		res := decode(n.schema, inv.Raw, inv.Explicit)
		if res.err != nil {
			issues = append(issues, res.err.Issues...)
			continue
		}
		recs = append(recs, res.rec)
	}
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	return recs, nil
}

// Record decodes the level of the selected command.
func (inv *Invocation) Record() (*Record, error) {
	n := inv.nodes[len(inv.nodes)-1]
	return decode(n.schema, inv.Raw, inv.Explicit).Unwrap()
}

// Dispatch decodes every level and runs the handler of the selected
// command. A selected command that has sub-commands of its own and no
// handler yields ErrMissingCommand wrapped in a *UsageError. Any other
// command without a handler does nothing.
func (inv *Invocation) Dispatch(ctx context.Context) error {
	leaf := inv.nodes[len(inv.nodes)-1]
	if len(leaf.children) > 0 && leaf.handler == nil {
		return &UsageError{Command: leaf.path, Err: ErrMissingCommand}
	}
	recs, err := inv.Records()
	if err != nil {
		return err
	}
	if leaf.handler == nil {
		return nil
	}
	var parent *Record
	if len(recs) > 1 {
		parent = recs[len(recs)-2]
	}
	return leaf.handler(ctx, parent, recs[len(recs)-1])
}

// Run parses args and dispatches to the selected command's handler.
func (p *Parser) Run(ctx context.Context, args []string) error {
	inv, err := p.Parse(args)
	if err != nil {
		return err
	}
	return inv.Dispatch(ctx)
}
