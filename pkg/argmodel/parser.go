// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmodel

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"tailscale.com/types/logger"
	"tailscale.com/util/mak"
)

// Options configures a Parser. The zero value is usable.
type Options struct {
	// Prog is the program name in usage lines. Defaults to the base name of
	// os.Args[0].
	Prog string
	// Usage replaces the generated usage line of the root command.
	Usage       string
	Description string
	Epilog      string
	// Version adds a --version flag to the root command that prints Version
	// and stops.
	Version string
	// AllowAbbrev accepts unique prefixes of long flags.
	AllowAbbrev bool

	// Output receives help and version text. Defaults to os.Stdout.
	Output io.Writer
	// ErrOutput receives usage errors. Defaults to os.Stderr.
	ErrOutput io.Writer
	// Logf receives diagnostics. Defaults to log.Printf.
	Logf logger.Logf

	// Defaults overrides declared defaults by field name, at any level. See
	// LoadDefaults.
	Defaults map[string]any
	// Color enables colored help headings when Output is a terminal.
	Color bool
}

func (o Options) withDefaults() Options {
	if o.Prog == "" {
		o.Prog = filepath.Base(os.Args[0])
	}
	if o.Output == nil {
		o.Output = os.Stdout
	}
	if o.ErrOutput == nil {
		o.ErrOutput = os.Stderr
	}
	if o.Logf == nil {
		o.Logf = log.Printf
	}
	return o
}

// Parser turns command lines into Invocations for one schema tree. It is
// safe for concurrent use; every Parse works on fresh flag state.
type Parser struct {
	opts Options
	root *node
}

// node is one level of the command tree.
type node struct {
	name     string
	path     string
	schema   *Schema
	specs    []*ArgumentSpec
	groups   *orderedmap.OrderedMap[string, []*ArgumentSpec]
	parent   *node
	children []*node
	handler  Handler
	flags    *flagIndex
}

// NewParser builds the flag specifications of every field in the tree and
// checks them for collisions. Default factories are called here.
func NewParser(s *Schema, opts Options) (*Parser, error) {
	opts = opts.withDefaults()
	p := &Parser{opts: opts}
	root, err := p.newNode(s, opts.Prog, opts.Prog, nil, s.handler)
	if err != nil {
		return nil, err
	}
	p.root = root
	indexFlags(root)
	return p, nil
}

func (p *Parser) newNode(s *Schema, name, path string, parent *node, h Handler) (*node, error) {
	n := &node{
		name:    name,
		path:    path,
		schema:  s,
		groups:  orderedmap.New[string, []*ArgumentSpec](),
		parent:  parent,
		handler: h,
	}
	taken := reservedFlags()
	for a := parent; a != nil; a = a.parent {
		for _, sp := range a.specs {
			for _, fl := range sp.Flags {
				taken[fl] = sp.Field
			}
		}
	}
	for _, f := range s.fields {
		override, ok := p.opts.Defaults[f.name]
		sp, err := build(f, override, ok)
		if err != nil {
			return nil, err
		}
		if err := n.add(sp, taken); err != nil {
			return nil, err
		}
	}
	if parent == nil && p.opts.Version != "" {
		sp := &ArgumentSpec{
			Field:      "version",
			Flags:      []string{"--version"},
			Action:     ActionVersion,
			Default:    p.opts.Version,
			HasDefault: true,
			Help:       "show program's version number and exit",
			Dest:       "version",
			Group:      DefaultGroup,
		}
		if err := n.add(sp, taken); err != nil {
			return nil, err
		}
	}
	for _, sc := range s.subs {
		child, err := p.newNode(sc.schema, sc.name, path+" "+sc.name, n, sc.handler)
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, child)
	}
	return n, nil
}

// reservedFlags are registered by the command framework itself.
func reservedFlags() map[string]string {
	return map[string]string{"-h": "help", "--help": "help"}
}

// add appends sp to its group bucket. taken maps every flag already
// visible at this level to the field that owns it.
func (n *node) add(sp *ArgumentSpec, taken map[string]string) error {
	for _, fl := range sp.Flags {
		if other, ok := taken[fl]; ok {
			return &DuplicateFlagError{Flag: fl, Field: sp.Field, Other: other, Parser: n.path}
		}
	}
	for _, fl := range sp.Flags {
		taken[fl] = sp.Field
	}
	n.specs = append(n.specs, sp)
	bucket, _ := n.groups.Get(sp.Group)
	n.groups.Set(sp.Group, append(bucket, sp))
	return nil
}

// parseState is the per-Parse flag state.
type parseState struct {
	groups   [][]string
	values   map[*ArgumentSpec]*flagValue
	commands map[*cobra.Command]*node
	selected *node

	helpShown  bool // cobra printed help for -h/--help
	helpAction bool // a field with the help action fired
	version    *ArgumentSpec
}

// command assembles the cobra command for n and its children. Fields of a
// level with children are persistent so they are accepted after the
// sub-command name as well.
func (p *Parser) command(n *node, st *parseState) *cobra.Command {
	cmd := &cobra.Command{
		Use:           n.name,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(*cobra.Command, []string) error {
			st.selected = n
			return nil
		},
	}
	mak.Set(&st.commands, cmd, n)

	fs := cmd.Flags()
	if len(n.children) > 0 {
		fs = cmd.PersistentFlags()
	}
	fs.SortFlags = false
	for _, sp := range n.specs {
		v := &flagValue{spec: sp, state: st}
		mak.Set(&st.values, sp, v)
		f := fs.VarPF(v, sp.Field, sp.Short, sp.Help)
		if sp.Toggle || !sp.Action.takesValue() {
			f.NoOptDefVal = noOptValue
		}
		if sp.Required {
			// The flag was just defined; MarkFlagRequired cannot fail.
			_ = cobra.MarkFlagRequired(fs, sp.Field)
		}
	}
	for _, c := range n.children {
		cmd.AddCommand(p.command(c, st))
	}
	return cmd
}

func (p *Parser) rootCommand(st *parseState) *cobra.Command {
	root := p.command(p.root, st)
	root.SetOut(p.opts.Output)
	root.SetErr(p.opts.ErrOutput)
	root.SetHelpCommand(&cobra.Command{Hidden: true})
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetHelpFunc(func(c *cobra.Command, _ []string) {
		st.helpShown = true
		p.writeHelp(p.opts.Output, st.commands[c])
	})
	root.SetUsageFunc(func(c *cobra.Command) error {
		p.writeUsage(c.ErrOrStderr(), st.commands[c])
		return nil
	})
	return root
}

// helpFlagSets returns one help-only flag set per group of n, in group
// order. The flag sets are used for rendering and never parse.
func helpFlagSets(n *node) *orderedmap.OrderedMap[string, *pflag.FlagSet] {
	sets := orderedmap.New[string, *pflag.FlagSet]()
	for pair := n.groups.Oldest(); pair != nil; pair = pair.Next() {
		fs := pflag.NewFlagSet(pair.Key, pflag.ContinueOnError)
		fs.SortFlags = false
		for _, sp := range pair.Value {
			f := fs.VarPF(&flagValue{spec: sp}, sp.Field, sp.Short, sp.Help)
			if sp.Toggle || !sp.Action.takesValue() {
				f.NoOptDefVal = noOptValue
			}
		}
		sets.Set(pair.Key, fs)
	}
	return sets
}
