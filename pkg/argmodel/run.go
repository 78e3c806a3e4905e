// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmodel

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/shlex"
	"github.com/yeetrun/argmodel/pkg/tui"
)

// Exit codes used by the terminating entry points.
const (
	ExitSuccess    = 0
	ExitValidation = 1
	ExitUsage      = 2
)

// exit is replaced in tests.
var exit = os.Exit

// ParseRecord parses args against s and decodes the record of the level
// that was selected. Errors are returned untouched: *UsageError,
// *ValidationError, ErrHelp, ErrVersion, or a definition error from
// NewParser.
func ParseRecord(s *Schema, args []string, opts Options) (*Record, error) {
	p, err := NewParser(s, opts)
	if err != nil {
		return nil, err
	}
	inv, err := p.Parse(args)
	if err != nil {
		return nil, err
	}
	return inv.Record()
}

// ParseString splits line into tokens using shell quoting rules and parses
// them like ParseRecord.
func ParseString(s *Schema, line string, opts Options) (*Record, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return nil, &UsageError{Command: opts.Prog, Err: fmt.Errorf("failed to split command line: %w", err)}
	}
	return ParseRecord(s, args, opts)
}

// MustParseRecord is ParseRecord for programs: help and version exit 0, a
// usage error prints the usage line and the message and exits 2, and a
// validation error is logged, followed by the help text, and exits 1. A
// definition error panics.
func MustParseRecord(s *Schema, args []string, opts Options) *Record {
	p, err := NewParser(s, opts)
	if err != nil {
		panic(err)
	}
	rec, _ := p.mustRecord(args)
	return rec
}

func (p *Parser) mustRecord(args []string) (*Record, bool) {
	inv, err := p.Parse(args)
	if err != nil {
		p.Exit(err)
		return nil, false
	}
	rec, err := inv.Record()
	if err != nil {
		p.Exit(err)
		return nil, false
	}
	return rec, true
}

// MustRun is Run for programs. Errors are reported and terminate the
// process as in MustParseRecord; a handler error is logged and exits 1.
func (p *Parser) MustRun(ctx context.Context, args []string) {
	if err := p.Run(ctx, args); err != nil {
		p.Exit(err)
	}
}

// Exit reports err the way the terminating entry points do and exits with
// the matching code. A nil err exits 0.
func (p *Parser) Exit(err error) {
	c := tui.NewColorizer(p.opts.Color, p.opts.ErrOutput)
	var (
		ue *UsageError
		ve *ValidationError
	)
	switch {
	case err == nil, errors.Is(err, ErrHelp), errors.Is(err, ErrVersion):
		exit(ExitSuccess)
	case errors.As(err, &ue):
		p.writeUsage(p.opts.ErrOutput, p.nodeAt(ue.Command))
		fmt.Fprintf(p.opts.ErrOutput, "%s: %s\n", ue.Command, c.Error("error: "+ue.Err.Error()))
		exit(ExitUsage)
	case errors.As(err, &ve):
		p.opts.Logf("%v", ve)
		p.PrintHelp(p.opts.Output)
		exit(ExitValidation)
	default:
		p.opts.Logf("%v", err)
		exit(ExitValidation)
	}
}

// nodeAt finds the node whose command path is path, or the root.
func (p *Parser) nodeAt(path string) *node {
	var find func(n *node) *node
	find = func(n *node) *node {
		if n.path == path {
			return n
		}
		for _, c := range n.children {
			if found := find(c); found != nil {
				return found
			}
		}
		return nil
	}
	if n := find(p.root); n != nil {
		return n
	}
	return p.root
}
