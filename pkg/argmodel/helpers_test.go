// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmodel

import (
	"bytes"
	"testing"

	"github.com/yeetrun/argmodel/pkg/typeshape"
)

// exampleFields mirrors the example program: one field per common shape,
// spread over several help groups.
func exampleFields(withGroups bool) []*FieldDecl {
	g := func(name string) FieldOption {
		if !withGroups {
			return func(*FieldDecl) {}
		}
		return Group(name)
	}
	return []*FieldDecl{
		Field("log_level", typeshape.LogLevel(), Default("INFO"), g("logging"),
			Description("Set the logging level")),
		Field("integer", typeshape.Int(), Short("i"), g("number"), Description("An integer")),
		Field("fp", typeshape.Float(), Short("f"), g("number")),
		Field("store_true", typeshape.Bool(), g("boolean")),
		Field("store_false", typeshape.Bool(), WithAction(ActionStoreFalse), g("boolean")),
		Field("list_of_strings", typeshape.List(typeshape.String()), Default([]string{}),
			WithNargs(NargsAny), g("list")),
		Field("choices", typeshape.Literal("a", "b", "c"), g("choices")),
	}
}

func exampleSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := NewSchema(exampleFields(true)...)
	if err != nil {
		t.Fatalf("NewSchema failed: %v", err)
	}
	return s
}

// testOptions discards output unless buffers are given.
func testOptions(out, errOut *bytes.Buffer) Options {
	opts := Options{Prog: "prog", Logf: func(string, ...any) {}}
	opts.Output, opts.ErrOutput = &bytes.Buffer{}, &bytes.Buffer{}
	if out != nil {
		opts.Output = out
	}
	if errOut != nil {
		opts.ErrOutput = errOut
	}
	return opts
}

func mustParser(t *testing.T, s *Schema, opts Options) *Parser {
	t.Helper()
	p, err := NewParser(s, opts)
	if err != nil {
		t.Fatalf("NewParser failed: %v", err)
	}
	return p
}

func mustRecord(t *testing.T, p *Parser, args ...string) *Record {
	t.Helper()
	inv, err := p.Parse(args)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", args, err)
	}
	rec, err := inv.Record()
	if err != nil {
		t.Fatalf("Record() for %q failed: %v", args, err)
	}
	return rec
}
