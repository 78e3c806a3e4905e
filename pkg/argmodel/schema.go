// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmodel

import (
	"context"
	"slices"

	"tailscale.com/util/must"
)

// DefaultCommandDest is the raw mapping key that records the selected
// sub-command when WithSubcommands is given an empty dest.
const DefaultCommandDest = "command"

// Handler runs a selected command. parent is the record of the schema one
// level up, or nil for the root.
type Handler func(ctx context.Context, parent, cmd *Record) error

// Schema is an ordered set of fields plus an optional set of named child
// schemas. A Schema is immutable; Subcommands and WithHandler return new
// schemas.
type Schema struct {
	fields  []*FieldDecl
	byName  map[string]*FieldDecl
	dest    string
	subs    []*subcommand
	handler Handler
}

type subcommand struct {
	name    string
	schema  *Schema
	handler Handler
}

// NewSchema returns a schema of fields in the given order. Every field's
// declared type is resolved here so that unsupported types surface before
// any parsing.
func NewSchema(fields ...*FieldDecl) (*Schema, error) {
	s := &Schema{byName: make(map[string]*FieldDecl, len(fields))}
	for _, f := range fields {
		if err := f.validate(); err != nil {
			return nil, err
		}
		if _, ok := s.byName[f.name]; ok {
			return nil, &DuplicateFieldError{Name: f.name}
		}
		s.byName[f.name] = f
		s.fields = append(s.fields, f)
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on error. It is meant for schemas
// declared as package variables.
func MustSchema(fields ...*FieldDecl) *Schema {
	return must.Get(NewSchema(fields...))
}

// Fields returns the fields in declaration order.
func (s *Schema) Fields() []*FieldDecl {
	return slices.Clone(s.fields)
}

// Field returns the field called name.
func (s *Schema) Field(name string) (*FieldDecl, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// Dest is the raw mapping key recording the selected sub-command. It is
// empty for a schema without sub-commands.
func (s *Schema) Dest() string { return s.dest }

// Subcommands returns the sub-command names in registration order.
func (s *Schema) Subcommands() []string {
	names := make([]string, len(s.subs))
	for i, sc := range s.subs {
		names[i] = sc.name
	}
	return names
}

// Child returns the schema registered under the sub-command name.
func (s *Schema) Child(name string) (*Schema, bool) {
	for _, sc := range s.subs {
		if sc.name == name {
			return sc.schema, true
		}
	}
	return nil, false
}

// WithHandler returns a copy of s that runs h when s itself is the selected
// command.
func (s *Schema) WithHandler(h Handler) *Schema {
	c := *s
	c.handler = h
	return &c
}

// SubcommandBuilder collects the children of a schema. Call Build to get
// the resulting schema.
type SubcommandBuilder struct {
	parent *Schema
	dest   string
	subs   []*subcommand
	err    error
}

// WithSubcommands starts attaching sub-commands to s. The selected
// sub-command name is recorded under dest, or DefaultCommandDest when dest
// is empty. s itself is not modified.
func (s *Schema) WithSubcommands(dest string) *SubcommandBuilder {
	if dest == "" {
		dest = DefaultCommandDest
	}
	return &SubcommandBuilder{
		parent: s,
		dest:   dest,
		subs:   slices.Clone(s.subs),
	}
}

// Add registers child under name. h runs when the sub-command is selected
// and may be nil.
func (b *SubcommandBuilder) Add(name string, child *Schema, h Handler) *SubcommandBuilder {
	if b.err != nil {
		return b
	}
	for _, sc := range b.subs {
		if sc.name == name {
			b.err = &DuplicateSubcommandError{Name: name}
			return b
		}
	}
	b.subs = append(b.subs, &subcommand{name: name, schema: child, handler: h})
	return b
}

// Build returns the parent schema with the registered sub-commands.
func (b *SubcommandBuilder) Build() (*Schema, error) {
	if b.err != nil {
		return nil, b.err
	}
	c := *b.parent
	c.dest = b.dest
	c.subs = b.subs
	return &c, nil
}
