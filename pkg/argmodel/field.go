// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmodel

import (
	"github.com/yeetrun/argmodel/pkg/typeshape"
	"tailscale.com/types/lazy"
)

// FieldDecl is one declared field of a Schema. It is immutable once the
// schema holding it has been created.
type FieldDecl struct {
	name        string
	typ         typeshape.Type
	def         any
	hasDefault  bool
	factory     func() any
	description string
	meta        *ArgMeta
	err         error

	shape lazy.SyncValue[resolvedShape]
}

type resolvedShape struct {
	shape typeshape.Shape
	err   error
}

// FieldOption configures a FieldDecl.
type FieldOption func(*FieldDecl)

// Field declares a field called name holding values of typ. The long flag
// is always "--" + name.
func Field(name string, typ typeshape.Type, opts ...FieldOption) *FieldDecl {
	f := &FieldDecl{name: name, typ: typ}
	for _, o := range opts {
		o(f)
	}
	if f.meta != nil && f.err == nil {
		if err := f.meta.validate(); err != nil {
			f.err = &FieldError{Field: name, Err: err}
		}
	}
	return f
}

// Default sets the declared default. A nil default is a default: the field
// is not required and is left out of help text.
func Default(v any) FieldOption {
	return func(f *FieldDecl) {
		f.def = v
		f.hasDefault = true
	}
}

// DefaultFactory sets a producer for the default, called once each time a
// parser is built from the schema.
func DefaultFactory(fn func() any) FieldOption {
	return func(f *FieldDecl) { f.factory = fn }
}

// Description sets the help text of the field.
func Description(s string) FieldOption {
	return func(f *FieldDecl) { f.description = s }
}

// Meta replaces the whole command-line overlay of the field.
func Meta(m ArgMeta) FieldOption {
	return func(f *FieldDecl) {
		mc := m
		f.meta = &mc
	}
}

func (f *FieldDecl) overlay() *ArgMeta {
	if f.meta == nil {
		f.meta = &ArgMeta{}
	}
	return f.meta
}

// Group places the field's flag under a titled help section.
func Group(g string) FieldOption {
	return func(f *FieldDecl) { f.overlay().Group = g }
}

// Short adds a one-character alias.
func Short(s string) FieldOption {
	return func(f *FieldDecl) { f.overlay().Short = s }
}

func WithNargs(n Nargs) FieldOption {
	return func(f *FieldDecl) { f.overlay().Nargs = n }
}

func WithAction(a Action) FieldOption {
	return func(f *FieldDecl) { f.overlay().Action = a }
}

// Metavar sets the value placeholder shown in help.
func Metavar(m string) FieldOption {
	return func(f *FieldDecl) { f.overlay().Metavar = m }
}

// Dest overrides the key the flag's value is stored under in the raw
// mapping. It does not change the flag name.
func Dest(d string) FieldOption {
	return func(f *FieldDecl) { f.overlay().Dest = d }
}

func Const(v any) FieldOption {
	return func(f *FieldDecl) { f.overlay().Const = v }
}

func (f *FieldDecl) Name() string              { return f.name }
func (f *FieldDecl) Type() typeshape.Type      { return f.typ }
func (f *FieldDecl) Description() string       { return f.description }
func (f *FieldDecl) Default() (v any, ok bool) { return f.def, f.hasDefault }
func (f *FieldDecl) HasDefaultFactory() bool   { return f.factory != nil }

// Required reports whether the field has neither a default nor a factory.
func (f *FieldDecl) Required() bool {
	return !f.hasDefault && f.factory == nil
}

// Meta returns a copy of the field's overlay, or the zero overlay.
func (f *FieldDecl) Meta() ArgMeta {
	if f.meta == nil {
		return ArgMeta{}
	}
	return *f.meta
}

// Shape resolves the declared type. The result is computed once.
func (f *FieldDecl) Shape() (typeshape.Shape, error) {
	r := f.shape.Get(func() resolvedShape {
		s, err := typeshape.Resolve(f.typ)
		return resolvedShape{shape: s, err: err}
	})
	return r.shape, r.err
}

// resolveAction returns the effective action and whether the field is a
// bare toggle: a boolean consumed by presence alone.
func (f *FieldDecl) resolveAction() (a Action, toggle bool) {
	a = f.Meta().Action
	sh, err := f.Shape()
	if err == nil && sh.Is(typeshape.KindBool) && !sh.Multi {
		switch a {
		case ActionInfer:
			return ActionStoreTrue, true
		case ActionStoreTrue, ActionStoreFalse:
			return a, true
		}
	}
	if a == ActionInfer {
		a = ActionStore
	}
	return a, false
}

// dest is the raw mapping key of the field. Toggles always use the name.
func (f *FieldDecl) dest() string {
	if _, toggle := f.resolveAction(); toggle {
		return f.name
	}
	if d := f.Meta().Dest; d != "" {
		return d
	}
	return f.name
}

// validate reports option and type errors recorded at declaration.
func (f *FieldDecl) validate() error {
	if f.err != nil {
		return f.err
	}
	if f.name == "" {
		return &FieldError{Field: f.name, Err: errEmptyName}
	}
	if _, err := f.Shape(); err != nil {
		return &FieldError{Field: f.name, Err: err}
	}
	return nil
}
