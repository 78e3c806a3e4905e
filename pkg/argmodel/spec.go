// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmodel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yeetrun/argmodel/pkg/typeshape"
)

// ArgumentSpec is the flag specification derived from one field.
type ArgumentSpec struct {
	Field string
	// Flags is ["-s", "--name"] or ["--name"].
	Flags []string
	Short string

	// Converter is the type tokens are converted to. It is the zero Type
	// for actions that consume no token.
	Converter typeshape.Type
	Nargs     Nargs
	Action    Action
	Choices   []any

	Default    any
	HasDefault bool
	Required   bool

	Help    string
	Metavar string
	Dest    string
	Const   any

	// Toggle marks a boolean flag set by presence alone.
	Toggle bool
	Group  string

	shape typeshape.Shape
}

// Build derives the flag specification of f. A default factory is called
// once per Build.
func Build(f *FieldDecl) (*ArgumentSpec, error) {
	return build(f, nil, false)
}

func build(f *FieldDecl, override any, hasOverride bool) (*ArgumentSpec, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	sh, _ := f.Shape()
	meta := f.Meta()
	action, toggle := f.resolveAction()

	sp := &ArgumentSpec{
		Field:  f.name,
		Flags:  []string{"--" + f.name},
		Short:  meta.Short,
		Action: action,
		Toggle: toggle,
		Group:  meta.group(),
		Dest:   f.dest(),
		Const:  meta.Const,
		shape:  sh,
	}
	if meta.Short != "" {
		sp.Flags = []string{"-" + meta.Short, "--" + f.name}
	}

	switch {
	case hasOverride:
		sp.Default, sp.HasDefault = override, true
	case f.hasDefault:
		sp.Default, sp.HasDefault = f.def, true
	case toggle:
		sp.Default, sp.HasDefault = action == ActionStoreFalse, true
	case f.factory != nil:
		sp.Default, sp.HasDefault = f.factory(), true
	}

	if !toggle {
		if action.takesValue() {
			sp.Converter = sh.Base
			if sh.Literal {
				sp.Choices = sh.Values
			}
			sp.Nargs = meta.Nargs
			sp.Metavar = meta.Metavar
		}
		sp.Required = action.stores() && f.Required() && !sp.HasDefault
	}
	sp.Help = helpText(f.description, sp)
	return sp, nil
}

func helpText(desc string, sp *ArgumentSpec) string {
	var parts []string
	if len(sp.Choices) > 0 {
		parts = append(parts, "choices: "+joinValues(sp.Choices, ", "))
	}
	if sp.HasDefault && sp.Default != nil && sp.Action.stores() {
		parts = append(parts, fmt.Sprintf("(default: %s)", formatValue(sp.Default)))
	}
	if desc != "" {
		if len(parts) > 0 {
			desc += ";"
		}
		parts = append([]string{desc}, parts...)
	}
	return strings.Join(parts, " ")
}

// metavar is the value placeholder shown in help.
func (sp *ArgumentSpec) metavar() string {
	m := sp.Metavar
	if m == "" {
		m = strings.ToUpper(sp.Dest)
	}
	switch sp.Nargs.sym {
	case '?':
		return "[" + m + "]"
	case '*':
		return "[" + m + " ...]"
	case '+':
		return m + " [" + m + " ...]"
	case 'N':
		return strings.TrimSpace(strings.Repeat(m+" ", sp.Nargs.n))
	}
	return m
}

// convert turns one token into a raw value.
func (sp *ArgumentSpec) convert(tok string) (any, error) {
	return convertToken(sp.shape, tok)
}

// convertToken converts tok to the base type of sh. Literal shapes accept a
// token equal to the printed form of one of their values and yield that
// value. Union members are tried in order.
func convertToken(sh typeshape.Shape, tok string) (any, error) {
	if sh.Literal {
		for _, v := range sh.Values {
			if formatValue(v) == tok {
				return v, nil
			}
		}
		return nil, fmt.Errorf("invalid choice: %q (choose from %s)", tok, joinValues(sh.Values, ", "))
	}
	var firstErr error
	for _, k := range sh.Kinds() {
		v, err := convertKind(k, tok)
		if err == nil {
			return v, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

func convertKind(k typeshape.Kind, tok string) (any, error) {
	switch k {
	case typeshape.KindString:
		return tok, nil
	case typeshape.KindInt:
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			return nil, fmt.Errorf("invalid int value: %q", tok)
		}
		return n, nil
	case typeshape.KindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float value: %q", tok)
		}
		return f, nil
	case typeshape.KindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(tok))
		if err != nil {
			return nil, fmt.Errorf("invalid bool value: %q", tok)
		}
		return b, nil
	}
	return nil, fmt.Errorf("no converter for %s", k)
}

// formatValue renders a value the way it is written on a command line.
// Secrets stay masked.
func formatValue(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case string:
		return x
	}
	return fmt.Sprint(v)
}

func joinValues(vs []any, sep string) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = formatValue(v)
	}
	return strings.Join(parts, sep)
}
