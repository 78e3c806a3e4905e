// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmodel

import (
	"fmt"
	"strconv"
)

// DefaultGroup is the group of fields that did not name one. Its flags are
// listed in the main options section of the help text.
const DefaultGroup = "default"

// Action selects how a flag stores what it consumes.
type Action string

const (
	// ActionInfer lets the builder choose: store_true for booleans, store
	// otherwise.
	ActionInfer       Action = ""
	ActionStore       Action = "store"
	ActionStoreTrue   Action = "store_true"
	ActionStoreFalse  Action = "store_false"
	ActionStoreConst  Action = "store_const"
	ActionAppend      Action = "append"
	ActionAppendConst Action = "append_const"
	ActionExtend      Action = "extend"
	ActionCount       Action = "count"
	ActionHelp        Action = "help"
	ActionVersion     Action = "version"
)

// Valid reports whether a is one of the supported actions.
func (a Action) Valid() bool {
	switch a {
	case ActionInfer, ActionStore, ActionStoreTrue, ActionStoreFalse,
		ActionStoreConst, ActionAppend, ActionAppendConst, ActionExtend,
		ActionCount, ActionHelp, ActionVersion:
		return true
	}
	return false
}

// takesValue reports whether the action consumes a token.
func (a Action) takesValue() bool {
	switch a {
	case ActionInfer, ActionStore, ActionAppend, ActionExtend:
		return true
	}
	return false
}

// stores reports whether the action produces a value in the raw mapping.
func (a Action) stores() bool {
	return a != ActionHelp && a != ActionVersion
}

// Nargs is the number of tokens a flag consumes. The zero Nargs means a
// single token.
type Nargs struct {
	sym byte // '?', '*', '+', 'N' for an exact count, or 0
	n   int
}

var (
	// NargsOptional consumes zero or one token. Without a token the field's
	// Const value is stored.
	NargsOptional = Nargs{sym: '?'}
	// NargsAny consumes zero or more tokens into a list.
	NargsAny = Nargs{sym: '*'}
	// NargsSome consumes one or more tokens into a list.
	NargsSome = Nargs{sym: '+'}
)

// NargsExactly consumes exactly n tokens into a list.
func NargsExactly(n int) Nargs {
	return Nargs{sym: 'N', n: n}
}

// ParseNargs parses the textual forms "?", "*", "+" and a positive count.
func ParseNargs(s string) (Nargs, error) {
	switch s {
	case "":
		return Nargs{}, nil
	case "?":
		return NargsOptional, nil
	case "*":
		return NargsAny, nil
	case "+":
		return NargsSome, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return Nargs{}, fmt.Errorf("%w: %q", ErrInvalidNargs, s)
	}
	return NargsExactly(n), nil
}

// IsZero reports whether no nargs was declared.
func (n Nargs) IsZero() bool { return n.sym == 0 }

func (n Nargs) String() string {
	switch n.sym {
	case 0:
		return ""
	case 'N':
		return strconv.Itoa(n.n)
	}
	return string(n.sym)
}

// Multi reports whether the flag produces a list of values.
func (n Nargs) Multi() bool {
	return n.sym == '*' || n.sym == '+' || n.sym == 'N'
}

// bounds returns the minimum and maximum token counts. max is -1 when
// unbounded.
func (n Nargs) bounds() (min, max int) {
	switch n.sym {
	case '?':
		return 0, 1
	case '*':
		return 0, -1
	case '+':
		return 1, -1
	case 'N':
		return n.n, n.n
	}
	return 1, 1
}

func (n Nargs) valid() bool {
	switch n.sym {
	case 0, '?', '*', '+':
		return true
	case 'N':
		return n.n > 0
	}
	return false
}

// ArgMeta is the command-line overlay of a field. The zero value means
// "infer everything".
type ArgMeta struct {
	Group   string
	Short   string
	Nargs   Nargs
	Action  Action
	Metavar string
	Dest    string
	// Const is stored by store_const and append_const, and by a nargs "?"
	// flag given without a token.
	Const any
}

// group returns the effective group name.
func (m ArgMeta) group() string {
	if m.Group == "" {
		return DefaultGroup
	}
	return m.Group
}

func (m ArgMeta) validate() error {
	if m.Short != "" && (len(m.Short) != 1 || m.Short == "-" || m.Short[0] > 0x7f) {
		return fmt.Errorf("%w: %q", ErrInvalidShort, m.Short)
	}
	if !m.Action.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidAction, string(m.Action))
	}
	if !m.Nargs.valid() {
		return fmt.Errorf("%w: %q", ErrInvalidNargs, m.Nargs)
	}
	if !m.Nargs.IsZero() && m.Action != ActionInfer && !m.Action.takesValue() {
		return fmt.Errorf("%w: action %s takes no value", ErrInvalidNargs, m.Action)
	}
	return nil
}
