// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmodel

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// noOptValue is what pflag passes to Set for a flag given without a value
// when the flag consumes no token.
const noOptValue = "true"

// flagValue is the pflag.Value behind every flag. It applies the spec's
// action to the converted tokens and remembers whether it was set.
type flagValue struct {
	spec  *ArgumentSpec
	state *parseState
	val   any
	set   bool
}

var _ pflag.Value = (*flagValue)(nil)

func (v *flagValue) String() string { return "" }

// Type is used by pflag as the value placeholder in usage lines. Flags that
// take no token report "bool" so pflag prints no placeholder.
func (v *flagValue) Type() string {
	if !v.spec.Action.takesValue() || v.spec.Toggle {
		return "bool"
	}
	return v.spec.metavar()
}

func (v *flagValue) Set(s string) error {
	sp := v.spec
	if sp.Toggle || !sp.Action.takesValue() {
		if s != noOptValue {
			return fmt.Errorf("ignored explicit argument %q", s)
		}
		return v.trigger()
	}

	toks := v.state.tokens(s)
	if !sp.Nargs.IsZero() {
		if err := checkTokenCount(sp.Nargs, len(toks)); err != nil {
			return err
		}
	}
	vals := make([]any, len(toks))
	for i, t := range toks {
		c, err := sp.convert(t)
		if err != nil {
			return err
		}
		vals[i] = c
	}

	var got any
	switch {
	case sp.Nargs.Multi():
		got = vals
	case len(vals) == 0:
		got = sp.Const
	default:
		got = vals[0]
	}

	switch sp.Action {
	case ActionAppend, ActionExtend:
		list := v.list()
		if multi, ok := got.([]any); ok {
			list = append(list, multi...)
		} else {
			list = append(list, got)
		}
		v.val = list
	default:
		v.val = got
	}
	v.set = true
	return nil
}

// trigger applies an action that consumes no token.
func (v *flagValue) trigger() error {
	sp := v.spec
	switch sp.Action {
	case ActionStoreTrue:
		v.val = true
	case ActionStoreFalse:
		v.val = false
	case ActionStoreConst:
		v.val = sp.Const
	case ActionAppendConst:
		v.val = append(v.list(), sp.Const)
	case ActionCount:
		n := 0
		if v.set {
			n = v.val.(int)
		} else if d, ok := asInt(sp.Default); ok {
			n = d
		}
		v.val = n + 1
	case ActionHelp:
		v.state.helpAction = true
		return nil
	case ActionVersion:
		v.state.version = sp
		return nil
	default:
		return fmt.Errorf("action %s takes a value", sp.Action)
	}
	v.set = true
	return nil
}

// list returns a copy of the list accumulated so far. Before the first Set
// it starts from the spec's default when that is a slice.
func (v *flagValue) list() []any {
	if v.set {
		if l, ok := v.val.([]any); ok {
			return append([]any(nil), l...)
		}
		return nil
	}
	return toAnySlice(v.spec.Default)
}

func toAnySlice(x any) []any {
	if x == nil {
		return nil
	}
	rv := reflect.ValueOf(x)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func asInt(x any) (int, bool) {
	switch n := x.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	}
	return 0, false
}

var errNeedOne = errors.New("expected at least one argument")

func checkTokenCount(n Nargs, got int) error {
	lo, hi := n.bounds()
	switch {
	case got < lo && n.sym == '+':
		return errNeedOne
	case got < lo || (hi >= 0 && got > hi):
		if lo == 1 {
			return errors.New("expected one argument")
		}
		return fmt.Errorf("expected %d arguments", lo)
	}
	return nil
}

// groupMarker prefixes a flag value that stands for a run of tokens folded
// by the nargs pre-pass. The suffix indexes parseState.groups.
const groupMarker = "\x00nargs:"

func (st *parseState) tokens(s string) []string {
	if rest, ok := strings.CutPrefix(s, groupMarker); ok {
		if i, err := strconv.Atoi(rest); err == nil && i >= 0 && i < len(st.groups) {
			return st.groups[i]
		}
	}
	return []string{s}
}
