// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmodel

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// flagIndex maps the flags visible at one level of the tree, its own and
// its ancestors', to their specs. pflag binds one token per flag, so
// multi-token flags are folded into a single marker value before pflag
// sees the arguments.
type flagIndex struct {
	long  map[string]*ArgumentSpec
	short map[string]*ArgumentSpec
	names []string // sorted long names, for prefix matching
}

func newFlagIndex(n *node) *flagIndex {
	idx := &flagIndex{
		long:  map[string]*ArgumentSpec{},
		short: map[string]*ArgumentSpec{},
		names: []string{"help"},
	}
	for a := n; a != nil; a = a.parent {
		for _, sp := range a.specs {
			idx.long[sp.Field] = sp
			idx.names = append(idx.names, sp.Field)
			if sp.Short != "" {
				idx.short[sp.Short] = sp
			}
		}
	}
	slices.Sort(idx.names)
	idx.names = slices.Compact(idx.names)
	return idx
}

// indexFlags sets the flag index of n and every node below it.
func indexFlags(n *node) {
	n.flags = newFlagIndex(n)
	for _, c := range n.children {
		indexFlags(c)
	}
}

// expand resolves a long flag name that may be an unambiguous prefix.
func (idx *flagIndex) expand(name string) (string, error) {
	if _, ok := idx.long[name]; ok || name == "help" {
		return name, nil
	}
	var matches []string
	for _, n := range idx.names {
		if strings.HasPrefix(n, name) {
			matches = append(matches, "--"+n)
		}
	}
	switch len(matches) {
	case 0:
		return name, nil
	case 1:
		return matches[0][2:], nil
	}
	return "", fmt.Errorf("ambiguous option: --%s could match %s", name, strings.Join(matches, ", "))
}

// takesToken reports whether sp consumes the token after its flag.
func takesToken(sp *ArgumentSpec) bool {
	return sp != nil && sp.Action.takesValue() && !sp.Toggle
}

// clusterTakesNext reports whether the short cluster "-abc" ends with a
// flag that consumes the following token.
func (idx *flagIndex) clusterTakesNext(cluster string) bool {
	for i := range len(cluster) {
		if sp := idx.short[cluster[i:i+1]]; takesToken(sp) {
			return i == len(cluster)-1
		}
	}
	return false
}

func (n *node) child(name string) *node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// rewrite folds the tokens that follow a nargs flag into one
// "--name=<marker>" token and records them in st.groups. Folding stops at
// "--", at the next flag-like token or when the flag's maximum is reached.
// A flag given with "=" keeps its single token. Flags are looked up at the
// level selected so far, which moves down as sub-command names are seen.
func (p *Parser) rewrite(args []string, st *parseState) ([]string, error) {
	cur := p.root
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			out = append(out, args[i:]...)
			break
		}
		idx := cur.flags
		var sp *ArgumentSpec
		switch {
		case !looksLikeFlag(a):
			if c := cur.child(a); c != nil {
				cur = c
			}
			out = append(out, a)
			continue
		case strings.HasPrefix(a, "--") && len(a) > 2:
			name, val, hasValue := strings.Cut(a[2:], "=")
			if p.opts.AllowAbbrev {
				full, err := idx.expand(name)
				if err != nil {
					return nil, err
				}
				if full != name {
					name = full
					a = "--" + name
					if hasValue {
						a += "=" + val
					}
				}
			}
			if !hasValue {
				sp = idx.long[name]
			}
		case len(a) == 2 && a[0] == '-' && a[1] != '-':
			sp = idx.short[a[1:]]
		case len(a) > 2 && a[0] == '-' && a[1] != '-':
			// A cluster such as -vvv or -p8080.
			out = append(out, a)
			if !strings.Contains(a, "=") && idx.clusterTakesNext(a[1:]) && i+1 < len(args) {
				i++
				out = append(out, args[i])
			}
			continue
		}
		if !takesToken(sp) {
			out = append(out, a)
			continue
		}
		if sp.Nargs.IsZero() {
			// The next token is the value whatever it looks like.
			out = append(out, a)
			if i+1 < len(args) {
				i++
				out = append(out, args[i])
			}
			continue
		}
		_, hi := sp.Nargs.bounds()
		group := []string{}
		for i+1 < len(args) && (hi < 0 || len(group) < hi) {
			next := args[i+1]
			if next == "--" || looksLikeFlag(next) {
				break
			}
			group = append(group, next)
			i++
		}
		st.groups = append(st.groups, group)
		out = append(out, "--"+sp.Field+"="+groupMarker+strconv.Itoa(len(st.groups)-1))
	}
	return out, nil
}

// looksLikeFlag reports whether tok starts a new flag. Negative numbers are
// values.
func looksLikeFlag(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}
	return !isNegativeNumber(tok)
}

func isNegativeNumber(tok string) bool {
	_, err := strconv.ParseFloat(tok, 64)
	return err == nil && strings.HasPrefix(tok, "-")
}
