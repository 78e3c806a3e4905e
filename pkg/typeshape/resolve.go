// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package typeshape

import (
	"fmt"

	"tailscale.com/util/set"
)

// Shape is the unwrapped description of a declared type.
type Shape struct {
	// Base is a primitive type or a union of primitive types.
	Base     Type
	Optional bool
	Multi    bool
	Literal  bool
	// Values holds the literal constants in declaration order, duplicates
	// included. Set only when Literal is true.
	Values []any
	// Secret reports that a secret layer was peeled to reach Base.
	Secret bool
}

// UnsupportedTypeError is returned by Resolve when a declared type does not
// reduce to string, int, float, bool or a union of those.
type UnsupportedTypeError struct {
	Type   Type
	Reason string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type %s: %s", e.Type, e.Reason)
}

// Resolve peels the wrapper layers of t in fixed order: optional, list,
// literal, secret. optional[list[T]] and list[optional[T]] normalize to the
// same Shape: an optional element found under a list is peeled as well.
func Resolve(t Type) (Shape, error) {
	var s Shape
	work := t

	if inner, ok := optionalInner(work); ok {
		s.Optional = true
		work = inner
	}

	if work.kind == KindList {
		s.Multi = true
		work = work.Elem()
		if inner, ok := optionalInner(work); ok {
			s.Optional = true
			work = inner
		}
	}

	if work.kind == KindLiteral {
		if len(work.values) == 0 {
			return Shape{}, &UnsupportedTypeError{Type: t, Reason: "literal has no values"}
		}
		u, err := literalUnion(work)
		if err != nil {
			return Shape{}, &UnsupportedTypeError{Type: t, Reason: err.Error()}
		}
		s.Literal = true
		s.Values = work.Values()
		work = u
	}

	if work.kind == KindSecret {
		s.Secret = true
		work = String()
	}

	if !reducesToPrimitive(work) {
		return Shape{}, &UnsupportedTypeError{Type: t, Reason: fmt.Sprintf("%s is not a supported base type", work)}
	}
	s.Base = work
	return s, nil
}

// IsOptional reports whether t is a union that includes none.
func IsOptional(t Type) bool {
	_, ok := optionalInner(t)
	return ok
}

func optionalInner(t Type) (Type, bool) {
	if t.kind != KindUnion {
		return Type{}, false
	}
	var rest []Type
	nones := 0
	for _, m := range t.elems {
		if m.kind == KindNone {
			nones++
			continue
		}
		rest = append(rest, m)
	}
	if nones != 1 || len(rest) == 0 {
		return Type{}, false
	}
	return Union(rest...), true
}

// literalUnion collapses the distinct runtime kinds of the literal values, in
// first-seen order.
func literalUnion(t Type) (Type, error) {
	seen := set.Set[Kind]{}
	var members []Type
	for _, v := range t.values {
		k := ConstKind(v)
		if k == Invalid {
			return Type{}, fmt.Errorf("literal value %v of type %T", v, v)
		}
		if seen.Contains(k) {
			continue
		}
		seen.Add(k)
		members = append(members, Type{kind: k})
	}
	return Union(members...), nil
}

func reducesToPrimitive(t Type) bool {
	if t.kind.IsPrimitive() {
		return true
	}
	if t.kind != KindUnion {
		return false
	}
	for _, m := range t.elems {
		if !m.kind.IsPrimitive() {
			return false
		}
	}
	return true
}

// Kinds lists the primitive kinds Base may take, in declared order.
func (s Shape) Kinds() []Kind {
	members := s.Base.Members()
	kinds := make([]Kind, len(members))
	for i, m := range members {
		kinds[i] = m.kind
	}
	return kinds
}

// Primitive returns the single primitive kind of Base. ok is false when Base
// is a union.
func (s Shape) Primitive() (k Kind, ok bool) {
	if s.Base.kind.IsPrimitive() {
		return s.Base.kind, true
	}
	return Invalid, false
}

// Is reports whether Base is exactly the primitive kind k.
func (s Shape) Is(k Kind) bool {
	p, ok := s.Primitive()
	return ok && p == k
}
