// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmodel

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/argmodel/pkg/typeshape"
)

func TestNewSchemaOrder(t *testing.T) {
	s := exampleSchema(t)
	var names []string
	for _, f := range s.Fields() {
		names = append(names, f.Name())
	}
	want := []string{"log_level", "integer", "fp", "store_true", "store_false", "list_of_strings", "choices"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("field order mismatch (-want +got):\n%s", diff)
	}
	if f, ok := s.Field("fp"); !ok || f.Meta().Short != "f" {
		t.Errorf("Field(fp) = %v, %v", f, ok)
	}
	if _, ok := s.Field("nope"); ok {
		t.Errorf("Field(nope) found")
	}
}

func TestNewSchemaErrors(t *testing.T) {
	_, err := NewSchema(Field("a", typeshape.Int()), Field("a", typeshape.String()))
	var dup *DuplicateFieldError
	if !errors.As(err, &dup) || dup.Name != "a" {
		t.Errorf("NewSchema with duplicate = %v, want *DuplicateFieldError", err)
	}

	_, err = NewSchema(Field("nested", typeshape.List(typeshape.List(typeshape.Int()))))
	var ut *typeshape.UnsupportedTypeError
	if !errors.As(err, &ut) {
		t.Errorf("NewSchema with list of lists = %v, want *UnsupportedTypeError", err)
	}

	_, err = NewSchema(Field("", typeshape.Int()))
	if !errors.Is(err, errEmptyName) {
		t.Errorf("NewSchema with empty name = %v, want errEmptyName", err)
	}
}

func TestSubcommandBuilder(t *testing.T) {
	base := MustSchema(Field("log_level", typeshape.String(), Default("INFO")))
	s1 := MustSchema(Field("integer", typeshape.Int()))
	s2 := MustSchema(Field("fp", typeshape.Float()))

	root, err := base.WithSubcommands("").Add("s1", s1, nil).Add("s2", s2, nil).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if diff := cmp.Diff([]string{"s1", "s2"}, root.Subcommands()); diff != "" {
		t.Errorf("Subcommands mismatch (-want +got):\n%s", diff)
	}
	if root.Dest() != DefaultCommandDest {
		t.Errorf("Dest() = %q, want %q", root.Dest(), DefaultCommandDest)
	}
	if c, ok := root.Child("s2"); !ok || c != s2 {
		t.Errorf("Child(s2) = %v, %v", c, ok)
	}
	if len(base.Subcommands()) != 0 || base.Dest() != "" {
		t.Errorf("Build modified the parent schema")
	}

	_, err = base.WithSubcommands("cmd").Add("s1", s1, nil).Add("s1", s2, nil).Build()
	var dup *DuplicateSubcommandError
	if !errors.As(err, &dup) || dup.Name != "s1" {
		t.Errorf("Build with duplicate = %v, want *DuplicateSubcommandError", err)
	}
}

func TestMustSchemaPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("MustSchema did not panic")
		}
	}()
	MustSchema(Field("a", typeshape.Int()), Field("a", typeshape.Int()))
}
