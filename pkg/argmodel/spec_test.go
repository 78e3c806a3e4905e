// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmodel

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/argmodel/pkg/typeshape"
)

func TestBuildFlags(t *testing.T) {
	tests := []struct {
		name string
		f    *FieldDecl
		want []string
	}{
		{"long only", Field("name", typeshape.String()), []string{"--name"}},
		{"with short", Field("name", typeshape.String(), Short("n")), []string{"-n", "--name"}},
		{"dest does not rename", Field("name", typeshape.String(), Dest("other")), []string{"--name"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp, err := Build(tt.f)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, sp.Flags); diff != "" {
				t.Errorf("Flags mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildToggle(t *testing.T) {
	tests := []struct {
		name       string
		f          *FieldDecl
		wantToggle bool
		wantAction Action
		wantDef    any
	}{
		{"bare bool", Field("v", typeshape.Bool()), true, ActionStoreTrue, false},
		{"store_true", Field("v", typeshape.Bool(), WithAction(ActionStoreTrue)), true, ActionStoreTrue, false},
		{"store_false", Field("v", typeshape.Bool(), WithAction(ActionStoreFalse)), true, ActionStoreFalse, true},
		{"declared default wins", Field("v", typeshape.Bool(), Default(true)), true, ActionStoreTrue, true},
		{"factory ignored", Field("v", typeshape.Bool(), DefaultFactory(func() any { return true })), true, ActionStoreTrue, false},
		{"optional bool", Field("v", typeshape.Optional(typeshape.Bool())), true, ActionStoreTrue, false},
		{"list of bool", Field("v", typeshape.List(typeshape.Bool()), Default([]bool{})), false, ActionStore, []bool{}},
		{"bool with store", Field("v", typeshape.Bool(), WithAction(ActionStore), Default(false)), false, ActionStore, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp, err := Build(tt.f)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if sp.Toggle != tt.wantToggle {
				t.Errorf("Toggle = %v, want %v", sp.Toggle, tt.wantToggle)
			}
			if sp.Action != tt.wantAction {
				t.Errorf("Action = %q, want %q", sp.Action, tt.wantAction)
			}
			if !sp.HasDefault || !cmp.Equal(sp.Default, tt.wantDef) {
				t.Errorf("Default = %v (%v), want %v", sp.Default, sp.HasDefault, tt.wantDef)
			}
			if sp.Toggle {
				if sp.Converter.Kind() != typeshape.Invalid || sp.Choices != nil || !sp.Nargs.IsZero() || sp.Metavar != "" {
					t.Errorf("toggle spec carries converter details: %+v", sp)
				}
				if sp.Required {
					t.Errorf("Required = true for a toggle")
				}
			}
		})
	}
}

func TestBuildToggleIgnoresDest(t *testing.T) {
	sp, err := Build(Field("verbose", typeshape.Bool(), Dest("v")))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if sp.Dest != "verbose" {
		t.Errorf("Dest = %q, want %q", sp.Dest, "verbose")
	}
}

func TestBuildConverter(t *testing.T) {
	sp, err := Build(Field("tags", typeshape.Optional(typeshape.List(typeshape.Literal("x", "y"))), WithNargs(NargsSome)))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !sp.Converter.Equal(typeshape.String()) {
		t.Errorf("Converter = %s, want string", sp.Converter)
	}
	if diff := cmp.Diff([]any{"x", "y"}, sp.Choices); diff != "" {
		t.Errorf("Choices mismatch (-want +got):\n%s", diff)
	}
	if sp.Nargs != NargsSome {
		t.Errorf("Nargs = %q, want %q", sp.Nargs, NargsSome)
	}

	// A list without nargs still takes a single token.
	sp, err = Build(Field("ids", typeshape.List(typeshape.Int())))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !sp.Nargs.IsZero() {
		t.Errorf("Nargs = %q, want none", sp.Nargs)
	}
}

func TestBuildRequired(t *testing.T) {
	tests := []struct {
		name string
		f    *FieldDecl
		want bool
	}{
		{"no default", Field("n", typeshape.Int()), true},
		{"default", Field("n", typeshape.Int(), Default(1)), false},
		{"nil default", Field("n", typeshape.Optional(typeshape.Int()), Default(nil)), false},
		{"factory", Field("n", typeshape.Int(), DefaultFactory(func() any { return 2 })), false},
		{"toggle", Field("n", typeshape.Bool()), false},
		{"help action", Field("n", typeshape.String(), WithAction(ActionHelp)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp, err := Build(tt.f)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if sp.Required != tt.want {
				t.Errorf("Required = %v, want %v", sp.Required, tt.want)
			}
		})
	}
}

func TestBuildHelp(t *testing.T) {
	tests := []struct {
		name string
		f    *FieldDecl
		want string
	}{
		{
			"all parts",
			Field("log_level", typeshape.LogLevel(), Default("INFO"), Description("Set the logging level")),
			"Set the logging level; choices: DEBUG, INFO, WARNING, ERROR, CRITICAL (default: INFO)",
		},
		{"description only", Field("n", typeshape.Int(), Description("A number")), "A number"},
		{"choices only", Field("c", typeshape.Literal("a", "b", "c")), "choices: a, b, c"},
		{"default only", Field("fp", typeshape.Float(), Default(1.5)), "(default: 1.5)"},
		{"description and default", Field("n", typeshape.Int(), Default(3), Description("Count")), "Count; (default: 3)"},
		{"nil default omitted", Field("n", typeshape.Optional(typeshape.Int()), Default(nil)), ""},
		{"toggle default", Field("v", typeshape.Bool(), WithAction(ActionStoreFalse)), "(default: true)"},
		{"list default", Field("l", typeshape.List(typeshape.String()), Default([]string{"a", "b"})), "(default: [a b])"},
		{"secret default masked", Field("token", typeshape.Secret(), Default(SecretString("hunter2"))), "(default: **********)"},
		{"mixed literal", Field("m", typeshape.Literal(1, "a")), "choices: 1, a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp, err := Build(tt.f)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if sp.Help != tt.want {
				t.Errorf("Help = %q, want %q", sp.Help, tt.want)
			}
		})
	}
}

func TestBuildFactoryCalledOncePerBuild(t *testing.T) {
	calls := 0
	f := Field("items", typeshape.List(typeshape.String()), DefaultFactory(func() any {
		calls++
		return []string{}
	}))
	for i := 1; i <= 3; i++ {
		if _, err := Build(f); err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if calls != i {
			t.Errorf("factory calls = %d after %d builds", calls, i)
		}
	}
}

func TestMetavar(t *testing.T) {
	tests := []struct {
		name string
		f    *FieldDecl
		want string
	}{
		{"plain", Field("name", typeshape.String()), "NAME"},
		{"explicit", Field("name", typeshape.String(), Metavar("N")), "N"},
		{"dest", Field("name", typeshape.String(), Dest("who")), "WHO"},
		{"optional", Field("name", typeshape.String(), WithNargs(NargsOptional)), "[NAME]"},
		{"any", Field("name", typeshape.List(typeshape.String()), WithNargs(NargsAny)), "[NAME ...]"},
		{"some", Field("name", typeshape.List(typeshape.String()), WithNargs(NargsSome)), "NAME [NAME ...]"},
		{"exact", Field("xy", typeshape.List(typeshape.Int()), WithNargs(NargsExactly(2))), "XY XY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp, err := Build(tt.f)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if got := sp.metavar(); got != tt.want {
				t.Errorf("metavar() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvertToken(t *testing.T) {
	mixed, err := typeshape.Resolve(typeshape.Literal(1, "a", 2.5))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	union, err := typeshape.Resolve(typeshape.Union(typeshape.Int(), typeshape.String()))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	float, _ := typeshape.Resolve(typeshape.Float())
	boolean, _ := typeshape.Resolve(typeshape.Bool())

	tests := []struct {
		name    string
		sh      typeshape.Shape
		tok     string
		want    any
		wantErr bool
	}{
		{"mixed int", mixed, "1", 1, false},
		{"mixed string", mixed, "a", "a", false},
		{"mixed float", mixed, "2.5", 2.5, false},
		{"mixed miss", mixed, "b", nil, true},
		{"union int first", union, "7", 7, false},
		{"union falls back", union, "seven", "seven", false},
		{"float", float, "1e3", 1000.0, false},
		{"float bad", float, "x", nil, true},
		{"bool", boolean, "true", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := convertToken(tt.sh, tt.tok)
			if (err != nil) != tt.wantErr {
				t.Fatalf("convertToken(%q) error = %v, wantErr %v", tt.tok, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("convertToken(%q) = %#v, want %#v", tt.tok, got, tt.want)
			}
		})
	}
}
