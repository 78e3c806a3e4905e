// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmodel

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/iancoleman/strcase"
	"tailscale.com/types/lazy"
)

// Record is the decoded, typed value of every field of one schema level.
// Values are keyed by field name. Lists are typed slices ([]string, []int,
// []float64, []bool, []SecretString, or []any for unions).
type Record struct {
	schema   *Schema
	values   map[string]any
	explicit map[string]bool
}

func (r *Record) Schema() *Schema { return r.schema }

// Get returns the value of the field called name. ok is false for unknown
// fields.
func (r *Record) Get(name string) (v any, ok bool) {
	v, ok = r.values[name]
	return v, ok
}

// Value returns the value of the field called name, or nil.
func (r *Record) Value(name string) any {
	return r.values[name]
}

func (r *Record) GetString(name string) string {
	switch v := r.values[name].(type) {
	case string:
		return v
	case SecretString:
		return v.Reveal()
	}
	return ""
}

func (r *Record) GetInt(name string) int {
	n, _ := r.values[name].(int)
	return n
}

func (r *Record) GetFloat(name string) float64 {
	f, _ := r.values[name].(float64)
	return f
}

func (r *Record) GetBool(name string) bool {
	b, _ := r.values[name].(bool)
	return b
}

func (r *Record) GetStrings(name string) []string {
	s, _ := r.values[name].([]string)
	return s
}

func (r *Record) GetInts(name string) []int {
	s, _ := r.values[name].([]int)
	return s
}

func (r *Record) GetSecret(name string) SecretString {
	s, _ := r.values[name].(SecretString)
	return s
}

// Explicit reports whether the field was given on the command line rather
// than taken from its default.
func (r *Record) Explicit(name string) bool {
	return r.explicit[name]
}

// Fields returns the names of the fields held by r, in declaration order.
func (r *Record) Fields() []string {
	var names []string
	for _, f := range r.schema.fields {
		if _, ok := r.values[f.name]; ok {
			names = append(names, f.name)
		}
	}
	return names
}

// Map returns a copy of the values keyed by field name.
func (r *Record) Map() map[string]any {
	return maps.Clone(r.values)
}

// Decode copies the record into out, a pointer to a struct, matching
// fields by their arg tag or snake_case name. Struct fields tagged with
// validate constraints are checked afterwards; failures are reported as a
// *ValidationError.
func (r *Record) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:    out,
		TagName:   "arg",
		MatchName: matchFieldName,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(r.values); err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}
	rv := reflect.ValueOf(out)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	return validateStruct(out)
}

func matchFieldName(mapKey, fieldName string) bool {
	return mapKey == fieldName || mapKey == strcase.ToSnake(fieldName)
}

var structValidator lazy.SyncValue[*validator.Validate]

func getValidator() *validator.Validate {
	return structValidator.Get(func() *validator.Validate {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _ := argTagName(f)
			return name
		})
		return v
	})
}

func validateStruct(out any) error {
	err := getValidator().Struct(out)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate: %w", err)
	}
	ve := &ValidationError{}
	for _, fe := range verrs {
		msg := "failed " + fe.Tag() + " constraint"
		if p := fe.Param(); p != "" {
			msg += " " + p
		}
		ve.Issues = append(ve.Issues, Issue{Field: fe.Field(), Code: IssueConstraint, Message: msg})
	}
	return ve
}

// argTagName returns the flag name of a struct field: the first element of
// its arg tag, or the snake_case field name. skip is true for arg:"-".
func argTagName(f reflect.StructField) (name string, skip bool) {
	tag := f.Tag.Get("arg")
	if tag == "-" {
		return "-", true
	}
	if name, _, _ = strings.Cut(tag, ","); name != "" {
		return name, false
	}
	return strcase.ToSnake(f.Name), false
}
