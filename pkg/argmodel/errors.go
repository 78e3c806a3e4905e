// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmodel

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for field declarations.
var (
	// ErrInvalidShort is returned when a short alias is not exactly one
	// ASCII character or is itself a dash.
	ErrInvalidShort = errors.New("short alias must be a single character")

	// ErrInvalidAction is returned for an action outside the supported set.
	ErrInvalidAction = errors.New("invalid action")

	// ErrInvalidNargs is returned for a nargs value the action cannot take.
	ErrInvalidNargs = errors.New("invalid nargs")

	// ErrDefaultsFormat is returned by LoadDefaults for an unknown file
	// extension.
	ErrDefaultsFormat = errors.New("unsupported defaults file format")

	errEmptyName = errors.New("field name is empty")
)

// Sentinel errors for parsing.
var (
	// ErrHelp is returned when help was requested and printed.
	ErrHelp = errors.New("help requested")

	// ErrVersion is returned when a version action fired and printed.
	ErrVersion = errors.New("version requested")

	// ErrMissingCommand is returned by Run when a schema has sub-commands and
	// none was selected.
	ErrMissingCommand = errors.New("a sub-command is required")
)

// FieldError reports a declaration problem with a single field.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// DuplicateFieldError is returned by NewSchema when two fields share a name.
type DuplicateFieldError struct {
	Name string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("duplicate field %q", e.Name)
}

// DuplicateFlagError is returned when two fields at the same parser level
// produce the same flag.
type DuplicateFlagError struct {
	Flag   string // "--name" or "-n"
	Field  string // the field that tried to register Flag second
	Other  string // the field that registered Flag first
	Parser string // command path of the parser level
}

func (e *DuplicateFlagError) Error() string {
	return fmt.Sprintf("%s: flag %s of field %q conflicts with field %q", e.Parser, e.Flag, e.Field, e.Other)
}

// DuplicateSubcommandError is returned when two children of the same schema
// register the same sub-command name.
type DuplicateSubcommandError struct {
	Name string
}

func (e *DuplicateSubcommandError) Error() string {
	return fmt.Sprintf("duplicate sub-command %q", e.Name)
}

// UsageError wraps a tokenizer error: an unknown flag, a missing value, an
// invalid choice, a missing required flag or an unknown sub-command.
type UsageError struct {
	Command string // command path the error was raised for
	Err     error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error { return e.Err }

// Issue codes reported by the decoder.
const (
	IssueMissing    = "missing"
	IssueType       = "type"
	IssueChoice     = "choice"
	IssueConstraint = "constraint"
)

// Issue is one per-field problem found while decoding.
type Issue struct {
	Field   string
	Code    string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// ValidationError lists every problem found while decoding a raw mapping
// into a record.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	if len(e.Issues) == 1 {
		sb.WriteString("1 validation error")
	} else {
		fmt.Fprintf(&sb, "%d validation errors", len(e.Issues))
	}
	for _, is := range e.Issues {
		sb.WriteString("\n  ")
		sb.WriteString(is.String())
	}
	return sb.String()
}

// Fields returns the names of the fields with issues, in order.
func (e *ValidationError) Fields() []string {
	names := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		names = append(names, is.Field)
	}
	return names
}
