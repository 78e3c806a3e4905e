// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package argmodel builds command-line parsers from field schemas and
// decodes parsed command lines back into typed records.
//
// A schema is an ordered list of fields. Each field has a declared type
// (see package typeshape), an optional default and an optional overlay that
// shapes its flag:
//
//	base := argmodel.MustSchema(
//		argmodel.Field("log_level", typeshape.LogLevel(),
//			argmodel.Default("INFO"), argmodel.Group("logging")),
//	)
//	s1 := argmodel.MustSchema(
//		argmodel.Field("integer", typeshape.Int(), argmodel.Short("i")),
//		argmodel.Field("fp", typeshape.Float(), argmodel.Short("f")),
//	)
//	root, err := base.WithSubcommands("").Add("s1", s1, runS1).Build()
//
// Every field becomes a long flag "--name" and, with Short, a one-character
// alias. Booleans are toggles set by presence. Literal types restrict the
// accepted tokens. Lists take several tokens when the field declares nargs.
//
// NewParser assembles a command tree over spf13/cobra and spf13/pflag.
// Parser.Parse yields an Invocation holding the raw values; Decode turns
// them into a Record, checking every value against its field. ReprArgs goes
// the other way and reconstructs tokens from a Record.
//
// ParseRecord and Parser.Run return errors to the caller. MustParseRecord
// and Parser.MustRun print diagnostics and exit instead.
package argmodel
